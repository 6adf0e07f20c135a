package cli

import (
	"github.com/mrz1836/devwallet/internal/output"
	"github.com/mrz1836/devwallet/internal/session"
)

// cliListener surfaces controller notifications on the terminal. Faucet ticks
// and ledger events stay quiet; the commands that care print those
// themselves.
type cliListener struct {
	session.NopListener
}

func newCLIListener() session.Listener {
	return cliListener{}
}

// Notify implements session.Listener.
func (cliListener) Notify(severity session.Severity, message string) {
	switch severity {
	case session.SeverityWarn, session.SeverityError:
		output.Warn(message)
	default:
		output.Info(message)
	}
}
