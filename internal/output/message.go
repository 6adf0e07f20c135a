package output

import (
	"fmt"
	"os"
	"strings"
)

// Info prints an informational message to stdout with an info prefix.
func Info(msg string) {
	_, _ = fmt.Fprintln(os.Stdout, "ℹ️  "+msg)
}

// Infof prints a formatted informational message to stdout.
func Infof(format string, args ...any) {
	Info(fmt.Sprintf(format, args...))
}

// Warn prints a warning message to stderr with a warning prefix.
func Warn(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, "⚠️  "+msg)
}

// Warnf prints a formatted warning message to stderr.
func Warnf(format string, args ...any) {
	Warn(fmt.Sprintf(format, args...))
}

// Success prints a success message to stdout with a success prefix.
func Success(msg string) {
	_, _ = fmt.Fprintln(os.Stdout, "✅ "+msg)
}

// Successf prints a formatted success message to stdout.
func Successf(format string, args ...any) {
	Success(fmt.Sprintf(format, args...))
}

// ExplorerTxURL builds a block-explorer link for a transaction hash.
// Display-only; never used for logic.
func ExplorerTxURL(explorer, hash string) string {
	if explorer == "" || hash == "" {
		return ""
	}
	return strings.TrimRight(explorer, "/") + "/tx/" + hash
}

// ShortAddress abbreviates an address for display: 0x1234...abcd.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
