package cli

import (
	"fmt"

	"github.com/mrz1836/devwallet/internal/chain"
	"github.com/mrz1836/devwallet/internal/output"
	"github.com/mrz1836/devwallet/internal/service/balance"
	"github.com/mrz1836/devwallet/internal/service/faucet"
	"github.com/mrz1836/devwallet/internal/service/transaction"
)

// txOutput is the JSON shape for a ledger record.
type txOutput struct {
	ID            uint64 `json:"id"`
	Kind          string `json:"kind"`
	Status        string `json:"status"`
	Hash          string `json:"hash,omitempty"`
	From          string `json:"from"`
	To            string `json:"to,omitempty"`
	Owner         string `json:"owner,omitempty"`
	Amount        string `json:"amount,omitempty"`
	FailureCode   string `json:"failure_code,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
	Explorer      string `json:"explorer,omitempty"`
}

func toTxOutput(rec transaction.Record) txOutput {
	out := txOutput{
		ID:            rec.ID,
		Kind:          string(rec.Kind),
		Status:        string(rec.Status),
		Hash:          rec.Hash,
		From:          rec.From,
		To:            rec.To,
		Owner:         rec.Owner,
		FailureCode:   rec.FailureCode,
		FailureReason: rec.FailureReason,
	}
	if rec.Amount != nil {
		out.Amount = chain.FormatTokenAmount(rec.Amount)
	}
	if rec.Hash != "" {
		out.Explorer = output.ExplorerTxURL(cfg.Network.Explorer, rec.Hash)
	}
	return out
}

// printRecord renders a settled (or failed) ledger record.
func printRecord(rec transaction.Record) error {
	if formatter.IsJSON() {
		return formatter.Print(toTxOutput(rec))
	}

	switch rec.Status {
	case transaction.StatusSettled:
		output.Successf("%s settled", describeKind(rec.Kind))
	case transaction.StatusFailed:
		output.Warnf("%s failed on chain", describeKind(rec.Kind))
	default:
		output.Infof("%s %s", describeKind(rec.Kind), rec.Status)
	}

	if rec.Amount != nil {
		_ = formatter.Printf("Amount:   %s %s\n", chain.FormatTokenAmount(rec.Amount), cfg.Contract.Symbol)
	}
	if rec.To != "" {
		_ = formatter.Printf("To:       %s\n", rec.To)
	}
	if rec.Owner != "" {
		_ = formatter.Printf("Owner:    %s\n", rec.Owner)
	}
	if rec.Hash != "" {
		_ = formatter.Printf("Tx:       %s\n", rec.Hash)
		if url := output.ExplorerTxURL(cfg.Network.Explorer, rec.Hash); url != "" {
			_ = formatter.Printf("Explorer: %s\n", url)
		}
	}
	if rec.FailureReason != "" {
		_ = formatter.Printf("Reason:   %s\n", rec.FailureReason)
	}
	return nil
}

func describeKind(kind transaction.Kind) string {
	switch kind {
	case transaction.KindTransfer:
		return "Transfer"
	case transaction.KindTransferAll:
		return "Transfer (all)"
	case transaction.KindApprove:
		return "Approval"
	case transaction.KindTransferFrom:
		return "Delegated transfer"
	case transaction.KindFaucetClaim:
		return "Faucet claim"
	}
	return string(kind)
}

// formatBalances renders both balances on one line.
func formatBalances(b balance.Balances) string {
	token := "unavailable"
	native := "unavailable"
	if b.Token != nil {
		token = fmt.Sprintf("%s %s", chain.FormatTokenAmount(b.Token), cfg.Contract.Symbol)
	}
	if b.Native != nil {
		native = fmt.Sprintf("%s %s", chain.FormatTokenAmount(b.Native), cfg.Network.Currency.Symbol)
	}
	return fmt.Sprintf("%s, %s", token, native)
}

// formatFaucet renders faucet availability.
func formatFaucet(s faucet.State) string {
	grant := s.DisplayAmount()
	if grant == "" {
		grant = "?"
	}
	if s.Claimable {
		return fmt.Sprintf("claimable (%s %s per claim)", grant, cfg.Contract.Symbol)
	}
	return fmt.Sprintf("cooldown %s remaining (%s %s per claim)",
		formatDuration(s.RemainingSeconds), grant, cfg.Contract.Symbol)
}

// formatDuration renders seconds as h/m/s.
func formatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
