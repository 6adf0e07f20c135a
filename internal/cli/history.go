package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/devwallet/internal/service/transaction"
)

// historyCmd lists the session's transaction ledger.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show session transaction history",
	Long: `List the session's transactions, newest first.

The ledger is in-memory and session-bound: it holds the transactions of the
current session only and is never persisted.

Example:
  devwallet history -o json`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctrl, err := newController()
	if err != nil {
		return err
	}

	if _, err := ctrl.ConnectSilent(cmd.Context()); err != nil {
		return err
	}
	defer ctrl.Disconnect()

	records := ctrl.History()

	if formatter.IsJSON() {
		out := make([]txOutput, len(records))
		for i, rec := range records {
			out[i] = toTxOutput(rec)
		}
		return formatter.Print(out)
	}

	if len(records) == 0 {
		_ = formatter.Println("No transactions this session.")
		return nil
	}

	for _, rec := range records {
		printHistoryLine(rec)
	}
	return nil
}

func printHistoryLine(rec transaction.Record) {
	line := describeKind(rec.Kind) + ": " + string(rec.Status)
	if rec.Hash != "" {
		line += " (" + rec.Hash + ")"
	}
	_ = formatter.Println(line)
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(historyCmd)
}
