package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/devwallet/internal/service/transaction"
)

// approveCmd grants a spender an allowance.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var approveCmd = &cobra.Command{
	Use:   "approve <spender> <amount>",
	Short: "Approve a spender",
	Long: `Grant a spender an allowance over the connected account's tokens.

The allowance is not capped by the current balance; it limits future
delegated transfers, not today's funds. Approving the same spender again
replaces the previous allowance.

Example:
  devwallet approve 0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B 25`,
	Args: cobra.ExactArgs(2),
	RunE: runApprove,
}

func runApprove(cmd *cobra.Command, args []string) error {
	return submitIntent(cmd, transaction.Intent{
		Kind:   transaction.KindApprove,
		To:     args[0],
		Amount: args[1],
	})
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(approveCmd)
}
