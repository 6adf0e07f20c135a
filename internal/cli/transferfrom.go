package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/devwallet/internal/service/transaction"
)

// transferFromCmd moves tokens out of an owner's account under an allowance.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var transferFromCmd = &cobra.Command{
	Use:   "transfer-from <owner> <recipient> <amount>",
	Short: "Transfer tokens from another account",
	Long: `Move tokens out of an owner's account using an allowance they granted
the connected account.

The owner's allowance is checked first; a request exceeding it is refused
before the wallet sees anything.

Example:
  devwallet transfer-from 0xOwner... 0xRecipient... 10`,
	Args: cobra.ExactArgs(3),
	RunE: runTransferFrom,
}

func runTransferFrom(cmd *cobra.Command, args []string) error {
	ctrl, err := newController()
	if err != nil {
		return err
	}

	if _, err := ctrl.ConnectSilent(cmd.Context()); err != nil {
		return err
	}
	defer ctrl.Disconnect()

	// Arm the delegated transfer with a fresh allowance check.
	if _, err := ctrl.CheckAllowance(cmd.Context(), args[0]); err != nil {
		return err
	}

	rec, err := ctrl.Submit(cmd.Context(), transaction.Intent{
		Kind:   transaction.KindTransferFrom,
		Owner:  args[0],
		To:     args[1],
		Amount: args[2],
	})
	if err != nil {
		return err
	}
	return printRecord(rec)
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(transferFromCmd)
}
