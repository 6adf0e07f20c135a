package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/devwallet/internal/service/transaction"
	walleterr "github.com/mrz1836/devwallet/pkg/errors"
)

// transferAll sends the entire token balance instead of a fixed amount.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var transferAll bool

// transferCmd sends tokens to a recipient.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var transferCmd = &cobra.Command{
	Use:   "transfer <recipient> [amount]",
	Short: "Transfer tokens",
	Long: `Transfer tokens to a recipient.

The amount is validated against the live balance before the wallet sees the
request. With --all the entire balance at submission time is sent; the
amount argument must then be omitted.

The command blocks until the transaction settles or fails.

Example:
  devwallet transfer 0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B 1.5
  devwallet transfer 0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B --all`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTransfer,
}

func runTransfer(cmd *cobra.Command, args []string) error {
	intent := transaction.Intent{
		Kind: transaction.KindTransfer,
		To:   args[0],
	}

	switch {
	case transferAll && len(args) > 1:
		return walleterr.WithDetails(walleterr.ErrValidation, map[string]string{
			"reason": "--all and an explicit amount are mutually exclusive",
		})
	case transferAll:
		intent.Kind = transaction.KindTransferAll
	case len(args) > 1:
		intent.Amount = args[1]
	default:
		return walleterr.ErrAmountRequired
	}

	return submitIntent(cmd, intent)
}

// submitIntent runs an intent through a fresh session and prints the result.
func submitIntent(cmd *cobra.Command, intent transaction.Intent) error {
	ctrl, err := newController()
	if err != nil {
		return err
	}

	if _, err := ctrl.ConnectSilent(cmd.Context()); err != nil {
		return err
	}
	defer ctrl.Disconnect()

	rec, err := ctrl.Submit(cmd.Context(), intent)
	if err != nil {
		return err
	}
	return printRecord(rec)
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	transferCmd.Flags().BoolVar(&transferAll, "all", false, "send the entire token balance")
	rootCmd.AddCommand(transferCmd)
}
