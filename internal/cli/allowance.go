package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/devwallet/internal/chain"
)

// allowanceCmd checks what an owner has approved for the session account.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var allowanceCmd = &cobra.Command{
	Use:   "allowance <owner>",
	Short: "Check an allowance",
	Long: `Read the live allowance an owner has granted the connected account.

The result also arms transfer-from: a delegated transfer is only accepted
after the owner's allowance has been checked in the same session.

Example:
  devwallet allowance 0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B`,
	Args: cobra.ExactArgs(1),
	RunE: runAllowance,
}

// allowanceOutput is the JSON shape for an allowance check.
type allowanceOutput struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
	Symbol  string `json:"symbol"`
}

func runAllowance(cmd *cobra.Command, args []string) error {
	ctrl, err := newController()
	if err != nil {
		return err
	}

	snap, err := ctrl.ConnectSilent(cmd.Context())
	if err != nil {
		return err
	}
	defer ctrl.Disconnect()

	amount, err := ctrl.CheckAllowance(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if formatter.IsJSON() {
		return formatter.Print(allowanceOutput{
			Owner:   args[0],
			Spender: snap.Account,
			Amount:  chain.FormatTokenAmount(amount),
			Symbol:  cfg.Contract.Symbol,
		})
	}

	_ = formatter.Printf("Owner:     %s\n", args[0])
	_ = formatter.Printf("Spender:   %s\n", snap.Account)
	_ = formatter.Printf("Allowance: %s %s\n", chain.FormatTokenAmount(amount), cfg.Contract.Symbol)
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(allowanceCmd)
}
