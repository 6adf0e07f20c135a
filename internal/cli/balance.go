package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/devwallet/internal/chain"
)

// balanceCmd refreshes and shows both balances.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show token and native balances",
	Long: `Read the token and native balances of the connected account.

Both balances are read fresh in one refresh. If either read fails the last
good values are shown and the command reports the read error.

Example:
  devwallet balance
  devwallet balance -o json`,
	RunE: runBalance,
}

// balanceOutput is the JSON shape for a balance snapshot.
type balanceOutput struct {
	Account      string `json:"account"`
	Token        string `json:"token,omitempty"`
	TokenSymbol  string `json:"token_symbol"`
	Native       string `json:"native,omitempty"`
	NativeSymbol string `json:"native_symbol"`
}

func runBalance(cmd *cobra.Command, _ []string) error {
	ctrl, err := newController()
	if err != nil {
		return err
	}

	snap, err := ctrl.ConnectSilent(cmd.Context())
	if err != nil {
		return err
	}
	defer ctrl.Disconnect()

	balances, err := ctrl.RefreshBalances(cmd.Context())
	if err != nil {
		return err
	}

	if formatter.IsJSON() {
		out := balanceOutput{
			Account:      snap.Account,
			TokenSymbol:  cfg.Contract.Symbol,
			NativeSymbol: cfg.Network.Currency.Symbol,
		}
		if balances.Token != nil {
			out.Token = chain.FormatTokenAmount(balances.Token)
		}
		if balances.Native != nil {
			out.Native = chain.FormatTokenAmount(balances.Native)
		}
		return formatter.Print(out)
	}

	_ = formatter.Printf("Account:  %s\n", snap.Account)
	_ = formatter.Printf("Balance:  %s\n", formatBalances(balances))
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(balanceCmd)
}
