package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/devwallet/internal/service/transaction"
)

// faucetCmd is the parent command for faucet operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var faucetCmd = &cobra.Command{
	Use:   "faucet",
	Short: "Claim test tokens",
	Long: `Check faucet availability and claim test tokens.

The faucet pays a fixed grant per claim with a per-account cooldown. The
on-chain cooldown is re-checked at claim time; the local countdown is
display only.`,
	RunE: runFaucetStatus,
}

// faucetStatusCmd shows faucet availability.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var faucetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show faucet availability",
	RunE:  runFaucetStatus,
}

// faucetClaimCmd claims the faucet grant.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var faucetClaimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim the faucet grant",
	Long: `Claim the faucet grant for the connected account.

Fails with COOLDOWN_ACTIVE when the on-chain cooldown has not elapsed.

Example:
  devwallet faucet claim`,
	RunE: runFaucetClaim,
}

// faucetOutput is the JSON shape for faucet availability.
type faucetOutput struct {
	Claimable        bool   `json:"claimable"`
	RemainingSeconds int64  `json:"remaining_seconds"`
	GrantAmount      string `json:"grant_amount,omitempty"`
	Symbol           string `json:"symbol"`
}

func runFaucetStatus(cmd *cobra.Command, _ []string) error {
	ctrl, err := newController()
	if err != nil {
		return err
	}

	if _, err := ctrl.ConnectSilent(cmd.Context()); err != nil {
		return err
	}
	defer ctrl.Disconnect()

	state, err := ctrl.FaucetState()
	if err != nil {
		return err
	}

	if formatter.IsJSON() {
		return formatter.Print(faucetOutput{
			Claimable:        state.Claimable,
			RemainingSeconds: state.RemainingSeconds,
			GrantAmount:      state.DisplayAmount(),
			Symbol:           cfg.Contract.Symbol,
		})
	}

	_ = formatter.Printf("Faucet: %s\n", formatFaucet(state))
	return nil
}

func runFaucetClaim(cmd *cobra.Command, _ []string) error {
	return submitIntent(cmd, transaction.Intent{Kind: transaction.KindFaucetClaim})
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	faucetCmd.AddCommand(faucetStatusCmd)
	faucetCmd.AddCommand(faucetClaimCmd)
	rootCmd.AddCommand(faucetCmd)
}
