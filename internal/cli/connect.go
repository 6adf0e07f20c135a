package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/devwallet/internal/output"
	"github.com/mrz1836/devwallet/internal/session"
)

// connectCmd establishes a wallet session with an authorization prompt.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect to the wallet",
	Long: `Establish a session with the external wallet.

The wallet prompts for account authorization. If the wallet is on the wrong
network, devwallet switches it, registering the network first when the
wallet has never seen it.

Example:
  devwallet connect`,
	RunE: runConnect,
}

// sessionOutput is the JSON shape for session information.
type sessionOutput struct {
	Phase   string `json:"phase"`
	Account string `json:"account,omitempty"`
	ChainID string `json:"chain_id,omitempty"`
	Network string `json:"network,omitempty"`
	Brand   string `json:"brand,omitempty"`
}

func runConnect(cmd *cobra.Command, _ []string) error {
	ctrl, err := newController()
	if err != nil {
		return err
	}

	snap, err := ctrl.Connect(cmd.Context())
	if err != nil {
		return err
	}
	defer ctrl.Disconnect()

	return printSession(ctrl, snap)
}

// printSession renders a session snapshot with balances and faucet state.
func printSession(ctrl *session.Controller, snap session.Snapshot) error {
	if formatter.IsJSON() {
		return formatter.Print(sessionOutput{
			Phase:   string(snap.Phase),
			Account: snap.Account,
			ChainID: snap.ChainID,
			Network: cfg.Network.Name,
			Brand:   snap.Brand,
		})
	}

	output.Successf("connected to %s", cfg.Network.Name)
	_ = formatter.Printf("Account:  %s\n", snap.Account)
	_ = formatter.Printf("Chain:    %s (%s)\n", cfg.Network.Name, snap.ChainID)
	if snap.Brand != "" {
		_ = formatter.Printf("Wallet:   %s\n", snap.Brand)
	}

	if balances, err := ctrl.Balances(); err == nil {
		_ = formatter.Printf("Balance:  %s\n", formatBalances(balances))
	}
	if state, err := ctrl.FaucetState(); err == nil {
		_ = formatter.Printf("Faucet:   %s\n", formatFaucet(state))
	}
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(connectCmd)
}
