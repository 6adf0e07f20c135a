package cli

import (
	"github.com/spf13/cobra"
)

// statusCmd shows the current session without prompting the wallet.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session status",
	Long: `Show the wallet session, balances, and faucet availability.

Uses the wallet's existing authorization; never prompts. Fails with
NOT_CONNECTED when the wallet has not authorized devwallet yet.

Example:
  devwallet status
  devwallet status -o json`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctrl, err := newController()
	if err != nil {
		return err
	}

	snap, err := ctrl.ConnectSilent(cmd.Context())
	if err != nil {
		return err
	}
	defer ctrl.Disconnect()

	return printSession(ctrl, snap)
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(statusCmd)
}
