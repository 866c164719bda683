package cli

import (
	"github.com/spf13/cobra"

	"github.com/aurumwallet/aurum/internal/lifecycle"
	"github.com/aurumwallet/aurum/internal/output"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

var unlockBiometric bool

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock the wallet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.Manager.Initialize(cmd.Context()); err != nil {
			return err
		}

		switch app.Manager.State().Status {
		case lifecycle.StatusNoWallet:
			return walleterr.WithSuggestion(
				walleterr.ErrWalletNotFound,
				`create one with "aurum wallet create" or import with "aurum wallet import"`,
			)
		case lifecycle.StatusUnlocked, lifecycle.StatusBackupPending:
			output.Info("Wallet is already unlocked.")
			return nil
		case lifecycle.StatusLoading, lifecycle.StatusLocked:
		}

		if unlockBiometric {
			if err := app.Manager.UnlockWithBiometric(cmd.Context()); err != nil {
				return err
			}
			return reportUnlocked()
		}

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		mnemonic, ok := app.Manager.CheckPassword(password)
		if !ok {
			return walleterr.WithSuggestion(
				walleterr.ErrAuthentication,
				"check your password and try again",
			)
		}
		if !app.Manager.Unlock(cmd.Context(), mnemonic) {
			return walleterr.Wrap(walleterr.ErrAuthentication, "unlocking wallet")
		}
		return reportUnlocked()
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock the wallet and wipe key material from memory",
	RunE: func(_ *cobra.Command, _ []string) error {
		app.Manager.Lock()
		if formatter.IsJSON() {
			return formatter.Print(map[string]string{
				"status": string(app.Manager.State().Status),
			})
		}
		output.Success("Wallet locked.")
		return nil
	},
}

func reportUnlocked() error {
	state := app.Manager.State()
	if formatter.IsJSON() {
		resp := map[string]string{
			"status":  string(state.Status),
			"address": state.Address,
		}
		return formatter.Print(resp)
	}

	output.Successf("Wallet unlocked: %s", state.Address)
	if state.Status == lifecycle.StatusBackupPending {
		output.Warn(`Your recovery phrase is not backed up yet. Run "aurum wallet backup".`)
	}
	return nil
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	unlockCmd.Flags().BoolVar(&unlockBiometric, "biometric", false, "unlock via the biometric escrow")
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(lockCmd)
}
