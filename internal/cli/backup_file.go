package cli

import (
	"github.com/spf13/cobra"

	"github.com/aurumwallet/aurum/internal/lifecycle"
	"github.com/aurumwallet/aurum/internal/output"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

var walletExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an encrypted backup file of the recovery phrase",
	Long: `Write an age-encrypted backup file containing the recovery phrase. The
file is decryptable with the wallet password alone, independent of this
device and its vault.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.Manager.Initialize(cmd.Context()); err != nil {
			return err
		}
		if app.Manager.State().Status == lifecycle.StatusNoWallet {
			return walleterr.ErrWalletNotFound
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

		address := app.Manager.State().Address
		if address == "" {
			// Locked session: derive the address without unlocking.
			if !app.Manager.Unlock(cmd.Context(), mnemonic) {
				return walleterr.Wrap(walleterr.ErrAuthentication, "verifying wallet")
			}
			address = app.Manager.State().Address
			app.Manager.Lock()
		}

		path, err := app.Backups.Export(address, mnemonic, password)
		if err != nil {
			return err
		}

		if formatter.IsJSON() {
			return formatter.Print(map[string]string{"path": path})
		}
		output.Successf("Backup written to %s", path)
		return nil
	},
}

var walletRestoreBiometric bool

var walletRestoreCmd = &cobra.Command{
	Use:   "restore <backup-file>",
	Short: "Restore a wallet from an encrypted backup file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest, err := app.Backups.Verify(args[0])
		if err != nil {
			return err
		}
		output.Infof("Backup of %s, created %s", manifest.Address, manifest.CreatedAt.Format("2006-01-02 15:04 MST"))

		password, err := promptPassword("Backup password: ")
		if err != nil {
			return err
		}

		mnemonic, err := app.Backups.Restore(args[0], password)
		if err != nil {
			return err
		}

		address, err := app.Manager.Import(cmd.Context(), mnemonic, password, walletRestoreBiometric)
		if err != nil {
			return err
		}

		if formatter.IsJSON() {
			return formatter.Print(map[string]string{"address": address})
		}
		output.Successf("Wallet restored: %s", address)
		return nil
	},
}

var walletBackupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List backup files",
	RunE: func(_ *cobra.Command, _ []string) error {
		names, err := app.Backups.List()
		if err != nil {
			return err
		}

		if formatter.IsJSON() {
			if names == nil {
				names = []string{}
			}
			return formatter.Print(map[string][]string{"backups": names})
		}

		if len(names) == 0 {
			output.Info("No backup files found.")
			return nil
		}
		for _, name := range names {
			_ = formatter.Println(name)
		}
		return nil
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	walletRestoreCmd.Flags().BoolVar(&walletRestoreBiometric, "biometric", false, "enable biometric unlock")

	walletCmd.AddCommand(walletExportCmd)
	walletCmd.AddCommand(walletRestoreCmd)
	walletCmd.AddCommand(walletBackupsCmd)
}
