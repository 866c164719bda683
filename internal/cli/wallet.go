package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aurumwallet/aurum/internal/lifecycle"
	"github.com/aurumwallet/aurum/internal/output"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

// walletCmd is the parent for wallet lifecycle operations.
var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the wallet",
}

var walletCreateBiometric bool

var walletCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new wallet",
	Long: `Create a new wallet with a freshly generated 12-word recovery phrase.

The phrase is shown exactly once. Write it down and store it safely, then
confirm the backup with "aurum wallet backup".`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		password, err := promptNewPassword()
		if err != nil {
			return err
		}

		mnemonic, address, err := app.Manager.Create(cmd.Context(), password, walletCreateBiometric)
		if err != nil {
			return err
		}

		if formatter.IsJSON() {
			return formatter.Print(map[string]any{
				"address":  address,
				"mnemonic": mnemonic,
				"status":   string(lifecycle.StatusBackupPending),
			})
		}

		output.Successf("Wallet created: %s", address)
		outln(formatter.Writer())
		outln(formatter.Writer(), "Your recovery phrase (shown once, write it down):")
		outln(formatter.Writer())
		printMnemonic(mnemonic)
		outln(formatter.Writer())
		output.Warn("Anyone with this phrase can spend your funds.")
		output.Info(`Confirm your backup with "aurum wallet backup".`)
		return nil
	},
}

var walletImportBiometric bool

var walletImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a wallet from a recovery phrase",
	RunE: func(cmd *cobra.Command, _ []string) error {
		mnemonic, err := promptMnemonic()
		if err != nil {
			return err
		}
		password, err := promptNewPassword()
		if err != nil {
			return err
		}

		address, err := app.Manager.Import(cmd.Context(), mnemonic, password, walletImportBiometric)
		if err != nil {
			return err
		}

		if formatter.IsJSON() {
			return formatter.Print(map[string]any{
				"address": address,
				"status":  string(lifecycle.StatusUnlocked),
			})
		}
		output.Successf("Wallet imported: %s", address)
		return nil
	},
}

// walletStatusResponse is the JSON shape of "wallet status".
type walletStatusResponse struct {
	Status             string `json:"status"`
	Address            string `json:"address,omitempty"`
	BiometricAvailable bool   `json:"biometric_available"`
	BiometricEnabled   bool   `json:"biometric_enabled"`
	BiometricType      string `json:"biometric_type"`
	Error              string `json:"error,omitempty"`
}

var walletStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the wallet lifecycle status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.Manager.Initialize(cmd.Context()); err != nil {
			app.Logger.Error("initialize failed", zap.Error(err))
		}
		state := app.Manager.State()

		resp := walletStatusResponse{
			Status:             string(state.Status),
			Address:            state.Address,
			BiometricAvailable: state.Biometric.Available,
			BiometricEnabled:   state.Biometric.Enabled,
			BiometricType:      string(state.Biometric.Type),
			Error:              state.Err,
		}
		if formatter.IsJSON() {
			return formatter.Print(resp)
		}

		_ = formatter.Printf("Status:    %s\n", resp.Status)
		if resp.Address != "" {
			_ = formatter.Printf("Address:   %s\n", resp.Address)
		}
		_ = formatter.Printf("Biometric: %s\n", describeBiometric(state))
		if resp.Error != "" {
			_ = formatter.Printf("Error:     %s\n", resp.Error)
		}
		return nil
	},
}

var walletBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Confirm the recovery phrase has been backed up",
	Long: `Confirm the recovery phrase has been written down. Until confirmed the
wallet unlocks into the backup-pending state and the phrase is shown again.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.Manager.Initialize(cmd.Context()); err != nil {
			return err
		}

		// A locked wallet may still be waiting on its backup; the flag only
		// becomes visible after unlocking, so verify the password first.
		if app.Manager.State().Status == lifecycle.StatusLocked {
			password, err := passwordPrompt("Password: ")
			if err != nil {
				return err
			}
			mnemonic, ok := app.Manager.CheckPassword(password)
			if !ok {
				return walleterr.Wrap(walleterr.ErrAuthentication, "verifying password")
			}
			app.Manager.Unlock(cmd.Context(), mnemonic)
		}

		state := app.Manager.State()
		if state.Status != lifecycle.StatusBackupPending {
			output.Info("No backup confirmation pending.")
			return nil
		}

		if !formatter.IsJSON() {
			outln(formatter.Writer(), "Your recovery phrase (write it down before confirming):")
			outln(formatter.Writer())
			printMnemonic(state.BackupPhrase)
			outln(formatter.Writer())
		}

		if err := app.Manager.ConfirmBackup(); err != nil {
			return err
		}
		output.Success("Backup confirmed. The phrase will not be shown again.")
		return nil
	},
}

var walletResetForce bool

var walletResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the wallet from this device",
	Long: `Delete the wallet, its encrypted recovery phrase and all preferences from
this device. Funds are only recoverable with the backed-up phrase.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !walletResetForce {
			return walleterr.WithSuggestion(
				walleterr.ErrInvalidInput,
				"re-run with --force to confirm deleting the wallet from this device",
			)
		}

		if err := app.Manager.Reset(cmd.Context()); err != nil {
			return err
		}
		output.Success("Wallet removed from this device.")
		return nil
	},
}

// printMnemonic renders the phrase in numbered columns for transcription.
func printMnemonic(mnemonic string) {
	words := strings.Fields(mnemonic)
	for i, word := range words {
		_ = formatter.Printf("  %2d. %-12s", i+1, word)
		if (i+1)%3 == 0 {
			outln(formatter.Writer())
		}
	}
	if len(words)%3 != 0 {
		outln(formatter.Writer())
	}
}

func describeBiometric(state lifecycle.State) string {
	switch {
	case !state.Biometric.Available:
		return "unavailable"
	case state.Biometric.Enabled:
		return "enabled (" + string(state.Biometric.Type) + ")"
	default:
		return "available (" + string(state.Biometric.Type) + "), disabled"
	}
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	walletCreateCmd.Flags().BoolVar(&walletCreateBiometric, "biometric", false, "enable biometric unlock")
	walletImportCmd.Flags().BoolVar(&walletImportBiometric, "biometric", false, "enable biometric unlock")
	walletResetCmd.Flags().BoolVar(&walletResetForce, "force", false, "skip the confirmation guard")

	walletCmd.AddCommand(walletCreateCmd)
	walletCmd.AddCommand(walletImportCmd)
	walletCmd.AddCommand(walletStatusCmd)
	walletCmd.AddCommand(walletBackupCmd)
	walletCmd.AddCommand(walletResetCmd)
	rootCmd.AddCommand(walletCmd)
}
