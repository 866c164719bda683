package cli

import (
	"github.com/spf13/cobra"

	"github.com/aurumwallet/aurum/internal/output"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

var biometricCmd = &cobra.Command{
	Use:   "biometric",
	Short: "Manage biometric unlock",
}

var biometricEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable biometric unlock",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.Manager.Initialize(cmd.Context()); err != nil {
			return err
		}
		if !app.Manager.State().Biometric.Available {
			return walleterr.WithSuggestion(
				walleterr.ErrUnavailable,
				"no biometric capability on this platform",
			)
		}

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		if err := app.Manager.ToggleBiometric(true, password); err != nil {
			return err
		}
		output.Success("Biometric unlock enabled.")
		return nil
	},
}

var biometricDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable biometric unlock",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.Manager.Initialize(cmd.Context()); err != nil {
			return err
		}
		if !app.Manager.State().Biometric.Enabled {
			output.Info("Biometric unlock is not enabled.")
			return nil
		}

		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		if err := app.Manager.ToggleBiometric(false, password); err != nil {
			return err
		}
		output.Success("Biometric unlock disabled.")
		return nil
	},
}

var biometricStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show biometric capability and enrollment",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := app.Manager.Initialize(cmd.Context()); err != nil {
			return err
		}
		state := app.Manager.State()

		if formatter.IsJSON() {
			return formatter.Print(map[string]any{
				"available": state.Biometric.Available,
				"enabled":   state.Biometric.Enabled,
				"type":      string(state.Biometric.Type),
			})
		}
		_ = formatter.Printf("Biometric: %s\n", describeBiometric(state))
		return nil
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	biometricCmd.AddCommand(biometricEnableCmd)
	biometricCmd.AddCommand(biometricDisableCmd)
	biometricCmd.AddCommand(biometricStatusCmd)
	rootCmd.AddCommand(biometricCmd)
}
