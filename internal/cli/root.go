// Package cli implements the Aurum command-line interface.
//
// This package uses global variables to manage CLI state, which is the
// standard pattern for Cobra-based CLI applications. The globals are
// initialized in PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aurumwallet/aurum/internal/config"
	"github.com/aurumwallet/aurum/internal/output"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	formatter *output.Formatter
	app       *App
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "aurum",
	Short: "A non-custodial wallet with encrypted local key storage",
	Long: `Aurum is a non-custodial cryptocurrency wallet. The recovery phrase never
leaves the device: it is encrypted under your password and stored in a local
vault, with optional biometric unlock via the OS credential store.

Example:
  aurum wallet create
  aurum wallet status
  aurum unlock
  aurum wallet export --out backup.aurum`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initGlobals()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		if formatter != nil {
			_ = output.FormatError(os.Stderr, err, formatter.Format())
		} else {
			_ = output.FormatError(os.Stderr, err, output.FormatText)
		}
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return walleterr.ExitCode(err)
}

// initGlobals initializes configuration, logging and the wallet app.
func initGlobals() error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	var err error
	cfg, err = config.Load(config.Path(home))
	if err != nil {
		// Use defaults if config doesn't exist
		cfg = config.Defaults()
		cfg.Home = home
	}

	config.ApplyEnvironment(cfg)

	if homeDir != "" {
		cfg.Home = homeDir
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	explicit := output.FormatAuto
	if outputFormat != "" {
		explicit = output.ParseFormat(outputFormat)
	}
	formatter = output.NewFormatter(output.DetectFormat(os.Stdout, explicit), os.Stdout)

	app, err = NewApp(cfg)
	if err != nil {
		return err
	}
	return nil
}

// cleanup releases resources and drops key material.
func cleanup() {
	if app != nil {
		app.Close()
	}
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "aurum data directory (default: ~/.aurum)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
