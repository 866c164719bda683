package cli

import (
	"github.com/spf13/cobra"

	"github.com/aurumwallet/aurum/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(_ *cobra.Command, _ []string) error {
		if formatter.IsJSON() {
			return formatter.Print(map[string]string{
				"version": version.Version,
				"commit":  version.Commit,
			})
		}
		return formatter.Printf("aurum %s (%s)\n", version.Version, version.Commit)
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)
}
