package commands

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool
)

// Execute runs the neat command line. version is reported by --version and
// attached to telemetry as the service version.
func Execute(ctx context.Context, version string) error {
	return newRootCommand(version).ExecuteContext(ctx)
}

func newRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "neat",
		Short: "neat - key/value storage with cookie fallback",
		Long: `neat stores small string values under a namespaced key. Values go to a
local store (SQLite by default) when it accepts writes and to a cookie jar
when it does not.

It also ships the small helpers of the neat library:
  - GUID generation
  - hex color to rgb() conversion
  - URL query parameter extraction
  - Starlark scripting against the store`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (YAML or CUE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(newStorageCommand(version))
	rootCmd.AddCommand(newCookieCommand())
	rootCmd.AddCommand(newGUIDCommand())
	rootCmd.AddCommand(newRGBCommand())
	rootCmd.AddCommand(newURLParamCommand())
	rootCmd.AddCommand(newMetricsCommand(version))
	rootCmd.AddCommand(newScriptCommand(version))

	return rootCmd
}
