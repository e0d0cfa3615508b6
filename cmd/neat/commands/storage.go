package commands

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/neatjs/neat/pkg/stores"
)

func newStorageCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Read and write values through the storage facade",
		Long: `Read and write values through the storage facade.

Every key is stored under the configured prefix. Each command probes the
local store first and uses the cookie jar when the probe fails.`,
	}

	cmd.AddCommand(newStorageSetCommand(version))
	cmd.AddCommand(newStorageGetCommand(version))
	cmd.AddCommand(newStorageRemoveCommand(version))
	cmd.AddCommand(newStorageProbeCommand(version))
	cmd.AddCommand(newStorageKeysCommand(version))

	return cmd
}

func newStorageSetCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Store a value",
		Example: `  # Store a value
  neat storage set theme dark`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), version)
			if err != nil {
				return err
			}
			defer e.close()

			e.facade.Set(e.ctx, args[0], args[1])

			log.Debug().Str("key", args[0]).Msg("Value stored")
			return nil
		},
	}
}

func newStorageGetCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print a stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), version)
			if err != nil {
				return err
			}
			defer e.close()

			v, ok := e.facade.Get(e.ctx, args[0])
			if !ok {
				return fmt.Errorf("key %q not found", args[0])
			}

			return printResult(cmd, map[string]string{"key": args[0], "value": v}, v)
		},
	}
}

func newStorageRemoveCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:     "remove KEY",
		Aliases: []string{"rm"},
		Short:   "Remove a stored value",
		Long: `Remove a stored value from the store selected for this call.

When the local store is available, a copy previously written to the cookie
jar is left in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), version)
			if err != nil {
				return err
			}
			defer e.close()

			e.facade.Remove(e.ctx, args[0])
			return nil
		},
	}
}

func newStorageProbeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Report whether the local store accepts writes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), version)
			if err != nil {
				return err
			}
			defer e.close()

			available := e.facade.LocalAvailable(e.ctx)
			backend := "cookie"
			if available {
				backend = e.local.Name()
			}

			return printResult(cmd,
				map[string]interface{}{"local_available": available, "backend": backend},
				fmt.Sprintf("local available: %t (using %s)", available, backend))
		},
	}
}

func newStorageKeysCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List keys held by the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), version)
			if err != nil {
				return err
			}
			defer e.close()

			lister, ok := e.local.(stores.Store)
			if !ok {
				return fmt.Errorf("local store does not support listing keys")
			}

			prefix := e.facade.Prefix()
			full, err := lister.Keys(e.ctx, prefix)
			if err != nil {
				return fmt.Errorf("failed to list keys: %w", err)
			}

			keys := make([]string, len(full))
			for i, k := range full {
				keys[i] = strings.TrimPrefix(k, prefix)
			}

			return printResult(cmd, keys, strings.Join(keys, "\n"))
		},
	}
}
