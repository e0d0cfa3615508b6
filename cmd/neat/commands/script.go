package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/neatjs/neat/pkg/script"
)

func newScriptCommand(version string) *cobra.Command {
	var (
		timeout time.Duration
		vars    []string
	)

	cmd := &cobra.Command{
		Use:   "script FILE",
		Short: "Run a Starlark script against the store",
		Long: `Run a Starlark script with the storage, cookie and neat modules
predeclared. Top-level variables are printed when the script finishes.`,
		Example: `  # Copy a value under a new key
  cat > copy.star <<'END'
  storage.set(dst, storage.get(src, ""))
  END
  neat script copy.star --var src=theme --var dst=theme_backup`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read script: %w", err)
			}

			input := make(map[string]interface{}, len(vars))
			for _, kv := range vars {
				k, v, ok := strings.Cut(kv, "=")
				if !ok || k == "" {
					return fmt.Errorf("invalid --var %q, want NAME=VALUE", kv)
				}
				input[k] = v
			}

			e, err := openEnv(cmd.Context(), version)
			if err != nil {
				return err
			}
			defer e.close()

			runner := script.NewRunner(e.facade, e.cookies,
				script.WithTimeout(timeout),
				script.WithOutput(cmd.ErrOrStderr()),
			)

			res, err := runner.Run(e.ctx, args[0], string(src), input)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(res.Globals))
			for name := range res.Globals {
				names = append(names, name)
			}
			sort.Strings(names)

			lines := make([]string, len(names))
			for i, name := range names {
				lines[i] = fmt.Sprintf("%s = %v", name, res.Globals[name])
			}
			return printResult(cmd, res.Globals, strings.Join(lines, "\n"))
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", script.DefaultTimeout, "maximum run time")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "predeclare a string variable (NAME=VALUE)")

	return cmd
}
