package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/neatjs/neat/pkg/neat"
)

func newGUIDCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "guid",
		Short: "Generate random GUIDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1, got %d", count)
			}

			ids := make([]string, count)
			for i := range ids {
				ids[i] = neat.NewGUID()
			}
			return printResult(cmd, ids, strings.Join(ids, "\n"))
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of GUIDs to generate")

	return cmd
}

func newRGBCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rgb HEX",
		Short: "Convert a hex color to rgb() notation",
		Example: `  neat rgb '#FF0000'
  neat rgb 00ff00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rgb, err := neat.HexToRGB(args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, map[string]string{"hex": args[0], "rgb": rgb}, rgb)
		},
	}
}

func newURLParamCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "urlparam NAME URL",
		Short: "Extract a query parameter from a URL",
		Example: `  neat urlparam q 'http://example.com/?q=hello+world'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := neat.URLParameterByName(args[0], args[1])
			return printResult(cmd, map[string]string{"name": args[0], "value": v}, v)
		},
	}
}
