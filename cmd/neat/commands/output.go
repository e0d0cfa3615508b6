package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// printResult writes v as JSON when --json is set and text otherwise.
func printResult(cmd *cobra.Command, v interface{}, text string) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(out, text)
	return err
}
