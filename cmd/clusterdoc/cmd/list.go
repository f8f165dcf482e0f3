package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fieldeng/clusterdoc/internal/checks"
)

var listCmd = &cobra.Command{
	Use:   "list [pattern]",
	Short: "List available diagnostic checks",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}

	matched := checks.Default().Find(pattern)
	if len(matched) == 0 {
		return fmt.Errorf("no checks match %q", pattern)
	}

	for _, c := range matched {
		fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", c.ID, c.Description)
	}
	return nil
}
