package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/transcript-studio/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect prompt templates",
}

var templatesBuiltinCmd = &cobra.Command{
	Use:   "builtin",
	Short: "List the built-in templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VALUE\tNAME")
		for _, t := range templates.DefaultCatalog().All() {
			fmt.Fprintf(tw, "%s\t%s\n", t.Value, t.Name)
		}
		return tw.Flush()
	},
}

func init() {
	templatesCmd.AddCommand(templatesBuiltinCmd)
}
