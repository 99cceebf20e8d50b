package commands

import (
	"github.com/spf13/cobra"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "studio",
	Short: "Transcript transformation server",
	Long: `studio turns stored transcripts into summaries, notes, lists, blog posts
and emails by streaming them through a language model.

Settings come from an optional YAML file, a .env file and the environment.
Maintenance commands open the same data directory as the server, so stop
the server first when it uses on-disk storage.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, jobsCmd, templatesCmd, transcriptsCmd)
}
