package commands

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	flagOwner string
	flagTitle string
)

var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Manage transcripts",
}

var transcriptsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a PDF, HTML or text document as a transcript",
	Long: `Import a document as a transcript owned by --owner.

Example:
  studio transcripts import standup.pdf --owner alice --title "Standup"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagOwner == "" {
			return errors.New("--owner is required")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		name := filepath.Base(args[0])
		tr, err := a.importer.Import(cmd.Context(), flagOwner, flagTitle, name, mime.TypeByExtension(filepath.Ext(name)), data)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\t%d chars\n", tr.ID, tr.Title, len(tr.Text))
		return nil
	},
}

func init() {
	transcriptsImportCmd.Flags().StringVar(&flagOwner, "owner", "", "owner id of the new transcript")
	transcriptsImportCmd.Flags().StringVar(&flagTitle, "title", "", "title (defaults to the file name)")
	transcriptsCmd.AddCommand(transcriptsImportCmd)
}
