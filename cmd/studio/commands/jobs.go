package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/transcript-studio/internal/store"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect transformation jobs",
}

var jobsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print one job as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		job, err := a.jobs.Find(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("job %s not found", args[0])
		}
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Owner string `json:"ownerId"`
			Job   any    `json:"job"`
		}{job.OwnerID, job})
	},
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a job and its transcript index entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.jobs.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		a.log.Info("job deleted", "id", args[0])
		return nil
	},
}

func init() {
	jobsCmd.AddCommand(jobsGetCmd, jobsDeleteCmd)
}
