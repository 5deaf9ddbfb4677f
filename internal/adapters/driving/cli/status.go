package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [job-id]",
	Short: "Show the status of an ingestion job",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	status, err := ingestor.Status(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("status failed: %w", err)
	}

	cmd.Printf("Job:      %s\n", status.JobID)
	cmd.Printf("Document: %s\n", status.DocumentID)
	cmd.Printf("Stage:    %s\n", status.Stage)
	cmd.Printf("Progress: %d%%\n", status.Progress)
	if status.Message != "" {
		cmd.Printf("Message:  %s\n", status.Message)
	}
	if status.Error != "" {
		cmd.Printf("Error:    %s\n", status.Error)
	}
	return nil
}
