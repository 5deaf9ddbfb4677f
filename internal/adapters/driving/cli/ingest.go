package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driving"
)

var (
	ingestKind string
	ingestWait bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the skill map",
	Long: `Submits one or more files for ingestion. Each file is normalised to
plain text, analysed for concepts, clustered and indexed for search.

Use --wait to block until all submitted jobs finish.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestKind, "kind", string(domain.SourceFile),
		"source kind (text, url, file, image, video_transcript, audio_transcript)")
	ingestCmd.Flags().BoolVar(&ingestWait, "wait", true, "wait for ingestion to finish")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	ingestor.Start(ctx)

	// Read and submit files concurrently; submission order between
	// files is not significant.
	g, gctx := errgroup.WithContext(ctx)
	jobIDs := make([]string, len(args))

	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			jobID, err := ingestor.Submit(gctx, driving.Upload{
				OwnerID:    owner(),
				SourceKind: domain.SourceKind(ingestKind),
				Filename:   filepath.Base(path),
				URI:        path,
				Content:    content,
			})
			if err != nil {
				return fmt.Errorf("submitting %s: %w", path, err)
			}

			jobIDs[i] = jobID
			cmd.Printf("Submitted %s (job %s)\n", path, jobID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if !ingestWait {
		return nil
	}

	ingestor.Wait()
	ingestor.Stop()

	// Report terminal state per job
	failed := 0
	for i, jobID := range jobIDs {
		status, err := ingestor.Status(ctx, jobID)
		if err != nil {
			cmd.Printf("  %s: status unavailable (%v)\n", args[i], err)
			failed++
			continue
		}
		if status.Stage == domain.StageFailed {
			cmd.Printf("  %s: failed: %s\n", args[i], status.Error)
			failed++
			continue
		}
		cmd.Printf("  %s: %s\n", args[i], status.Stage)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(args))
	}
	return nil
}

// pollUntilTerminal polls a job until it reaches a terminal stage.
// Used by the watch command, which keeps the pool running.
func pollUntilTerminal(ctx context.Context, jobID string) (*driving.JobStatus, error) {
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			status, err := ingestor.Status(ctx, jobID)
			if err != nil {
				return nil, err
			}
			if status.Stage.Terminal() {
				return status, nil
			}
		}
	}
}
