package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/skillmap-labs/skillmap-cli/internal/core/domain"
	"github.com/skillmap-labs/skillmap-cli/internal/core/ports/driving"
	"github.com/skillmap-labs/skillmap-cli/internal/logger"
)

// watchSettleDelay is how long a file must be quiet before it is
// ingested, so partially written files are not picked up.
const watchSettleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new files",
	Long: `Watches a directory and automatically ingests files as they are
created or modified. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

//nolint:gocognit // Event loop coordinating watcher, debounce and shutdown
func runWatch(cmd *cobra.Command, args []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("watch target must be a directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ingestor.Start(ctx)
	cmd.Printf("Watching %s (ctrl-c to stop)\n", dir)

	// Debounce per path: a timer is reset on every write event and
	// fires once the file settles.
	timers := make(map[string]*time.Timer)
	ingestPath := func(path string) {
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Reading %s: %v", path, err)
			return
		}
		jobID, err := ingestor.Submit(ctx, driving.Upload{
			OwnerID:    owner(),
			SourceKind: domain.SourceFile,
			Filename:   filepath.Base(path),
			URI:        path,
			Content:    content,
		})
		if err != nil {
			logger.Warn("Submitting %s: %v", path, err)
			return
		}
		cmd.Printf("Submitted %s (job %s)\n", path, jobID)

		go func() {
			status, err := pollUntilTerminal(ctx, jobID)
			if err != nil {
				return
			}
			if status.Stage == domain.StageFailed {
				cmd.Printf("  %s: failed: %s\n", path, status.Error)
			} else {
				cmd.Printf("  %s: %s\n", path, status.Stage)
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopping watch")
			ingestor.Wait()
			ingestor.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if isHiddenPath(event.Name) {
				continue
			}

			path := event.Name
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(watchSettleDelay, func() {
				ingestPath(path)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// isHiddenPath reports whether the file should be ignored by the
// watcher (dotfiles, editor temp files).
func isHiddenPath(path string) bool {
	base := filepath.Base(path)
	if base == "" {
		return true
	}
	if base[0] == '.' {
		return true
	}
	ext := filepath.Ext(base)
	return ext == ".tmp" || ext == ".swp" || ext == ".part"
}
