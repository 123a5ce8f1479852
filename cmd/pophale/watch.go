package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pophale/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Repack the container whenever the scratch tree changes",
	Long: `Watch the scratch tree and rebuild the container after files
matching the configured patterns change. Bursts of changes are collapsed
into one repack.

Examples:
  pophale watch
  pophale watch --debug`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func runWatch(_ *cobra.Command, _ []string) {
	s := openSession()
	defer s.Close()

	if err := watchScratch(s); err != nil {
		s.fail("%v", err)
	}
}

// watchScratch repacks on every debounced change until interrupted. The
// watcher is closed before it returns.
func watchScratch(s *session) error {
	w, err := watch.New(s.ws.ScratchDir(), s.cfg.Watch.Patterns, s.cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s, press Ctrl+C to stop.\n", s.ws.ScratchDir())

	err = w.Run(ctx,
		func(paths []string) {
			s.logger.Debug("scratch tree changed", "files", paths)
			if _, err := s.ws.Pack(); err != nil {
				s.logger.Error("repack failed", "err", err)
			}
		},
		func(err error) {
			s.logger.Warn("watcher", "err", err)
		},
	)
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
