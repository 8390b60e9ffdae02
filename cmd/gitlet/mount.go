package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/systemshift/gitlet/internal/fuse"
	"github.com/systemshift/gitlet/internal/output"
)

func newMountCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "mount <dir>",
		Short: "Browse history through a read-only FUSE filesystem",
		Long: `Mount a read-only view of the repository at <dir>:

  HEAD                   current branch and head commit id
  log                    the log output of the current branch
  branches/<name>/       files tracked by each branch head
  commits/<id>/          files tracked by any commit, by full id

The command runs until interrupted, then unmounts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			if len(args) != 1 {
				return report(printer, errIncorrectOperands)
			}
			r, err := openRepo(cmd)
			if err != nil {
				return report(printer, err)
			}

			mountpoint := args[0]
			if err := os.MkdirAll(mountpoint, 0755); err != nil {
				return output.NewSystemErrorWithCause("create mountpoint", err)
			}

			logger := newLogger(cmd.ErrOrStderr())
			logger.Printf("mounting %s at %s", r.Root(), mountpoint)
			server, err := fuse.MountFS(mountpoint, r, debug)
			if err != nil {
				return output.NewSystemErrorWithCause("mount failed", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger.Printf("ready (pid %d)", os.Getpid())
			runMount(ctx, server, logger)
			return nil
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "Log every FUSE request")

	return cmd
}

// unmounter is the part of the FUSE server the mount lifecycle drives.
type unmounter interface {
	Unmount() error
	Wait()
}

// runMount blocks until the filesystem goes away. An unmount from outside
// ends it directly; ctx ending unmounts first.
func runMount(ctx context.Context, server unmounter, logger *log.Logger) {
	done := make(chan struct{})
	go func() {
		server.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Println("shutting down...")
		if err := server.Unmount(); err != nil {
			logger.Printf("unmount: %v", err)
			return
		}
		<-done
	}
	logger.Println("stopped")
}
