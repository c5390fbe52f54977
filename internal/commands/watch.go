package commands

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/binderworks/tcg-binder/internal/watch"
)

func newWatchCmd() *cobra.Command {
	var flagDir string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a drop folder and import csv/zip files automatically",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := flagDir
			if dir == "" {
				dir = cfg.Watch.Dir
			}
			if dir == "" {
				return fmt.Errorf("no watch directory: pass --dir or set [watch] dir in the config")
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			settle, err := cfg.GetSettleDelay()
			if err != nil {
				return err
			}

			w := &watch.Watcher{
				Dir:         dir,
				Catalog:     e.catalogImporter(),
				Images:      e.imageImporter(),
				SettleDelay: settle,
				OnImport: func(path string, count int) {
					ok("imported %d records from %s", count, path)
				},
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Printf("watching %s (ctrl-c to stop)\n", dir)
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagDir, "dir", "", "Directory to watch (overrides config)")
	return cmd
}
