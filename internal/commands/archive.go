package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/binderworks/tcg-binder/internal/images"
)

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Full backup of catalog, ownership and original images",
	}
	cmd.AddCommand(newArchiveExportCmd(), newArchiveImportCmd())
	return cmd
}

func newArchiveExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.zip>",
		Short: "Write the full archive backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			if err := e.backupPipeline().ExportArchive(cmd.Context(), args[0]); err != nil {
				return err
			}
			ok("archive written to %s", args[0])
			return nil
		},
	}
}

func newArchiveImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.zip>",
		Short: "Restore the collection from an archive backup",
		Long: `Restore the collection from an archive backup. This replaces the
catalog, ownership counts and images with the archive's content;
thumbnails are regenerated from the restored originals.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}

			p := e.backupPipeline()
			p.OnProgress = func(pr images.Progress) {
				fmt.Printf("\r[%d/%d] %s\033[K", pr.Done, pr.Total, pr.Current)
			}
			err = p.RestoreArchive(cmd.Context(), args[0])
			fmt.Println()
			if err != nil {
				return err
			}
			ok("collection restored from %s", args[0])
			return nil
		},
	}
}
