package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Text backup of ownership and purchase notes",
	}
	cmd.AddCommand(newBackupExportCmd(), newBackupImportCmd())
	return cmd
}

func newBackupExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the text backup to a file or stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}

			data, err := e.backupPipeline().ExportText(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 0 {
				fmt.Println(string(data))
				return nil
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return fmt.Errorf("write backup: %w", err)
			}
			ok("text backup written to %s", args[0])
			return nil
		},
	}
}

func newBackupImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Merge a text backup from a file or stdin",
		Long: `Merge a text backup into the collection. Ownership counts and
purchase notes for known cards are applied; entries for cards missing
from the catalog are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}

			var data []byte
			if len(args) == 0 {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}

			stats, err := e.backupPipeline().RestoreText(cmd.Context(), data)
			if err != nil {
				return err
			}

			ok("applied %d ownership entries, %d purchase lists", stats.OwnershipApplied, stats.PurchasesApplied)
			if skipped := stats.OwnershipSkipped + stats.PurchasesSkipped; skipped > 0 {
				warn("skipped %d entries for cards not in the catalog", skipped)
			}
			return nil
		},
	}
}
