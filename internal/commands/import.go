package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/binderworks/tcg-binder/internal/catalog"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import the card catalog from a CSV export",
		Long: `Import the card catalog from a CSV export. Rows are matched by the
cardId column (cardid accepted); an existing card is fully replaced by
its incoming row. Ownership counts and purchase notes are untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open csv: %w", err)
			}
			defer func() {
				_ = f.Close()
			}()

			rows, err := catalog.ParseCSV(f)
			if err != nil {
				return err
			}
			count, err := e.catalogImporter().ImportRows(cmd.Context(), rows)
			if err != nil {
				return err
			}

			ok("imported %d cards from %s", count, args[0])
			return nil
		},
	}
}
