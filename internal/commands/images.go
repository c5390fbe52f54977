package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/binderworks/tcg-binder/internal/images"
)

func newImagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Manage card artwork",
	}
	cmd.AddCommand(newImagesImportCmd())
	return cmd
}

func newImagesImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.zip>",
		Short: "Import card artwork from a ZIP archive",
		Long: `Import card artwork from a ZIP archive. Each image's base filename
(without extension) is the cardId it attaches to; folder structure
inside the archive is recorded as provenance but does not affect
identity. A downscaled thumbnail is generated for every image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}

			entries, err := images.ReadArchive(args[0])
			if err != nil {
				return err
			}

			imp := e.imageImporter()
			imp.OnProgress = func(p images.Progress) {
				fmt.Printf("\r[%d/%d] %s\033[K", p.Done, p.Total, p.Current)
			}
			count, err := imp.Import(cmd.Context(), entries)
			fmt.Println()
			if err != nil {
				return err
			}

			ok("imported %d images from %s", count, args[0])
			return nil
		},
	}
}
