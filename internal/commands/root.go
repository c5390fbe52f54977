// Package commands implements the tcg-binder command-line interface.
package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/binderworks/tcg-binder/internal/config"
)

var (
	cfg *config.Config

	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:   "tcg-binder",
	Short: "Track a personal trading-card collection",
	Long: `tcg-binder tracks a personal trading-card collection: a card catalog
imported from CSV, card artwork imported from ZIP, per-card ownership
counts, purchase-price notes, and text/archive backups.

All state lives under ~/.tcg-binder/.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.tcg-binder/config.toml)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		if flagConfig != "" {
			cfg, err = config.LoadFile(flagConfig)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		return nil
	}

	rootCmd.AddCommand(
		newImportCmd(),
		newImagesCmd(),
		newOwnCmd(),
		newListCmd(),
		newStatsCmd(),
		newPriceCmd(),
		newBackupCmd(),
		newArchiveCmd(),
		newWatchCmd(),
	)
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}
