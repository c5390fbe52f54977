package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/binderworks/tcg-binder/internal/stats"
	"github.com/binderworks/tcg-binder/internal/storage/models"
)

func newPriceCmd() *cobra.Command {
	var (
		flagAdd   []string
		flagClear bool
	)

	cmd := &cobra.Command{
		Use:   "price <cardId>",
		Short: "Show or record purchase options for a card",
		Long: `Show or record purchase options for a card. Each note is a place and
a price; prices that do not parse as numbers are kept verbatim and
simply excluded from the cheapest-offer calculation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			cardID := args[0]

			if flagClear {
				if err := e.Notes.Delete(cardID); err != nil {
					return err
				}
				ok("cleared purchase notes for %s", cardID)
				return nil
			}

			if len(flagAdd) > 0 {
				rows := e.Notes.Rows(cardID)
				for _, spec := range flagAdd {
					place, price, found := strings.Cut(spec, "=")
					if !found {
						return fmt.Errorf("invalid --add %q, want place=price", spec)
					}
					rows = append(rows, models.SaleRow{Place: place, Price: price})
				}
				if err := e.Notes.SetRows(cardID, rows); err != nil {
					return err
				}
				ok("recorded %d offer(s) for %s", len(flagAdd), cardID)
				return nil
			}

			rows := e.Notes.Rows(cardID)
			if len(rows) == 0 {
				warn("no purchase notes for %s", cardID)
				return nil
			}
			for _, r := range rows {
				fmt.Printf("  %-20s %s\n", r.Place, r.Price)
			}
			if row, price, found := stats.MinPrice(rows); found {
				fmt.Printf("cheapest: %.2f (%s)\n", price, row.Place)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&flagAdd, "add", nil, "Record an offer as place=price (repeatable)")
	cmd.Flags().BoolVar(&flagClear, "clear", false, "Remove all purchase notes for the card")
	return cmd
}
