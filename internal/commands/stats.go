package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/binderworks/tcg-binder/internal/stats"
)

func newStatsCmd() *cobra.Command {
	var flagChart string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show collection completion figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			cards, err := e.Cards.GetAll(ctx)
			if err != nil {
				return err
			}
			owned, err := e.Owned.GetAll(ctx)
			if err != nil {
				return err
			}

			summary := stats.Summarize(cards, owned)
			fmt.Printf("catalog:    %d cards\n", summary.CatalogSize)
			fmt.Printf("owned:      %d kinds, %d copies\n", summary.OwnedKinds, summary.TotalCopies)
			fmt.Printf("completion: %.1f%%\n", summary.Completion*100)

			byDan := stats.ByDan(cards, owned)
			for _, d := range byDan {
				fmt.Printf("  %-10s %d/%d\n", d.Dan, d.Owned, d.Total)
			}

			offers := stats.CheapestOffers(e.Notes.All())
			if len(offers) > 0 {
				fmt.Println("cheapest recorded offers:")
				for _, o := range offers {
					fmt.Printf("  %-12s %.2f (%s)\n", o.CardID, o.Price, o.Place)
				}
			}

			if flagChart != "" {
				if err := stats.WriteCompletionChart(byDan, stats.DefaultChartConfig(), flagChart); err != nil {
					return err
				}
				ok("chart written to %s", flagChart)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagChart, "chart", "", "Write an HTML completion chart to this path")
	return cmd
}
