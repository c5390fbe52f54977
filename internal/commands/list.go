package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/binderworks/tcg-binder/internal/catalog"
)

func newListCmd() *cobra.Command {
	var (
		flagDan     string
		flagOwned   bool
		flagUnowned bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog in collection order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flagOwned && flagUnowned {
				return fmt.Errorf("--owned and --unowned are mutually exclusive")
			}

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
			catalog.SortCards(cards)

			shown := 0
			for _, c := range cards {
				if flagDan != "" && c.Dan != flagDan {
					continue
				}
				count := owned[c.CardID]
				if flagOwned && count == 0 {
					continue
				}
				if flagUnowned && count > 0 {
					continue
				}

				marker := " "
				if count > 0 {
					marker = color.GreenString("%d", count)
				}
				fmt.Printf("%-12s %s  %s", c.CardID, marker, c.Name)
				if c.Rarity != "" {
					fmt.Printf("  [%s]", c.Rarity)
				}
				fmt.Println()
				shown++
			}
			if shown == 0 {
				warn("no cards matched")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagDan, "dan", "", "Only cards from this dan (set)")
	cmd.Flags().BoolVar(&flagOwned, "owned", false, "Only cards with at least one copy")
	cmd.Flags().BoolVar(&flagUnowned, "unowned", false, "Only cards with no copies")
	return cmd
}
