package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newOwnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "own <cardId> [count|+n|-n]",
		Short: "Show or change how many copies of a card you own",
		Long: `Show or change how many copies of a card you own.

With no count argument the current count is printed. An absolute number
sets the count; +n and -n adjust it. Counts never go below zero.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			cardID := args[0]

			card, err := e.Cards.Get(ctx, cardID)
			if err != nil {
				return err
			}
			if card == nil {
				warn("%s is not in the catalog", cardID)
			}

			current, err := e.Owned.Get(ctx, cardID)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				fmt.Printf("%s: %d\n", cardID, current)
				return nil
			}

			target, err := resolveCount(current, args[1])
			if err != nil {
				return err
			}
			if err := e.Owned.Set(ctx, cardID, target); err != nil {
				return err
			}

			// Read back so the printed count is the ledger's clamped
			// value, not a re-derivation of it.
			stored, err := e.Owned.Get(ctx, cardID)
			if err != nil {
				return err
			}
			ok("%s: %d", cardID, stored)
			return nil
		},
	}

	// Stop flag parsing at the first positional so a -n adjustment is
	// not mistaken for a shorthand flag.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// resolveCount turns the count argument into an absolute target,
// treating a leading + or - as an adjustment of the current count.
func resolveCount(current int, arg string) (int, error) {
	if strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-") {
		delta, err := strconv.Atoi(arg)
		if err != nil {
			return 0, fmt.Errorf("invalid adjustment %q", arg)
		}
		return current + delta, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", arg)
	}
	return n, nil
}
