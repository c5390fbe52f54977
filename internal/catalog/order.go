package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/binderworks/tcg-binder/internal/storage/models"
)

// newCollator returns the comparator used for card ids. Card names mix
// Japanese text, so the Japanese collation order is the defined one.
// Collators are not safe for concurrent use, hence one per sort.
func newCollator() *collate.Collator {
	return collate.New(language.Japanese)
}

// SortByID sorts cards by cardId, locale-aware. This is the catalog
// listing order.
func SortByID(cards []models.Card) {
	col := newCollator()
	sort.SliceStable(cards, func(i, j int) bool {
		return col.CompareString(cards[i].CardID, cards[j].CardID) < 0
	})
}

// SortCards sorts cards by dansort ascending, cards without a dansort
// last, ties broken by locale-aware cardId comparison.
func SortCards(cards []models.Card) {
	col := newCollator()
	sort.SliceStable(cards, func(i, j int) bool {
		return compare(col, cards[i], cards[j]) < 0
	})
}

func compare(col *collate.Collator, a, b models.Card) int {
	switch {
	case a.DanSort != nil && b.DanSort != nil:
		if *a.DanSort < *b.DanSort {
			return -1
		}
		if *a.DanSort > *b.DanSort {
			return 1
		}
	case a.DanSort != nil:
		// Absent dansort sorts last.
		return -1
	case b.DanSort != nil:
		return 1
	}
	return col.CompareString(a.CardID, b.CardID)
}
