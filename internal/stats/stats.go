// Package stats derives collection aggregates from the catalog, the
// ownership ledger and the purchase notes. Nothing here is persisted;
// every figure is recomputed from the source collections on demand.
package stats

import (
	"sort"
	"strconv"
	"strings"

	"github.com/binderworks/tcg-binder/internal/catalog"
	"github.com/binderworks/tcg-binder/internal/storage/models"
)

// Summary holds the headline collection figures.
type Summary struct {
	CatalogSize int     // distinct cards in the catalog
	OwnedKinds  int     // distinct cards with count > 0
	TotalCopies int     // sum of all counts
	Completion  float64 // OwnedKinds / CatalogSize, 0 for an empty catalog
}

// DanCompletion is the owned/total breakdown for one dan (set).
type DanCompletion struct {
	Dan   string
	Owned int
	Total int
}

// Summarize computes the headline figures. Ownership rows for cards no
// longer in the catalog are ignored.
func Summarize(cards []models.Card, owned map[string]int) Summary {
	s := Summary{CatalogSize: len(cards)}
	for _, c := range cards {
		count := owned[c.CardID]
		if count > 0 {
			s.OwnedKinds++
			s.TotalCopies += count
		}
	}
	if s.CatalogSize > 0 {
		s.Completion = float64(s.OwnedKinds) / float64(s.CatalogSize)
	}
	return s
}

// ByDan computes per-dan completion. Dans appear in catalog sort order;
// cards with an empty dan are grouped under "(none)".
func ByDan(cards []models.Card, owned map[string]int) []DanCompletion {
	sorted := make([]models.Card, len(cards))
	copy(sorted, cards)
	catalog.SortCards(sorted)

	index := make(map[string]int)
	var out []DanCompletion
	for _, c := range sorted {
		dan := c.Dan
		if dan == "" {
			dan = "(none)"
		}
		i, ok := index[dan]
		if !ok {
			i = len(out)
			index[dan] = i
			out = append(out, DanCompletion{Dan: dan})
		}
		out[i].Total++
		if owned[c.CardID] > 0 {
			out[i].Owned++
		}
	}
	return out
}

// Offer is the cheapest recorded purchase option for a card.
type Offer struct {
	CardID string
	Place  string
	Price  float64
}

// MinPrice returns the cheapest numerically valid price among the rows.
// Rows whose price does not parse are skipped; they stay in the notes
// untouched. ok is false when no row has a valid price.
func MinPrice(rows []models.SaleRow) (offer models.SaleRow, price float64, ok bool) {
	for _, r := range rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(r.Price), 64)
		if err != nil {
			continue
		}
		if !ok || v < price {
			offer, price, ok = r, v, true
		}
	}
	return offer, price, ok
}

// CheapestOffers lists the cheapest valid offer per card, cheapest
// first, ties by cardId. Cards whose rows are all unparseable are left
// out.
func CheapestOffers(notes map[string][]models.SaleRow) []Offer {
	out := make([]Offer, 0, len(notes))
	for id, rows := range notes {
		row, price, ok := MinPrice(rows)
		if !ok {
			continue
		}
		out = append(out, Offer{CardID: id, Place: row.Place, Price: price})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].CardID < out[j].CardID
	})
	return out
}
