// Package models defines the record types held in the binder store.
package models

// Card is a catalog entry. CardID is the sole identity; re-importing a
// row with the same CardID replaces the record entirely.
type Card struct {
	CardID    string   `json:"cardId"`
	Dan       string   `json:"dan,omitempty"`
	DanSort   *float64 `json:"dansort,omitempty"`
	Name      string   `json:"name"`
	Rarity    string   `json:"rarity"`
	Color     string   `json:"color"`
	Kind      string   `json:"kind"`
	Type      string   `json:"type"`
	Cost      string   `json:"cost"`
	Counter   string   `json:"counter"`
	Life      string   `json:"life"`
	Power     string   `json:"power"`
	Effect    string   `json:"effect"`
	Attribute string   `json:"attribute,omitempty"`
	BlockIcon string   `json:"blockicon,omitempty"`
}

// Ownership is the owned-copy count for a card. Absence of a row is
// equivalent to a count of zero.
type Ownership struct {
	CardID string `json:"cardId"`
	Count  int    `json:"count"`
}

// SaleRow is one purchase offer for a card. Price is kept as the string
// the user entered; rows that fail numeric parsing are preserved and
// simply excluded from cheapest-offer computations.
type SaleRow struct {
	Place string `json:"place"`
	Price string `json:"price"`
}
