package catalog

import (
	"testing"

	"github.com/binderworks/tcg-binder/internal/storage/models"
)

func card(id string, dansort *float64) models.Card {
	return models.Card{CardID: id, DanSort: dansort}
}

func f(v float64) *float64 { return &v }

func TestSortCards_DansortOrder(t *testing.T) {
	cards := []models.Card{
		card("OP01-003", nil),    // absent dansort sorts last
		card("OP01-002", f(2)),
		card("OP01-001", f(1)),
		card("OP01-010", f(10)),
	}

	SortCards(cards)

	want := []string{"OP01-001", "OP01-002", "OP01-010", "OP01-003"}
	for i, id := range want {
		if cards[i].CardID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, cards[i].CardID)
		}
	}
}

func TestSortCards_TieBreakByID(t *testing.T) {
	cards := []models.Card{
		card("OP01-002", f(1)),
		card("OP01-001", f(1)),
	}
	SortCards(cards)
	if cards[0].CardID != "OP01-001" {
		t.Errorf("ties must break by cardId, got %s first", cards[0].CardID)
	}
}

func TestSortByID(t *testing.T) {
	cards := []models.Card{
		card("OP02-001", nil),
		card("OP01-002", nil),
		card("OP01-001", nil),
	}
	SortByID(cards)
	want := []string{"OP01-001", "OP01-002", "OP02-001"}
	for i, id := range want {
		if cards[i].CardID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, cards[i].CardID)
		}
	}
}
