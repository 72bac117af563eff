package rummy

import (
	"errors"
	"testing"

	"github.com/AchyuthKolli/rummy-multiplayerai/internal/models"
)

func TestParseCardRoundTrip(t *testing.T) {
	for _, s := range []string{"AH", "2S", "10D", "JC", "QH", "KS", "JK"} {
		c, err := ParseCard(s)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", s, err)
		}
		if c.String() != s {
			t.Fatalf("round trip %q -> %q", s, c.String())
		}
	}
	for _, s := range []string{"", "H", "1H", "14S", "5X", "joker"} {
		if _, err := ParseCard(s); err == nil {
			t.Fatalf("ParseCard(%q) should fail", s)
		}
	}
}

func TestNewDeckComposition(t *testing.T) {
	cases := []struct {
		decks  int
		jokers bool
		want   int
	}{
		{1, false, 52},
		{1, true, 54},
		{2, true, 108},
		{3, true, 162},
	}
	for _, tc := range cases {
		deck := NewDeck(tc.decks, tc.jokers)
		if len(deck) != tc.want {
			t.Fatalf("deck %d/%v: got %d cards, want %d", tc.decks, tc.jokers, len(deck), tc.want)
		}
		jokers := 0
		perCard := map[Card]int{}
		for _, c := range deck {
			if c.Joker {
				jokers++
				continue
			}
			perCard[c]++
		}
		if tc.jokers && jokers != 2*tc.decks {
			t.Fatalf("got %d printed jokers, want %d", jokers, 2*tc.decks)
		}
		for c, n := range perCard {
			if n != tc.decks {
				t.Fatalf("card %v appears %d times, want %d", c, n, tc.decks)
			}
		}
	}
}

func TestDeckCountForPlayers(t *testing.T) {
	for players, want := range map[int]int{1: 1, 2: 1, 3: 2, 4: 2, 5: 3, 6: 3} {
		if got := DeckCountForPlayers(players); got != want {
			t.Fatalf("DeckCountForPlayers(%d) = %d, want %d", players, got, want)
		}
	}
}

func TestShuffleSeededDeterminism(t *testing.T) {
	seed := int64(42)
	a := NewDeck(1, true)
	b := NewDeck(1, true)
	Shuffle(a, &seed)
	Shuffle(b, &seed)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("seeded shuffles diverge at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestDealShapesAndConservation(t *testing.T) {
	seed := int64(7)
	players := []string{"p1", "p2", "p3"}
	cfg := DeckConfigForPlayers(len(players), true)
	res, err := Deal(players, cfg, CloseJoker, &seed)
	if err != nil {
		t.Fatalf("deal: %v", err)
	}
	for _, id := range players {
		if len(res.Hands[id]) != HandSize {
			t.Fatalf("hand size %d for %s", len(res.Hands[id]), id)
		}
	}
	if len(res.Discard) != 1 {
		t.Fatalf("opening discard size %d", len(res.Discard))
	}
	total := len(res.Stock) + len(res.Discard) + len(players)*HandSize
	if total != DeckSize(cfg.DeckCount, cfg.PrintedJokers) {
		t.Fatalf("conservation violated: %d cards", total)
	}
	if res.WildJokerRank < 1 || res.WildJokerRank > 13 {
		t.Fatalf("wild joker rank out of range: %d", res.WildJokerRank)
	}

	// Same seed, same deal.
	res2, err := Deal(players, cfg, CloseJoker, &seed)
	if err != nil {
		t.Fatalf("deal: %v", err)
	}
	if res2.WildJokerRank != res.WildJokerRank {
		t.Fatalf("seeded wild rank diverged")
	}
	for _, id := range players {
		for i := range res.Hands[id] {
			if res.Hands[id][i] != res2.Hands[id][i] {
				t.Fatalf("seeded deal diverged for %s", id)
			}
		}
	}
}

func TestDealNoJokerMode(t *testing.T) {
	seed := int64(1)
	res, err := Deal([]string{"a", "b"}, DeckConfig{DeckCount: 1, PrintedJokers: false}, NoJoker, &seed)
	if err != nil {
		t.Fatalf("deal: %v", err)
	}
	if res.WildJokerRank != 0 {
		t.Fatalf("no-joker mode must not pick a wild rank, got %d", res.WildJokerRank)
	}
}

func TestDealInsufficientCards(t *testing.T) {
	ids := make([]string, 5)
	for i := range ids {
		ids[i] = string(rune('a' + i))
	}
	// 5 players need 66 cards; one 52-card deck cannot serve them.
	_, err := Deal(ids, DeckConfig{DeckCount: 1, PrintedJokers: false}, NoJoker, nil)
	if !errors.Is(err, models.ErrInsufficientCards) {
		t.Fatalf("expected ErrInsufficientCards, got %v", err)
	}
}
