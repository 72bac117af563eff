package handlers

import (
	"errors"
	"testing"

	"github.com/AchyuthKolli/rummy-multiplayerai/internal/database"
	"github.com/AchyuthKolli/rummy-multiplayerai/internal/game/rummy"
	"github.com/AchyuthKolli/rummy-multiplayerai/internal/models"
)

func mustCards(t *testing.T, ss ...string) []rummy.Card {
	t.Helper()
	cs, err := rummy.ParseCards(ss)
	if err != nil {
		t.Fatalf("parse cards: %v", err)
	}
	return cs
}

func TestPlayBotTurnStrandedWhenNoDrawOrDrop(t *testing.T) {
	// Heads-up with both piles empty: the bot cannot draw, and dropping
	// would leave one active player, which Drop refuses. The turn must come
	// back as stranded with the round untouched so a human can act.
	db, err := database.OpenAndMigrate(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	r := &rummy.Round{
		Number:       1,
		Rules:        rummy.DefaultRules(2),
		Seats:        []string{"1", "2"},
		ActivePlayer: "2",
		Hands: map[string][]rummy.Card{
			"1": mustCards(t, "2H", "3H", "4H", "5S", "6S", "7S", "9D", "10D", "JD", "KH", "KS", "KD", "8C"),
			"2": mustCards(t, "2S", "3S", "4S", "7H", "7D", "7C", "9C", "QH", "JS", "10H", "AC", "5D", "KC"),
		},
		Revealed: map[string]bool{"1": true, "2": true},
		Dropped:  map[string]bool{},
		Scores:   map[string]int{},
	}
	row := &models.RoundRow{ID: 1, TableID: 1}

	err = playBotTurn(db, 1, row, r, 2, rummy.BotMedium)
	if !errors.Is(err, errBotStranded) {
		t.Fatalf("expected stranded bot, got %v", err)
	}
	if r.Finished {
		t.Fatalf("stranded turn must not finish the round")
	}
	if r.ActivePlayer != "2" {
		t.Fatalf("turn moved to %q, want it held at seat 2", r.ActivePlayer)
	}
	if r.Dropped["2"] {
		t.Fatalf("refused drop must not mark the seat dropped")
	}
}
