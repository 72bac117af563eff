package rummy

import (
	"math/rand"

	"github.com/AchyuthKolli/rummy-multiplayerai/internal/models"
)

// DeckConfig selects the physical card pool for one round.
type DeckConfig struct {
	DeckCount     int  `json:"deck_count"`
	PrintedJokers bool `json:"printed_jokers"`
}

func DeckConfigForPlayers(players int, printedJokers bool) DeckConfig {
	return DeckConfig{DeckCount: DeckCountForPlayers(players), PrintedJokers: printedJokers}
}

// DealResult is the card state handed to a fresh round: 13 cards per player,
// the face-down stock, and the opening discard.
type DealResult struct {
	Hands         map[string][]Card
	Stock         []Card
	Discard       []Card
	WildJokerRank Rank // 0 when the table plays without a wild joker
}

// Deal builds and shuffles the configured deck, deals 13 cards to each player
// one at a time in seat order, moves the rest to stock, and flips the top
// stock card as the opening discard. A non-nil seed makes the whole deal
// reproducible, including the wild joker rank.
func Deal(playerIDs []string, cfg DeckConfig, mode WildJokerMode, seed *int64) (*DealResult, error) {
	deck := NewDeck(cfg.DeckCount, cfg.PrintedJokers)
	if len(playerIDs)*HandSize+1 > len(deck) {
		return nil, models.ErrInsufficientCards
	}

	resolved := resolveSeed(seed)
	Shuffle(deck, &resolved)

	hands := make(map[string][]Card, len(playerIDs))
	for _, id := range playerIDs {
		hands[id] = make([]Card, 0, HandSize+1)
	}
	// One card per player per pass, mirroring a physical deal.
	idx := 0
	for pass := 0; pass < HandSize; pass++ {
		for _, id := range playerIDs {
			hands[id] = append(hands[id], deck[idx])
			idx++
		}
	}

	stock := append([]Card(nil), deck[idx:]...)
	// Opening discard comes off the top of the stock.
	top := stock[len(stock)-1]
	stock = stock[:len(stock)-1]

	res := &DealResult{
		Hands:   hands,
		Stock:   stock,
		Discard: []Card{top},
	}
	if mode != NoJoker {
		// The wild rank is fixed per round and independent of who holds cards
		// of that rank. Derive it from the same seed so seeded deals replay.
		rng := rand.New(rand.NewSource(resolved + 1))
		res.WildJokerRank = Rank(rng.Intn(13) + 1)
	}
	return res, nil
}
