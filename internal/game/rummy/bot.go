package rummy

import (
	"math/rand"
	"sort"
	"sync"
	"time"
)

type BotDifficulty string

const (
	BotEasy   BotDifficulty = "easy"
	BotMedium BotDifficulty = "medium"
	BotHard   BotDifficulty = "hard"
)

var botRandMu sync.Mutex
var botRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// BotMove is one decision for a bot's turn: which pile to draw from, then
// either the card to throw or a full declare partition.
type BotMove struct {
	DrawFromDiscard bool
	Discard         Card
	Declare         [][]Card
}

// ChooseMove plans a bot turn against a 13-card hand. The bot tries the
// discard pile's top card first; if keeping it lowers deadwood it draws from
// discard, otherwise from stock. After the (simulated) draw it throws the
// card whose removal leaves the cheapest hand, and declares once the
// remaining 13 cards organize with zero deadwood.
func ChooseMove(r *Round, playerID string, difficulty BotDifficulty) BotMove {
	hand := r.Hands[playerID]
	wild := r.WildJokerRank
	revealed := r.Revealed[playerID]

	var mv BotMove
	if difficulty != BotEasy && len(r.Discard) > 0 {
		top := r.Discard[len(r.Discard)-1]
		base := organizedValue(hand, wild, revealed)
		taken := organizedValue(append(append([]Card(nil), hand...), top), wild, revealed)
		// Taking the upcard only helps if it melds something new; the extra
		// card itself gets thrown back otherwise.
		if taken < base {
			mv.DrawFromDiscard = true
		}
	}
	return mv
}

// ChooseDiscard picks the card to throw from a 14-card hand, and reports a
// declare partition instead when the hand is one discard away from going out.
func ChooseDiscard(r *Round, playerID string, difficulty BotDifficulty) BotMove {
	hand := r.Hands[playerID]
	wild := r.WildJokerRank
	revealed := r.Revealed[playerID]

	if difficulty == BotEasy {
		botRandMu.Lock()
		pick := hand[botRand.Intn(len(hand))]
		botRandMu.Unlock()
		return BotMove{Discard: pick}
	}

	bestIdx := 0
	bestVal := int(^uint(0) >> 1)
	for i := range hand {
		rest := append(append([]Card(nil), hand[:i]...), hand[i+1:]...)
		v := organizedValue(rest, wild, revealed)
		if v < bestVal {
			bestVal = v
			bestIdx = i
		}
	}

	if bestVal == 0 {
		rest := append(append([]Card(nil), hand[:bestIdx]...), hand[bestIdx+1:]...)
		melds, leftover := AutoOrganize(rest, wild, revealed)
		if len(leftover) == 0 {
			groups := make([][]Card, 0, len(melds))
			for _, m := range melds {
				groups = append(groups, m.Cards)
			}
			return BotMove{Declare: groups}
		}
	}
	return BotMove{Discard: hand[bestIdx]}
}

// ChooseLock returns a pure sequence from the hand suitable for unlocking the
// wild joker, or false when none exists yet.
func ChooseLock(r *Round, playerID string) ([]Card, bool) {
	hand := r.Hands[playerID]
	melds, _ := AutoOrganize(hand, 0, false)
	var pures []Meld
	for _, m := range melds {
		if m.Kind == MeldPureSequence {
			pures = append(pures, m)
		}
	}
	if len(pures) == 0 {
		return nil, false
	}
	sort.Slice(pures, func(i, j int) bool { return len(pures[i].Cards) < len(pures[j].Cards) })
	return pures[0].Cards, true
}

func organizedValue(hand []Card, wild Rank, revealed bool) int {
	_, leftover := AutoOrganize(hand, wild, revealed)
	return DeadwoodPoints(leftover, wild, revealed, 10)
}
