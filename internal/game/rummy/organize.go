package rummy

import "sort"

// AutoOrganize partitions a hand into disjoint valid melds so that the point
// value of the ungrouped leftover is as small as possible. It is used to
// score non-declaring hands at settlement and to validate what a declaring
// hand leaves behind.
//
// The search enumerates candidate melds (same-suit runs and same-rank sets,
// with wild cards filling gaps), then runs a memoized exact-cover search over
// the hand. Leftover value is minimized rather than meld count maximized: it
// is better to leave a low pip card unmelded than a face card. Ties are
// broken by canonical candidate order so results are reproducible.
func AutoOrganize(hand []Card, wildRank Rank, revealed bool) (melds []Meld, leftover []Card) {
	n := len(hand)
	if n == 0 {
		return nil, nil
	}

	cands := generateCandidates(hand, wildRank, revealed)
	s := &organizeSearch{
		hand:     hand,
		wildRank: wildRank,
		revealed: revealed,
		cands:    cands,
		memo:     map[uint32]searchResult{},
	}
	full := uint32(1)<<n - 1
	res := s.best(full)

	for _, cm := range res.melds {
		cards := cardsForMask(hand, cm)
		melds = append(melds, Meld{Cards: cards, Kind: Classify(cards, wildRank, revealed)})
	}
	rest := full
	for _, cm := range res.melds {
		rest &^= cm
	}
	leftover = cardsForMask(hand, rest)
	return melds, leftover
}

type searchResult struct {
	cost  int
	melds []uint32
}

type organizeSearch struct {
	hand     []Card
	wildRank Rank
	revealed bool
	cands    []uint32
	memo     map[uint32]searchResult
}

// best returns the minimal leftover value achievable for the cards in mask.
func (s *organizeSearch) best(mask uint32) searchResult {
	if mask == 0 {
		return searchResult{}
	}
	if r, ok := s.memo[mask]; ok {
		return r
	}

	// Branch on the lowest unassigned card: either it stays deadwood, or it
	// joins one of the candidate melds still wholly available.
	low := lowestBit(mask)
	without := s.best(mask &^ low)
	bestRes := searchResult{
		cost:  s.pointValue(low) + without.cost,
		melds: without.melds,
	}
	for _, cm := range s.cands {
		if cm&low == 0 || cm&mask != cm {
			continue
		}
		sub := s.best(mask &^ cm)
		if sub.cost < bestRes.cost {
			bestRes = searchResult{cost: sub.cost, melds: append([]uint32{cm}, sub.melds...)}
		}
	}
	s.memo[mask] = bestRes
	return bestRes
}

func (s *organizeSearch) pointValue(bit uint32) int {
	for i := 0; i < len(s.hand); i++ {
		if bit == 1<<i {
			// Optimizer weighting always counts the Ace high; the table's
			// aceValue only applies when the final leftover is scored.
			return CardPoints(s.hand[i], s.wildRank, s.revealed, 10)
		}
	}
	return 0
}

func lowestBit(mask uint32) uint32 {
	return mask & (-mask)
}

func cardsForMask(hand []Card, mask uint32) []Card {
	var out []Card
	for i := 0; i < len(hand); i++ {
		if mask&(1<<i) != 0 {
			out = append(out, hand[i])
		}
	}
	return out
}

// generateCandidates enumerates every plausible meld as a bitmask over the
// hand: contiguous same-suit rank windows (missing ranks taken by wilds) and
// distinct-suit rank groups padded with wilds. Multi-deck hands hold
// duplicate physical cards and two melds may each take one copy of the same
// card, so every way of binding a meld to concrete copies becomes its own
// candidate mask. Hands are small enough that the copy product stays tiny.
func generateCandidates(hand []Card, wildRank Rank, revealed bool) []uint32 {
	var wilds []int
	copies := map[Card][]int{}
	for i, c := range hand {
		if IsWild(c, wildRank, revealed) {
			wilds = append(wilds, i)
			continue
		}
		copies[c] = append(copies[c], i)
	}

	seen := map[uint32]bool{}
	var cands []uint32
	add := func(mask uint32) {
		if !seen[mask] {
			seen[mask] = true
			cands = append(cands, mask)
		}
	}

	suits := []Suit{Spades, Hearts, Diamonds, Clubs}

	// Same-suit runs: every rank window of length >= 3 whose missing ranks
	// can be covered by wilds. Wild-extended ends fall out of wider windows.
	for _, suit := range suits {
		for lo := 1; lo <= 11; lo++ {
			for hi := lo + 2; hi <= 13; hi++ {
				var slots [][]int
				for r := lo; r <= hi; r++ {
					if idxs := copies[Card{Rank: Rank(r), Suit: suit}]; len(idxs) > 0 {
						slots = append(slots, idxs)
					}
				}
				missing := (hi - lo + 1) - len(slots)
				if len(slots) == 0 || missing > len(wilds) {
					continue
				}
				for _, base := range copyChoices(slots) {
					for _, wm := range wildCombos(wilds, missing) {
						add(base | wm)
					}
				}
			}
		}
	}

	// Same-rank sets: distinct suits, wilds standing in for missing suits,
	// at most four cards total. Copy choice applies per suit.
	for rank := Rank(1); rank <= 13; rank++ {
		var suited [][]int
		for _, suit := range suits {
			if idxs := copies[Card{Rank: rank, Suit: suit}]; len(idxs) > 0 {
				suited = append(suited, idxs)
			}
		}
		if len(suited) == 0 {
			continue
		}
		for sub := 1; sub < 1<<len(suited); sub++ {
			var slots [][]int
			for j := 0; j < len(suited); j++ {
				if sub&(1<<j) != 0 {
					slots = append(slots, suited[j])
				}
			}
			for k := 0; len(slots)+k <= 4 && k <= len(wilds); k++ {
				if len(slots)+k < 3 {
					continue
				}
				for _, base := range copyChoices(slots) {
					for _, wm := range wildCombos(wilds, k) {
						add(base | wm)
					}
				}
			}
		}
	}

	sort.Slice(cands, func(i, j int) bool { return cands[i] < cands[j] })
	return cands
}

// copyChoices expands slots of interchangeable copy indices into one bitmask
// per way of picking a single copy for every slot.
func copyChoices(slots [][]int) []uint32 {
	out := []uint32{0}
	for _, idxs := range slots {
		if len(idxs) == 1 {
			for i := range out {
				out[i] |= 1 << idxs[0]
			}
			continue
		}
		next := make([]uint32, 0, len(out)*len(idxs))
		for _, acc := range out {
			for _, idx := range idxs {
				next = append(next, acc|1<<idx)
			}
		}
		out = next
	}
	return out
}

// wildCombos returns bitmasks for every way to pick k of the given wild card
// indices. k=0 yields the single empty mask.
func wildCombos(wilds []int, k int) []uint32 {
	if k == 0 {
		return []uint32{0}
	}
	if k > len(wilds) {
		return nil
	}
	var out []uint32
	var rec func(start int, left int, acc uint32)
	rec = func(start, left int, acc uint32) {
		if left == 0 {
			out = append(out, acc)
			return
		}
		for i := start; i <= len(wilds)-left; i++ {
			rec(i+1, left-1, acc|1<<wilds[i])
		}
	}
	rec(0, k, 0)
	return out
}
