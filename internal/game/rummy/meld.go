package rummy

import "sort"

// MeldKind classifies a group of cards. Precedence when a group satisfies
// several predicates is pure sequence > sequence > set.
type MeldKind string

const (
	MeldNone         MeldKind = "none"
	MeldSet          MeldKind = "set"
	MeldSequence     MeldKind = "sequence"
	MeldPureSequence MeldKind = "pure_sequence"
)

// Meld is a classified group of cards from one hand.
type Meld struct {
	Cards []Card   `json:"cards"`
	Kind  MeldKind `json:"kind"`
}

// IsWild is the single wildness predicate: printed jokers are always wild;
// cards of the round's wild joker rank are wild only once the player has
// unlocked the reveal with a pure sequence (or the table plays open joker).
func IsWild(c Card, wildRank Rank, revealed bool) bool {
	if c.Joker {
		return true
	}
	return revealed && wildRank != 0 && c.Rank == wildRank
}

func splitWild(group []Card, wildRank Rank, revealed bool) (natural []Card, wilds int) {
	for _, c := range group {
		if IsWild(c, wildRank, revealed) {
			wilds++
		} else {
			natural = append(natural, c)
		}
	}
	return natural, wilds
}

// IsSet reports whether group is 3 or 4 cards of one rank in distinct suits,
// with wild cards standing in for missing suits.
func IsSet(group []Card, wildRank Rank, revealed bool) bool {
	if len(group) < 3 || len(group) > 4 {
		return false
	}
	natural, _ := splitWild(group, wildRank, revealed)
	if len(natural) == 0 {
		// An all-wild group has no rank to anchor a set.
		return false
	}
	rank := natural[0].Rank
	seen := map[Suit]bool{}
	for _, c := range natural {
		if c.Rank != rank || seen[c.Suit] {
			return false
		}
		seen[c.Suit] = true
	}
	return true
}

// IsSequence reports whether group is 3+ same-suit cards that form a strictly
// consecutive run with Ace low and no wraparound past King; wild cards may
// fill gaps or extend either end.
func IsSequence(group []Card, wildRank Rank, revealed bool) bool {
	if len(group) < 3 {
		return false
	}
	natural, wilds := splitWild(group, wildRank, revealed)
	if len(natural) == 0 {
		return false
	}
	suit := natural[0].Suit
	ranks := make([]int, 0, len(natural))
	for _, c := range natural {
		if c.Suit != suit {
			return false
		}
		ranks = append(ranks, int(c.Rank))
	}
	sort.Ints(ranks)
	for i := 1; i < len(ranks); i++ {
		if ranks[i] == ranks[i-1] {
			return false
		}
	}

	// Wilds must cover the interior gaps; whatever remains can pad the ends
	// as long as the full run stays within A..K.
	span := ranks[len(ranks)-1] - ranks[0] + 1
	gaps := span - len(ranks)
	if gaps > wilds {
		return false
	}
	spare := wilds - gaps
	room := (ranks[0] - 1) + (13 - ranks[len(ranks)-1])
	return spare <= room
}

// IsPureSequence reports whether group is a sequence built entirely of
// natural same-suit cards: no printed jokers and no wild substitution. Cards
// of the wild rank may still appear, but only in their natural run position.
func IsPureSequence(group []Card, wildRank Rank, revealed bool) bool {
	if len(group) < 3 {
		return false
	}
	for _, c := range group {
		if c.Joker {
			return false
		}
	}
	// Evaluate with no wildness at all: every card must sit in the run
	// naturally.
	return IsSequence(group, 0, false)
}

// Classify tags a group with the most specific meld kind it satisfies.
func Classify(group []Card, wildRank Rank, revealed bool) MeldKind {
	switch {
	case IsPureSequence(group, wildRank, revealed):
		return MeldPureSequence
	case IsSequence(group, wildRank, revealed):
		return MeldSequence
	case IsSet(group, wildRank, revealed):
		return MeldSet
	default:
		return MeldNone
	}
}
