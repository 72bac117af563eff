package rummy

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

type Suit string

const (
	Spades   Suit = "S"
	Hearts   Suit = "H"
	Diamonds Suit = "D"
	Clubs    Suit = "C"
)

type Rank int

const (
	Ace   Rank = 1
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
)

// Card identifies one physical card by value. Multi-deck games contain
// duplicate cards; any duplicate with the same (Rank, Suit, Joker) is
// interchangeable for matching and removal.
//
// Printed jokers carry Joker=true with a zero Rank and empty Suit, so a
// joker can never alias a ranked card.
type Card struct {
	Rank  Rank `json:"rank"`
	Suit  Suit `json:"suit,omitempty"`
	Joker bool `json:"joker,omitempty"`
}

func (c Card) String() string {
	if c.Joker {
		return "JK"
	}
	var r string
	switch c.Rank {
	case Ace:
		r = "A"
	case Jack:
		r = "J"
	case Queen:
		r = "Q"
	case King:
		r = "K"
	default:
		r = fmt.Sprintf("%d", int(c.Rank))
	}
	return r + string(c.Suit)
}

func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "JK" {
		return Card{Joker: true}, nil
	}
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	suit := Suit(s[len(s)-1:])
	rankStr := s[:len(s)-1]
	var r Rank
	switch rankStr {
	case "A":
		r = Ace
	case "J":
		r = Jack
	case "Q":
		r = Queen
	case "K":
		r = King
	default:
		var v int
		_, err := fmt.Sscanf(rankStr, "%d", &v)
		if err != nil || v < 2 || v > 10 {
			return Card{}, fmt.Errorf("invalid rank %q", rankStr)
		}
		r = Rank(v)
	}
	switch suit {
	case Spades, Hearts, Diamonds, Clubs:
	default:
		return Card{}, fmt.Errorf("invalid suit %q", suit)
	}
	return Card{Rank: r, Suit: suit}, nil
}

// ParseCards parses a slice of card strings, failing on the first bad one.
func ParseCards(ss []string) ([]Card, error) {
	cards := make([]Card, 0, len(ss))
	for _, s := range ss {
		c, err := ParseCard(s)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// DeckCountForPlayers maps seated-player count to the number of physical
// 52-card decks shuffled together.
func DeckCountForPlayers(players int) int {
	switch {
	case players <= 2:
		return 1
	case players <= 4:
		return 2
	default:
		return 3
	}
}

// DeckSize returns the total card count for a configuration, used by the
// conservation checks at deal and settlement time.
func DeckSize(deckCount int, withPrintedJokers bool) int {
	per := 52
	if withPrintedJokers {
		per = 54
	}
	return deckCount * per
}

// NewDeck builds deckCount standard decks, plus two printed jokers per deck
// when enabled, in a fixed unshuffled order.
func NewDeck(deckCount int, withPrintedJokers bool) []Card {
	deck := make([]Card, 0, DeckSize(deckCount, withPrintedJokers))
	suits := []Suit{Spades, Hearts, Diamonds, Clubs}
	for d := 0; d < deckCount; d++ {
		for _, s := range suits {
			for r := 1; r <= 13; r++ {
				deck = append(deck, Card{Rank: Rank(r), Suit: s})
			}
		}
		if withPrintedJokers {
			deck = append(deck, Card{Joker: true}, Card{Joker: true})
		}
	}
	return deck
}

// Shuffle permutes cards in place with a Fisher-Yates shuffle. A non-nil seed
// gives a reproducible permutation for tests and replays; otherwise the seed
// is drawn from crypto/rand (time-seeded as a last resort).
func Shuffle(cards []Card, seed *int64) {
	rng := rand.New(rand.NewSource(resolveSeed(seed)))
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

func resolveSeed(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// removeCard deletes the first positional match of c from hand, returning the
// shrunk hand and whether a match was found.
func removeCard(hand []Card, c Card) ([]Card, bool) {
	for i, hc := range hand {
		if hc == c {
			out := make([]Card, 0, len(hand)-1)
			out = append(out, hand[:i]...)
			out = append(out, hand[i+1:]...)
			return out, true
		}
	}
	return hand, false
}

// containsAll reports whether want is a sub-multiset of hand.
func containsAll(hand []Card, want []Card) bool {
	rest := append([]Card(nil), hand...)
	for _, c := range want {
		var ok bool
		rest, ok = removeCard(rest, c)
		if !ok {
			return false
		}
	}
	return true
}

// multisetDiff returns hand minus want, respecting duplicate counts.
func multisetDiff(hand []Card, want []Card) []Card {
	rest := append([]Card(nil), hand...)
	for _, c := range want {
		rest, _ = removeCard(rest, c)
	}
	return rest
}
