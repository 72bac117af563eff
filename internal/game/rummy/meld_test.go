package rummy

import "testing"

func cards(ss ...string) []Card {
	out := make([]Card, 0, len(ss))
	for _, s := range ss {
		c, err := ParseCard(s)
		if err != nil {
			panic(err)
		}
		out = append(out, c)
	}
	return out
}

func TestClassifyPureSequence(t *testing.T) {
	cases := []struct {
		name  string
		group []string
		want  MeldKind
	}{
		{"three run", []string{"2H", "3H", "4H"}, MeldPureSequence},
		{"ace low run", []string{"AH", "2H", "3H"}, MeldPureSequence},
		{"run to king", []string{"JH", "QH", "KH"}, MeldPureSequence},
		{"unordered input", []string{"4S", "2S", "3S"}, MeldPureSequence},
		{"gap", []string{"2H", "3H", "5H"}, MeldNone},
		{"mixed suits", []string{"2H", "3S", "4H"}, MeldNone},
		{"too short", []string{"2H", "3H"}, MeldNone},
		{"wraparound", []string{"QH", "KH", "AH"}, MeldNone},
		{"duplicate rank", []string{"2H", "2H", "3H"}, MeldNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(cards(tc.group...), 0, false)
			if got != tc.want {
				t.Fatalf("Classify(%v) = %v, want %v", tc.group, got, tc.want)
			}
		})
	}
}

func TestClassifyWithWilds(t *testing.T) {
	// Wild joker rank is 8 and the player has revealed.
	cases := []struct {
		name  string
		group []string
		want  MeldKind
	}{
		{"printed joker fills gap", []string{"2H", "JK", "4H"}, MeldSequence},
		{"wild rank fills gap", []string{"2H", "8S", "4H"}, MeldSequence},
		{"wild extends end", []string{"2H", "3H", "8D"}, MeldSequence},
		{"wilds spill low when king caps the run", []string{"QH", "KH", "8D", "JK", "JH"}, MeldSequence},
		{"not enough wilds", []string{"2H", "8D", "7H"}, MeldNone},
		{"natural run of wild rank suit", []string{"7H", "8H", "9H"}, MeldPureSequence},
		{"set with wild", []string{"5H", "5S", "JK"}, MeldSet},
		{"four card set with wild", []string{"5H", "5S", "5D", "JK"}, MeldSet},
		{"five cards never a set", []string{"5H", "5S", "5D", "5C", "JK"}, MeldNone},
		{"set duplicate suit", []string{"5H", "5H", "5S"}, MeldNone},
		{"all wild group", []string{"JK", "8H", "8S"}, MeldNone},
		{"all printed jokers", []string{"JK", "JK", "JK"}, MeldNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(cards(tc.group...), 8, true)
			if got != tc.want {
				t.Fatalf("Classify(%v) = %v, want %v", tc.group, got, tc.want)
			}
		})
	}
}

func TestWildRankInertBeforeReveal(t *testing.T) {
	// Without the reveal, an 8 is just an 8.
	g := cards("2H", "8S", "4H")
	if got := Classify(g, 8, false); got != MeldNone {
		t.Fatalf("pre-reveal wild rank should be inert, got %v", got)
	}
	if got := Classify(g, 8, true); got != MeldSequence {
		t.Fatalf("post-reveal expected sequence, got %v", got)
	}
	// Printed jokers are wild regardless of reveal state.
	if got := Classify(cards("2H", "JK", "4H"), 8, false); got != MeldSequence {
		t.Fatalf("printed joker should be wild pre-reveal, got %v", got)
	}
}

func TestPureSequenceImpliesSequence(t *testing.T) {
	groups := [][]Card{
		cards("2H", "3H", "4H"),
		cards("AH", "2H", "3H", "4H"),
		cards("10S", "JS", "QS", "KS"),
	}
	for _, g := range groups {
		if !IsPureSequence(g, 5, true) {
			t.Fatalf("expected pure sequence: %v", g)
		}
		if !IsSequence(g, 5, true) {
			t.Fatalf("pure sequence must also be a sequence: %v", g)
		}
	}
}

func TestPrintedJokerNeverPure(t *testing.T) {
	if IsPureSequence(cards("2H", "3H", "JK"), 0, false) {
		t.Fatalf("group with printed joker must not be pure")
	}
	// A wild-rank card sitting in its natural run position keeps the run pure.
	if !IsPureSequence(cards("7H", "8H", "9H"), 8, true) {
		t.Fatalf("natural position wild rank card should stay pure")
	}
}

func TestFourDistinctSuitSet(t *testing.T) {
	g := cards("9H", "9S", "9D", "9C")
	if !IsSet(g, 0, false) {
		t.Fatalf("four distinct-suit same-rank cards must be a set")
	}
	if got := Classify(g, 0, false); got != MeldSet {
		t.Fatalf("got %v", got)
	}
}
