package rummy

import "testing"

func botRound(t *testing.T, hand []Card) *Round {
	t.Helper()
	r := newTestRound(t, []string{"bot", "b"}, noJokerRules(2), 21)
	r.Hands["bot"] = hand
	return r
}

func TestChooseMoveTakesUpcardOnlyWhenItMelds(t *testing.T) {
	r := botRound(t, cards("2H", "3H", "5C", "7D", "9S", "JC", "QD", "KS", "2C", "6H", "8D", "10C", "AH"))

	// 4H completes 2H 3H 4H.
	r.Discard = cards("4H")
	if mv := ChooseMove(r, "bot", BotMedium); !mv.DrawFromDiscard {
		t.Fatalf("bot should draw the upcard that completes a run")
	}

	// A useless upcard just gets thrown back next turn.
	r.Discard = cards("KD")
	if mv := ChooseMove(r, "bot", BotMedium); mv.DrawFromDiscard {
		t.Fatalf("bot should ignore an upcard that melds nothing")
	}
}

func TestChooseMoveEasyNeverPlansDiscardDraw(t *testing.T) {
	r := botRound(t, cards("2H", "3H", "5C", "7D", "9S", "JC", "QD", "KS", "2C", "6H", "8D", "10C", "AH"))
	r.Discard = cards("4H")
	if mv := ChooseMove(r, "bot", BotEasy); mv.DrawFromDiscard {
		t.Fatalf("easy bot draws from stock only")
	}
}

func TestChooseDiscardDeclaresWhenHandOrganizes(t *testing.T) {
	// 14 cards: three complete runs, one set, plus a lone KD.
	hand := cards(
		"2H", "3H", "4H",
		"5C", "6C", "7C",
		"9S", "10S", "JS", "QS",
		"8D", "8H", "8C",
		"KD",
	)
	r := botRound(t, hand)

	mv := ChooseDiscard(r, "bot", BotMedium)
	if len(mv.Declare) == 0 {
		t.Fatalf("bot should declare when one discard away from going out, got discard %v", mv.Discard)
	}
	covered := 0
	for _, g := range mv.Declare {
		for _, c := range g {
			if c == (Card{Rank: King, Suit: Diamonds}) {
				t.Fatalf("declare partition should not include the discarded card")
			}
			covered++
		}
	}
	if covered != HandSize {
		t.Fatalf("declare covers %d cards, want %d", covered, HandSize)
	}
}

func TestChooseDiscardKeepsPartialRuns(t *testing.T) {
	// No declare possible; bot should shed the isolated king, not break
	// the near-complete melds.
	hand := cards(
		"2H", "3H", "4H",
		"5C", "6C", "7C",
		"9S", "10S", "JS",
		"8D", "8H", "8C",
		"KD", "3D",
	)
	r := botRound(t, hand)

	mv := ChooseDiscard(r, "bot", BotHard)
	if len(mv.Declare) != 0 {
		t.Fatalf("hand with deadwood should not declare")
	}
	if mv.Discard != (Card{Rank: King, Suit: Diamonds}) {
		t.Fatalf("bot should throw KD, threw %v", mv.Discard)
	}
}

func TestChooseLockFindsPureSequence(t *testing.T) {
	r := botRound(t, cards("2H", "3H", "4H", "5C", "7D", "9S", "JC", "QD", "KS", "2C", "6H", "8D", "10C"))
	group, ok := ChooseLock(r, "bot")
	if !ok {
		t.Fatalf("hand holds 2H 3H 4H, lock should be possible")
	}
	if Classify(group, 0, false) != MeldPureSequence {
		t.Fatalf("locked group %v is not a pure sequence", group)
	}

	r.Hands["bot"] = cards("2H", "3S", "5C", "7D", "9S", "JC", "QD", "KS", "2C", "6H", "8D", "10C", "AH")
	if _, ok := ChooseLock(r, "bot"); ok {
		t.Fatalf("no pure sequence exists, lock should fail")
	}
}
