package rummy

import (
	"errors"
	"testing"

	"github.com/AchyuthKolli/rummy-multiplayerai/internal/models"
)

func newTestRound(t *testing.T, players []string, rules Rules, seed int64) *Round {
	t.Helper()
	r, err := NewRound(1, players, rules, &seed)
	if err != nil {
		t.Fatalf("NewRound: %v", err)
	}
	return r
}

func noJokerRules(players int) Rules {
	r := DefaultRules(players)
	r.WildJokerMode = NoJoker
	r.PrintedJokers = false
	return r
}

func TestRoundConservationThroughPlay(t *testing.T) {
	players := []string{"a", "b", "c"}
	r := newTestRound(t, players, DefaultRules(3), 11)
	want := DeckSize(r.DeckConfig.DeckCount, r.DeckConfig.PrintedJokers)
	check := func(step string) {
		t.Helper()
		if got := r.TotalCards(); got != want {
			t.Fatalf("%s: conservation violated, %d cards (want %d)", step, got, want)
		}
		for _, id := range players {
			if n := len(r.Hands[id]); n != HandSize && n != HandSize+1 {
				t.Fatalf("%s: hand size %d for %s", step, n, id)
			}
		}
	}
	check("after deal")

	for turn := 0; turn < 9; turn++ {
		p := r.ActivePlayer
		if _, err := r.DrawStock(p); err != nil {
			t.Fatalf("draw: %v", err)
		}
		check("after draw")
		if err := r.DiscardCard(p, r.Hands[p][0]); err != nil {
			t.Fatalf("discard: %v", err)
		}
		check("after discard")
	}
}

func TestTurnRotation(t *testing.T) {
	players := []string{"a", "b", "c", "d"}
	r := newTestRound(t, players, DefaultRules(4), 3)
	if r.ActivePlayer != "a" {
		t.Fatalf("first seat should open, got %s", r.ActivePlayer)
	}
	for i := 0; i < len(players); i++ {
		p := r.ActivePlayer
		if p != players[i] {
			t.Fatalf("turn %d: expected %s, got %s", i, players[i], p)
		}
		if _, err := r.DrawStock(p); err != nil {
			t.Fatalf("draw: %v", err)
		}
		if err := r.DiscardCard(p, r.Hands[p][0]); err != nil {
			t.Fatalf("discard: %v", err)
		}
	}
	if r.ActivePlayer != "a" {
		t.Fatalf("after %d discards turn should wrap to a, got %s", len(players), r.ActivePlayer)
	}
}

func TestTurnGuards(t *testing.T) {
	r := newTestRound(t, []string{"a", "b"}, DefaultRules(2), 5)

	if _, err := r.DrawStock("b"); !errors.Is(err, models.ErrNotYourTurn) {
		t.Fatalf("expected ErrNotYourTurn, got %v", err)
	}
	if _, err := r.DrawStock("ghost"); !errors.Is(err, models.ErrNotAPlayer) {
		t.Fatalf("expected ErrNotAPlayer, got %v", err)
	}
	if err := r.DiscardCard("a", r.Hands["a"][0]); !errors.Is(err, models.ErrWrongHandSize) {
		t.Fatalf("discard with 13 cards should fail, got %v", err)
	}
	if _, err := r.DrawStock("a"); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if _, err := r.DrawStock("a"); !errors.Is(err, models.ErrWrongHandSize) {
		t.Fatalf("second draw should fail, got %v", err)
	}
	if err := r.DiscardCard("a", Card{Rank: 5, Suit: Spades}); err != nil && !errors.Is(err, models.ErrCardNotInHand) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDrawFromDiscardScenario(t *testing.T) {
	// 2 decks, 2 players: A discards, B picks that exact card up.
	rules := noJokerRules(2)
	rules.AceValue = 10
	r := newTestRound(t, []string{"a", "b"}, rules, 21)

	if _, err := r.DrawStock("a"); err != nil {
		t.Fatalf("draw: %v", err)
	}
	thrown := r.Hands["a"][3]
	if err := r.DiscardCard("a", thrown); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if top := r.Discard[len(r.Discard)-1]; top != thrown {
		t.Fatalf("discard top = %v, want %v", top, thrown)
	}

	stockBefore := len(r.Stock)
	discardBefore := len(r.Discard)
	got, err := r.DrawDiscard("b")
	if err != nil {
		t.Fatalf("draw discard: %v", err)
	}
	if got != thrown {
		t.Fatalf("b drew %v, want %v", got, thrown)
	}
	if len(r.Hands["b"]) != HandSize+1 {
		t.Fatalf("b's hand = %d, want 14", len(r.Hands["b"]))
	}
	if len(r.Stock) != stockBefore {
		t.Fatalf("stock must not change on a discard draw")
	}
	if len(r.Discard) != discardBefore-1 {
		t.Fatalf("discard should shrink by one, %d -> %d", discardBefore, len(r.Discard))
	}
}

func TestStockAndDiscardEmptyErrors(t *testing.T) {
	r := newTestRound(t, []string{"a", "b"}, noJokerRules(2), 9)
	r.Stock = nil
	if _, err := r.DrawStock("a"); !errors.Is(err, models.ErrStockEmpty) {
		t.Fatalf("expected ErrStockEmpty, got %v", err)
	}
	r.Discard = nil
	if _, err := r.DrawDiscard("a"); !errors.Is(err, models.ErrDiscardEmpty) {
		t.Fatalf("expected ErrDiscardEmpty, got %v", err)
	}
}

func TestLockSequenceRevealGating(t *testing.T) {
	r := newTestRound(t, []string{"a", "b"}, DefaultRules(2), 13)
	r.WildJokerRank = 8
	r.Hands["a"] = cards("2H", "3H", "4H", "8S", "9S", "5D", "6D", "7D", "KC", "QC", "JC", "10C", "AD")

	// A wild-substituted group is not a pure sequence, so no reveal.
	if ok, err := r.LockSequence("a", cards("5D", "6D", "8S")); err != nil || ok {
		t.Fatalf("impure lock accepted: ok=%v err=%v", ok, err)
	}
	if r.HasRevealed("a") {
		t.Fatalf("reveal granted on impure sequence")
	}

	if _, err := r.LockSequence("a", cards("2H", "3H", "5H")); !errors.Is(err, models.ErrCardNotInHand) {
		t.Fatalf("lock with foreign card should fail, got %v", err)
	}

	ok, err := r.LockSequence("a", cards("2H", "3H", "4H"))
	if err != nil || !ok {
		t.Fatalf("pure lock rejected: ok=%v err=%v", ok, err)
	}
	if !r.HasRevealed("a") {
		t.Fatalf("reveal not recorded")
	}

	// Replay is a benign no-op, not an error.
	ok, err = r.LockSequence("a", cards("2H", "3H", "4H"))
	if err != nil || ok {
		t.Fatalf("replayed lock should be ok=false err=nil, got ok=%v err=%v", ok, err)
	}

	// B remains gated.
	if r.HasRevealed("b") {
		t.Fatalf("b should still be gated")
	}
}

func TestOpenJokerStartsRevealed(t *testing.T) {
	rules := DefaultRules(2)
	rules.WildJokerMode = OpenJoker
	r := newTestRound(t, []string{"a", "b"}, rules, 17)
	if !r.HasRevealed("a") || !r.HasRevealed("b") {
		t.Fatalf("open joker tables start revealed")
	}
}

func TestDeclareValid(t *testing.T) {
	r := newTestRound(t, []string{"a", "b"}, noJokerRules(2), 19)
	r.Hands["a"] = cards(
		"2H", "3H", "4H",
		"5S", "6S", "7S",
		"9D", "10D", "JD", "QD",
		"KH", "KS", "KD",
		"8C") // 14th card, auto-discarded
	r.Hands["b"] = cards("2S", "3S", "4S", "7H", "7D", "7C", "9C", "QH", "JS", "10H", "AC", "5D", "KC")
	r.ActivePlayer = "a"

	groups := [][]Card{
		cards("2H", "3H", "4H"),
		cards("5S", "6S", "7S"),
		cards("9D", "10D", "JD", "QD"),
		cards("KH", "KS", "KD"),
	}
	if err := r.Declare("a", groups); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if !r.Finished || r.Winner != "a" || r.Validity != "valid" {
		t.Fatalf("round not finished as valid win: %+v", r)
	}
	if r.Scores["a"] != 0 {
		t.Fatalf("declarer must score 0, got %d", r.Scores["a"])
	}
	if r.Discard[len(r.Discard)-1] != cards("8C")[0] {
		t.Fatalf("14th card should be auto-discarded")
	}
	// b's hand: run 2S-4S and set of sevens meld; leftover
	// 9C+QH+JS+10H+AC+5D+KC = 9+10+10+10+10+5+10 = 64 with ace high.
	if r.Scores["b"] != 64 {
		t.Fatalf("b's deadwood = %d, want 64", r.Scores["b"])
	}
}

func TestDeclareRecordsMeldKinds(t *testing.T) {
	r := newTestRound(t, []string{"a", "b"}, noJokerRules(2), 19)
	r.Hands["a"] = cards(
		"2H", "3H", "4H",
		"KH", "KS", "KD",
		"5S", "9D", "QC", "7C", "8H", "AD", "6S",
		"2C")
	r.ActivePlayer = "a"

	groups := [][]Card{
		cards("2H", "3H", "4H"),
		cards("KH", "KS", "KD"),
		cards("5S", "9D", "QC", "7C", "8H", "AD", "6S"),
	}
	if err := r.Declare("a", groups); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if len(r.DeclaredMelds) != 3 {
		t.Fatalf("expected 3 recorded groups, got %d", len(r.DeclaredMelds))
	}
	wantKinds := []MeldKind{MeldPureSequence, MeldSet, MeldNone}
	for i, m := range r.DeclaredMelds {
		if m.Kind != wantKinds[i] {
			t.Fatalf("group %d classified %q, want %q", i, m.Kind, wantKinds[i])
		}
		if len(m.Cards) != len(groups[i]) {
			t.Fatalf("group %d kept %d cards, want %d", i, len(m.Cards), len(groups[i]))
		}
	}
}

func TestDeclarePartitionGuards(t *testing.T) {
	r := newTestRound(t, []string{"a", "b"}, noJokerRules(2), 23)
	if _, err := r.DrawStock("a"); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if err := r.Declare("a", [][]Card{cards("2H", "3H", "4H")}); !errors.Is(err, models.ErrInvalidPartitionSize) {
		t.Fatalf("short partition should fail, got %v", err)
	}
	// 13 cards that are not all from the hand.
	bogus := [][]Card{
		cards("2H", "3H", "4H", "5H", "6H", "7H", "8H"),
		cards("9H", "10H", "JH", "QH", "KH", "AH"),
	}
	if !containsAll(r.Hands["a"], bogus[0]) {
		if err := r.Declare("a", bogus); !errors.Is(err, models.ErrCardNotInHand) {
			t.Fatalf("foreign partition should fail, got %v", err)
		}
	}
	if r.Finished {
		t.Fatalf("failed declares must not finish the round")
	}
}

func TestDeclareForfeitCapped(t *testing.T) {
	r := newTestRound(t, []string{"a", "b"}, noJokerRules(2), 29)
	r.Hands["a"] = cards("KH", "KS", "QD", "QC", "JH", "JS", "10D", "10C", "9H", "9S", "8D", "AC", "AD", "KC")
	r.ActivePlayer = "a"

	if err := r.Declare("a", nil); err != nil {
		t.Fatalf("forfeit declare: %v", err)
	}
	if r.Validity != "invalid" {
		t.Fatalf("forfeit should record invalid, got %q", r.Validity)
	}
	if r.Winner != "" {
		t.Fatalf("forfeit has no winner")
	}
	// Raw full-hand deadwood is well over the cap; the charge stops at 80.
	if r.Scores["a"] != InvalidDeclareCap {
		t.Fatalf("declarer score = %d, want %d", r.Scores["a"], InvalidDeclareCap)
	}
	if r.Scores["b"] != 0 {
		t.Fatalf("other players score 0 on a forfeit, got %d", r.Scores["b"])
	}
}

func TestDropRules(t *testing.T) {
	r := newTestRound(t, []string{"a", "b", "c"}, DefaultRules(3), 31)

	// Non-active player may drop without moving the turn pointer.
	if err := r.Drop("c"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if r.ActivePlayer != "a" {
		t.Fatalf("turn pointer moved on non-active drop")
	}
	if r.Scores["c"] != DropPenalty {
		t.Fatalf("drop penalty = %d, want %d", r.Scores["c"], DropPenalty)
	}
	if err := r.Drop("c"); !errors.Is(err, models.ErrNotAPlayer) {
		t.Fatalf("double drop should fail, got %v", err)
	}

	// Two players left: another drop would leave a lone player.
	if err := r.Drop("b"); !errors.Is(err, models.ErrNotEnoughActivePlayers) {
		t.Fatalf("expected ErrNotEnoughActivePlayers, got %v", err)
	}

	// After drawing, a's hand is 14 and dropping is no longer legal.
	if _, err := r.DrawStock("a"); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if err := r.Drop("a"); !errors.Is(err, models.ErrWrongHandSize) {
		t.Fatalf("drop with 14 cards should fail, got %v", err)
	}
}

func TestDropActivePlayerAdvancesTurn(t *testing.T) {
	r := newTestRound(t, []string{"a", "b", "c"}, DefaultRules(3), 37)
	if err := r.Drop("a"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if r.ActivePlayer != "b" {
		t.Fatalf("turn should pass to b, got %s", r.ActivePlayer)
	}
	// Rotation now skips the dropped seat.
	if _, err := r.DrawStock("b"); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if err := r.DiscardCard("b", r.Hands["b"][0]); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if r.ActivePlayer != "c" {
		t.Fatalf("expected c, got %s", r.ActivePlayer)
	}
	if _, err := r.DrawStock("c"); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if err := r.DiscardCard("c", r.Hands["c"][0]); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if r.ActivePlayer != "b" {
		t.Fatalf("rotation must skip dropped a, got %s", r.ActivePlayer)
	}
}

func TestSettlementIdempotent(t *testing.T) {
	r := newTestRound(t, []string{"a", "b"}, noJokerRules(2), 41)
	if _, _, err := r.TakeSettlement(); !errors.Is(err, models.ErrRoundNotFinished) {
		t.Fatalf("settling a live round should fail, got %v", err)
	}

	if _, err := r.DrawStock("a"); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if err := r.Declare("a", nil); err != nil {
		t.Fatalf("declare: %v", err)
	}

	scores, ok, err := r.TakeSettlement()
	if err != nil || !ok {
		t.Fatalf("first settlement: ok=%v err=%v", ok, err)
	}
	if scores["a"] == 0 {
		t.Fatalf("forfeit declarer should carry points")
	}

	again, ok, err := r.TakeSettlement()
	if err != nil || ok || again != nil {
		t.Fatalf("second settlement must be a no-op: ok=%v scores=%v err=%v", ok, again, err)
	}
}

func TestMovesRejectedAfterFinish(t *testing.T) {
	r := newTestRound(t, []string{"a", "b"}, noJokerRules(2), 43)
	if _, err := r.DrawStock("a"); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if err := r.Declare("a", nil); err != nil {
		t.Fatalf("declare: %v", err)
	}
	if _, err := r.DrawStock("b"); !errors.Is(err, models.ErrRoundAlreadyFinished) {
		t.Fatalf("expected ErrRoundAlreadyFinished, got %v", err)
	}
	if err := r.Drop("b"); !errors.Is(err, models.ErrRoundAlreadyFinished) {
		t.Fatalf("expected ErrRoundAlreadyFinished, got %v", err)
	}
}

func TestEligiblePlayers(t *testing.T) {
	rules := DefaultRules(4)
	rules.DisqualifyScore = 100
	seats := []string{"a", "b", "c", "d"}
	totals := map[string]int{"a": 20, "b": 100, "c": 150, "d": 99}
	got := EligiblePlayers(seats, totals, rules)
	if len(got) != 2 || got[0] != "a" || got[1] != "d" {
		t.Fatalf("eligible = %v, want [a d]", got)
	}
}
