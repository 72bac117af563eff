package rummy

import "testing"

func leftoverPoints(t *testing.T, hand []Card, wildRank Rank, revealed bool, aceValue int) int {
	t.Helper()
	_, leftover := AutoOrganize(hand, wildRank, revealed)
	return DeadwoodPoints(leftover, wildRank, revealed, aceValue)
}

func TestAutoOrganizeFullCover(t *testing.T) {
	// A hand with an exact partition into melds must come back with zero
	// leftover value.
	hand := cards(
		"2H", "3H", "4H",
		"7S", "8S", "9S", "10S",
		"KH", "KS", "KD",
		"5C", "6C", "7C",
	)
	melds, leftover := AutoOrganize(hand, 0, false)
	if len(leftover) != 0 {
		t.Fatalf("expected full cover, leftover %v", leftover)
	}
	if len(melds) != 4 {
		t.Fatalf("expected 4 melds, got %d", len(melds))
	}
	for _, m := range melds {
		if m.Kind == MeldNone {
			t.Fatalf("invalid meld in optimal partition: %v", m.Cards)
		}
	}
}

func TestAutoOrganizeSameSuitTriplicateStaysDeadwood(t *testing.T) {
	// Three identical 9C (multi-deck duplicates) cannot form a set.
	hand := cards("2H", "3H", "4H", "7S", "7H", "7D", "9C", "9C", "9C")
	melds, leftover := AutoOrganize(hand, 0, false)
	if len(melds) != 2 {
		t.Fatalf("expected run + set, got %d melds", len(melds))
	}
	if len(leftover) != 3 {
		t.Fatalf("expected the three 9C left over, got %v", leftover)
	}
	if pts := DeadwoodPoints(leftover, 0, false, 1); pts != 27 {
		t.Fatalf("leftover deadwood = %d, want 27", pts)
	}
}

func TestAutoOrganizeDuplicateRuns(t *testing.T) {
	// Two decks can hold two copies of the same run; both must meld.
	hand := cards("2H", "2H", "3H", "3H", "4H", "4H")
	_, leftover := AutoOrganize(hand, 0, false)
	if len(leftover) != 0 {
		t.Fatalf("expected both duplicate runs melded, leftover %v", leftover)
	}
}

func TestAutoOrganizeStaggeredDuplicateRuns(t *testing.T) {
	// Two decks, but the duplicate counts are uneven: 2H and 5H appear once,
	// 3H and 4H twice. The only exact partition interleaves the copies as
	// 2-3-4 and 3-4-5, so each run must be free to bind either copy.
	hand := cards("2H", "3H", "3H", "4H", "4H", "5H")
	melds, leftover := AutoOrganize(hand, 0, false)
	if len(leftover) != 0 {
		t.Fatalf("expected full cover of interleaved runs, leftover %v", leftover)
	}
	if len(melds) != 2 {
		t.Fatalf("expected 2 runs, got %d melds", len(melds))
	}
}

func TestAutoOrganizeSharedRankBetweenRuns(t *testing.T) {
	// The two 4H anchor runs on either side: 2-3-4 and 4-5-6.
	hand := cards("2H", "3H", "4H", "4H", "5H", "6H")
	_, leftover := AutoOrganize(hand, 0, false)
	if len(leftover) != 0 {
		t.Fatalf("expected both runs through the duplicated 4H, leftover %v", leftover)
	}
}

func TestAutoOrganizeDuplicateSharedBetweenRunAndSet(t *testing.T) {
	// One 7H feeds the run, the other the set.
	hand := cards("5H", "6H", "7H", "7H", "7S", "7D")
	_, leftover := AutoOrganize(hand, 0, false)
	if len(leftover) != 0 {
		t.Fatalf("expected run and set to split the 7H copies, leftover %v", leftover)
	}
}

func TestAutoOrganizeMinimizesValueNotCount(t *testing.T) {
	// The 4C is contested: run 2C-3C-4C strands 4H+4D (8), set 4C-4H-4D
	// strands 2C+3C (5). A count-maximizer is indifferent; minimizing value
	// must pick the set. QS stays deadwood either way.
	hand := cards("2C", "3C", "4C", "4H", "4D", "QS")
	if pts := leftoverPoints(t, hand, 0, false, 10); pts != 15 {
		t.Fatalf("leftover = %d, want 15 (set over run)", pts)
	}
}

func TestAutoOrganizeDeterministicTieBreak(t *testing.T) {
	// Run JS-QS-KS and set QS-QD-QH overlap on QS and tie at 22 leftover;
	// repeated calls must settle the tie the same way.
	hand := cards("JS", "QS", "KS", "QD", "QH", "2C")
	_, leftover := AutoOrganize(hand, 0, false)
	if pts := DeadwoodPoints(leftover, 0, false, 10); pts != 22 {
		t.Fatalf("leftover = %d (%v), want 22", pts, leftover)
	}
	for i := 0; i < 5; i++ {
		_, again := AutoOrganize(hand, 0, false)
		if len(again) != len(leftover) {
			t.Fatalf("nondeterministic leftover: %v vs %v", leftover, again)
		}
		for j := range again {
			if again[j] != leftover[j] {
				t.Fatalf("nondeterministic leftover: %v vs %v", leftover, again)
			}
		}
	}
}

func TestAutoOrganizeWithWilds(t *testing.T) {
	hand := cards("2H", "4H", "JK", "9S", "9D", "8C", "KD")
	// Wild rank 8, revealed: 8C is wild. JK fills 3H, 8C completes the nines.
	_, leftover := AutoOrganize(hand, 8, true)
	pts := DeadwoodPoints(leftover, 8, true, 10)
	if pts != 10 {
		t.Fatalf("expected only KD stranded (10 pts), got %d (%v)", pts, leftover)
	}
}

func TestAutoOrganizeEmptyAndTinyHands(t *testing.T) {
	if melds, leftover := AutoOrganize(nil, 0, false); melds != nil || leftover != nil {
		t.Fatalf("empty hand should organize to nothing")
	}
	hand := cards("2H", "9S")
	melds, leftover := AutoOrganize(hand, 0, false)
	if len(melds) != 0 || len(leftover) != 2 {
		t.Fatalf("two cards can never meld: %v / %v", melds, leftover)
	}
}

func TestDeadwoodPoints(t *testing.T) {
	cases := []struct {
		name     string
		hand     []string
		wildRank Rank
		revealed bool
		aceValue int
		want     int
	}{
		{"faces are ten", []string{"JH", "QS", "KD"}, 0, false, 1, 30},
		{"pips face value", []string{"2H", "5S", "9D"}, 0, false, 1, 16},
		{"ace low", []string{"AH"}, 0, false, 1, 1},
		{"ace high", []string{"AH"}, 0, false, 10, 10},
		{"printed joker free", []string{"JK", "5H"}, 0, false, 1, 5},
		{"wild rank free after reveal", []string{"8S", "5H"}, 8, true, 1, 5},
		{"wild rank counts before reveal", []string{"8S", "5H"}, 8, false, 1, 13},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeadwoodPoints(cards(tc.hand...), tc.wildRank, tc.revealed, tc.aceValue)
			if got != tc.want {
				t.Fatalf("DeadwoodPoints = %d, want %d", got, tc.want)
			}
		})
	}
}
