package rummy

// CardPoints returns the deadwood value of a single card. Wild cards count
// zero, faces count ten, pips count face value, and the Ace counts the
// table's configured aceValue (1 or 10).
func CardPoints(c Card, wildRank Rank, revealed bool, aceValue int) int {
	if IsWild(c, wildRank, revealed) {
		return 0
	}
	switch {
	case c.Rank == Ace:
		return aceValue
	case c.Rank >= Jack:
		return 10
	default:
		return int(c.Rank)
	}
}

// DeadwoodPoints sums the point values of already-determined leftover cards.
// It scores exactly what it is given: callers decide what counts as leftover
// (for a forfeited declare that is the whole hand, capped by the caller at
// InvalidDeclareCap).
func DeadwoodPoints(cards []Card, wildRank Rank, revealed bool, aceValue int) int {
	total := 0
	for _, c := range cards {
		total += CardPoints(c, wildRank, revealed, aceValue)
	}
	return total
}
