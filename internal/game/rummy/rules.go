package rummy

// WildJokerMode controls whether a wild joker rank is drawn for each round and
// whether it is shown face up from the start.
type WildJokerMode string

const (
	NoJoker    WildJokerMode = "no_joker"
	CloseJoker WildJokerMode = "close_joker"
	OpenJoker  WildJokerMode = "open_joker"
)

// Rules captures the per-table configurables for 13-card rummy.
type Rules struct {
	WildJokerMode   WildJokerMode `json:"wild_joker_mode"`
	AceValue        int           `json:"ace_value"`        // 1 or 10
	DisqualifyScore int           `json:"disqualify_score"` // cumulative points that eliminate a player
	MaxPlayers      int           `json:"max_players"`      // 2-6
	PrintedJokers   bool          `json:"printed_jokers"`
}

func DefaultRules(players int) Rules {
	if players < 2 {
		players = 2
	}
	if players > 6 {
		players = 6
	}
	return Rules{
		WildJokerMode:   CloseJoker,
		AceValue:        10,
		DisqualifyScore: 200,
		MaxPlayers:      players,
		PrintedJokers:   true,
	}
}

func (r Rules) Valid() bool {
	switch r.WildJokerMode {
	case NoJoker, CloseJoker, OpenJoker:
	default:
		return false
	}
	if r.AceValue != 1 && r.AceValue != 10 {
		return false
	}
	return r.MaxPlayers >= 2 && r.MaxPlayers <= 6 && r.DisqualifyScore > 0
}

// OpenReveal reports whether the wild joker is public knowledge from the deal,
// meaning every player starts the round with rank-wild substitution unlocked.
func (r Rules) OpenReveal() bool {
	return r.WildJokerMode == OpenJoker
}

const (
	// HandSize is the dealt hand; a player briefly holds HandSize+1 between a
	// draw and the following discard or declare.
	HandSize = 13

	// DropPenalty is charged when a player leaves a round before drawing.
	DropPenalty = 20

	// InvalidDeclareCap bounds the deadwood charged for a forfeited declare.
	InvalidDeclareCap = 80
)
