package rummy

import (
	"github.com/AchyuthKolli/rummy-multiplayerai/internal/models"
)

// Round is one full deal of a rummy table, from the opening discard to a
// declare. It is a plain snapshot: handlers load it, apply exactly one move,
// and persist the result. The engine holds no state of its own and never
// blocks; serializing concurrent moves against the same round is the
// caller's job.
type Round struct {
	Number        int               `json:"number"`
	Rules         Rules             `json:"rules"`
	DeckConfig    DeckConfig        `json:"deck_config"`
	WildJokerRank Rank              `json:"wild_joker_rank,omitempty"`
	Seats         []string          `json:"seats"` // seat order at deal time
	Hands         map[string][]Card `json:"hands"`
	Stock         []Card            `json:"stock"`
	Discard       []Card            `json:"discard"`
	ActivePlayer  string            `json:"active_player"`
	Revealed      map[string]bool   `json:"revealed"` // players who unlocked the wild joker
	Dropped       map[string]bool   `json:"dropped"`
	Finished      bool              `json:"finished"`
	Winner        string            `json:"winner,omitempty"`
	Validity      string            `json:"validity,omitempty"`       // valid|invalid, set on declare
	DeclaredMelds []Meld            `json:"declared_melds,omitempty"` // declarer's groups, classified
	Scores        map[string]int    `json:"scores"`                   // per-round deltas
	Accumulated   bool              `json:"accumulated"`              // settlement applied exactly once
}

// NewRound deals a fresh round for the given seat order. Open-joker tables
// start every player revealed; otherwise each player unlocks the wild rank
// individually by locking a pure sequence.
func NewRound(number int, playerIDs []string, rules Rules, seed *int64) (*Round, error) {
	if len(playerIDs) < 2 {
		return nil, models.ErrNotEnoughActivePlayers
	}
	cfg := DeckConfigForPlayers(len(playerIDs), rules.PrintedJokers)
	dealt, err := Deal(playerIDs, cfg, rules.WildJokerMode, seed)
	if err != nil {
		return nil, err
	}

	r := &Round{
		Number:        number,
		Rules:         rules,
		DeckConfig:    cfg,
		WildJokerRank: dealt.WildJokerRank,
		Seats:         append([]string(nil), playerIDs...),
		Hands:         dealt.Hands,
		Stock:         dealt.Stock,
		Discard:       dealt.Discard,
		ActivePlayer:  playerIDs[0],
		Revealed:      map[string]bool{},
		Dropped:       map[string]bool{},
		Scores:        map[string]int{},
	}
	if rules.OpenReveal() {
		for _, id := range playerIDs {
			r.Revealed[id] = true
		}
	}
	return r, nil
}

func (r *Round) seated(playerID string) bool {
	for _, id := range r.Seats {
		if id == playerID {
			return true
		}
	}
	return false
}

func (r *Round) activeCount() int {
	n := 0
	for _, id := range r.Seats {
		if !r.Dropped[id] {
			n++
		}
	}
	return n
}

// nextActive walks the seat order from the given player, wrapping around,
// and returns the next player still in the round.
func (r *Round) nextActive(from string) string {
	start := 0
	for i, id := range r.Seats {
		if id == from {
			start = i
			break
		}
	}
	for off := 1; off <= len(r.Seats); off++ {
		id := r.Seats[(start+off)%len(r.Seats)]
		if !r.Dropped[id] {
			return id
		}
	}
	return from
}

// TotalCards counts every card in play. It equals the configured deck size
// for the life of the round; tests lean on this conservation check.
func (r *Round) TotalCards() int {
	n := len(r.Stock) + len(r.Discard)
	for _, h := range r.Hands {
		n += len(h)
	}
	return n
}

// HasRevealed reports whether rank-wild substitution is live for the player.
func (r *Round) HasRevealed(playerID string) bool {
	return r.Revealed[playerID]
}

func (r *Round) guardTurn(playerID string, wantHand int) error {
	if r.Finished {
		return models.ErrRoundAlreadyFinished
	}
	if !r.seated(playerID) || r.Dropped[playerID] {
		return models.ErrNotAPlayer
	}
	if r.ActivePlayer != playerID {
		return models.ErrNotYourTurn
	}
	if len(r.Hands[playerID]) != wantHand {
		return models.ErrWrongHandSize
	}
	return nil
}

// DrawStock moves the top stock card into the active player's hand.
func (r *Round) DrawStock(playerID string) (Card, error) {
	if err := r.guardTurn(playerID, HandSize); err != nil {
		return Card{}, err
	}
	if len(r.Stock) == 0 {
		return Card{}, models.ErrStockEmpty
	}
	c := r.Stock[len(r.Stock)-1]
	r.Stock = r.Stock[:len(r.Stock)-1]
	r.Hands[playerID] = append(r.Hands[playerID], c)
	return c, nil
}

// DrawDiscard moves the top of the discard pile into the active player's hand.
func (r *Round) DrawDiscard(playerID string) (Card, error) {
	if err := r.guardTurn(playerID, HandSize); err != nil {
		return Card{}, err
	}
	if len(r.Discard) == 0 {
		return Card{}, models.ErrDiscardEmpty
	}
	c := r.Discard[len(r.Discard)-1]
	r.Discard = r.Discard[:len(r.Discard)-1]
	r.Hands[playerID] = append(r.Hands[playerID], c)
	return c, nil
}

// DiscardCard removes the first positional match of c from the active
// player's 14-card hand, places it on the discard pile, and passes the turn
// to the next seated player.
func (r *Round) DiscardCard(playerID string, c Card) error {
	if err := r.guardTurn(playerID, HandSize+1); err != nil {
		return err
	}
	rest, ok := removeCard(r.Hands[playerID], c)
	if !ok {
		return models.ErrCardNotInHand
	}
	r.Hands[playerID] = rest
	r.Discard = append(r.Discard, c)
	r.ActivePlayer = r.nextActive(playerID)
	return nil
}

// LockSequence grants the wild joker reveal when the submitted group is a
// pure sequence from the player's hand, judged under their current
// pre-reveal state. Replays from an already-revealed player return
// accepted=false with no error so the endpoint stays idempotent.
func (r *Round) LockSequence(playerID string, group []Card) (accepted bool, err error) {
	if r.Finished {
		return false, models.ErrRoundAlreadyFinished
	}
	if !r.seated(playerID) || r.Dropped[playerID] {
		return false, models.ErrNotAPlayer
	}
	if r.Revealed[playerID] {
		return false, nil
	}
	if !containsAll(r.Hands[playerID], group) {
		return false, models.ErrCardNotInHand
	}
	if !IsPureSequence(group, r.WildJokerRank, false) {
		return false, nil
	}
	r.Revealed[playerID] = true
	return true, nil
}

// Declare ends the round. A non-empty partition must cover exactly 13 cards
// out of the declarer's 14 (any multiset mismatch with the hand is rejected);
// the leftover 14th card is discarded automatically and the declarer scores
// zero while every other live hand is auto-organized for deadwood. An empty
// partition forfeits: the declarer is charged their own full-hand deadwood,
// capped, and everyone else scores zero.
//
// The recorded validity label only says which branch ran; each declared
// group is classified and kept on the snapshot for the record, whether or
// not it turned out to be a well-formed meld.
func (r *Round) Declare(playerID string, groups [][]Card) error {
	if err := r.guardTurn(playerID, HandSize+1); err != nil {
		return err
	}
	hand := r.Hands[playerID]

	if len(groups) == 0 {
		pts := DeadwoodPoints(hand, r.WildJokerRank, r.Revealed[playerID], r.Rules.AceValue)
		if pts > InvalidDeclareCap {
			pts = InvalidDeclareCap
		}
		r.finish(playerID, "", "invalid")
		r.Scores[playerID] += pts
		return nil
	}

	var declared []Card
	for _, g := range groups {
		declared = append(declared, g...)
	}
	if len(declared) != HandSize {
		return models.ErrInvalidPartitionSize
	}
	if !containsAll(hand, declared) {
		return models.ErrCardNotInHand
	}

	// The inferred 14th card goes to the discard pile so conservation holds
	// across settlement.
	extra := multisetDiff(hand, declared)
	r.Discard = append(r.Discard, extra...)
	r.Hands[playerID] = declared

	for _, g := range groups {
		r.DeclaredMelds = append(r.DeclaredMelds, Meld{
			Cards: append([]Card(nil), g...),
			Kind:  Classify(g, r.WildJokerRank, r.Revealed[playerID]),
		})
	}

	r.finish(playerID, playerID, "valid")
	for _, id := range r.Seats {
		if id == playerID || r.Dropped[id] {
			continue
		}
		_, leftover := AutoOrganize(r.Hands[id], r.WildJokerRank, r.Revealed[id])
		r.Scores[id] += DeadwoodPoints(leftover, r.WildJokerRank, r.Revealed[id], r.Rules.AceValue)
	}
	return nil
}

func (r *Round) finish(declarer, winner, validity string) {
	r.Finished = true
	r.Winner = winner
	r.Validity = validity
	if r.Scores == nil {
		r.Scores = map[string]int{}
	}
	// Declarer of a syntactically accepted declare always scores zero; the
	// entry is written explicitly so settlement sees every live player.
	if validity == "valid" {
		r.Scores[declarer] = 0
	}
}

// Drop converts a player to spectator for a fixed penalty. Only legal before
// they have drawn this turn (13 cards held) and while at least two players
// would remain in the round afterwards. The turn pointer moves only when the
// dropping player was the active one.
func (r *Round) Drop(playerID string) error {
	if r.Finished {
		return models.ErrRoundAlreadyFinished
	}
	if !r.seated(playerID) || r.Dropped[playerID] {
		return models.ErrNotAPlayer
	}
	if len(r.Hands[playerID]) != HandSize {
		return models.ErrWrongHandSize
	}
	if r.activeCount()-1 < 2 {
		return models.ErrNotEnoughActivePlayers
	}
	wasActive := r.ActivePlayer == playerID
	r.Dropped[playerID] = true
	r.Scores[playerID] += DropPenalty
	if wasActive {
		r.ActivePlayer = r.nextActive(playerID)
	}
	return nil
}

// TakeSettlement hands the round's score deltas to the ledger exactly once.
// The second and later calls see the Accumulated flag and return ok=false,
// which is what makes settlement retries harmless.
func (r *Round) TakeSettlement() (scores map[string]int, ok bool, err error) {
	if !r.Finished {
		return nil, false, models.ErrRoundNotFinished
	}
	if r.Accumulated {
		return nil, false, nil
	}
	r.Accumulated = true
	out := make(map[string]int, len(r.Scores))
	for id, pts := range r.Scores {
		out[id] = pts
	}
	return out, true, nil
}

// EligiblePlayers filters a seat order down to players still under the
// disqualification threshold. Starting the next round with fewer than two
// eligible players is the caller's cue to finish the whole table.
func EligiblePlayers(seats []string, totals map[string]int, rules Rules) []string {
	var out []string
	for _, id := range seats {
		if totals[id] < rules.DisqualifyScore {
			out = append(out, id)
		}
	}
	return out
}
