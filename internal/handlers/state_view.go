package handlers

import (
	"database/sql"
	"errors"

	"github.com/AchyuthKolli/rummy-multiplayerai/internal/game/rummy"
	"github.com/AchyuthKolli/rummy-multiplayerai/internal/models"
)

// roundView is the client-facing projection of a round snapshot. Only the
// viewer's own hand is included; everyone else is reduced to a card count,
// and the stock is reduced to its size. The discard pile is public.
type roundView struct {
	RoundID       int64           `json:"round_id"`
	TableID       int64           `json:"table_id"`
	Number        int             `json:"number"`
	Rules         rummy.Rules     `json:"rules"`
	WildJokerRank rummy.Rank      `json:"wild_joker_rank,omitempty"`
	Seats         []string        `json:"seats"`
	ActivePlayer  string          `json:"active_player"`
	Hand          []rummy.Card    `json:"hand,omitempty"`
	HandCounts    map[string]int  `json:"hand_counts"`
	StockCount    int             `json:"stock_count"`
	DiscardTop    *rummy.Card     `json:"discard_top,omitempty"`
	DiscardCount  int             `json:"discard_count"`
	Revealed      map[string]bool `json:"revealed"`
	Dropped       map[string]bool `json:"dropped"`
	Finished      bool            `json:"finished"`
	Winner        string          `json:"winner,omitempty"`
	Validity      string          `json:"validity,omitempty"`
	DeclaredMelds []rummy.Meld    `json:"declared_melds,omitempty"`
	Scores        map[string]int  `json:"scores,omitempty"`
}

// buildRoundView projects a round for one viewer. An empty viewerSeat (or a
// seat not in the round) produces the spectator view with no hand at all.
func buildRoundView(row *models.RoundRow, r *rummy.Round, viewerSeat string) roundView {
	v := roundView{
		RoundID:       row.ID,
		TableID:       row.TableID,
		Number:        r.Number,
		Rules:         r.Rules,
		WildJokerRank: r.WildJokerRank,
		Seats:         append([]string(nil), r.Seats...),
		ActivePlayer:  r.ActivePlayer,
		HandCounts:    make(map[string]int, len(r.Seats)),
		StockCount:    len(r.Stock),
		DiscardCount:  len(r.Discard),
		Revealed:      map[string]bool{},
		Dropped:       map[string]bool{},
		Finished:      r.Finished,
		Winner:        r.Winner,
		Validity:      r.Validity,
	}

	for _, seat := range r.Seats {
		v.HandCounts[seat] = len(r.Hands[seat])
		if r.Revealed[seat] {
			v.Revealed[seat] = true
		}
		if r.Dropped[seat] {
			v.Dropped[seat] = true
		}
	}

	if len(r.Discard) > 0 {
		top := r.Discard[len(r.Discard)-1]
		v.DiscardTop = &top
	}

	if hand, ok := r.Hands[viewerSeat]; ok && !r.Dropped[viewerSeat] {
		v.Hand = append([]rummy.Card(nil), hand...)
	}

	// Per-round deltas and the declared layout become public once the round
	// is over.
	if r.Finished {
		v.Scores = make(map[string]int, len(r.Scores))
		for seat, pts := range r.Scores {
			v.Scores[seat] = pts
		}
		v.DeclaredMelds = r.DeclaredMelds
	}

	return v
}

type tableSnapshot struct {
	Table   *models.Table        `json:"table"`
	Players []models.TablePlayer `json:"players"`
	Round   *roundView           `json:"round,omitempty"`
}

// buildTableSnapshot assembles the public state broadcast to the table's
// websocket room. It never includes any hand.
func buildTableSnapshot(db *sql.DB, tableID int64) (*tableSnapshot, error) {
	t, err := models.GetTableByID(db, tableID)
	if err != nil {
		return nil, err
	}
	players, err := models.ListTablePlayers(db, tableID)
	if err != nil {
		return nil, err
	}

	snap := &tableSnapshot{Table: t, Players: players}

	row, r, err := latestRound(db, tableID)
	if err == nil {
		view := buildRoundView(row, r, "")
		snap.Round = &view
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	return snap, nil
}
