package models

import (
	"database/sql"
	"errors"
	"time"
)

// RoundMove is the audit log of engine actions: one row per accepted draw,
// discard, lock, drop, or declare. The log is what table spectators and the
// move history endpoint replay from; the engine state itself only keeps the
// current snapshot.
type RoundMove struct {
	ID        int64     `json:"id"`
	RoundID   int64     `json:"round_id"`
	PlayerID  int64     `json:"player_id"`
	MoveType  string    `json:"move_type"` // draw_stock|draw_discard|discard|lock|drop|declare|settle
	Card      *string   `json:"card,omitempty"`
	Detail    *string   `json:"detail,omitempty"` // declare partitions, lock groups
	CreatedAt time.Time `json:"created_at"`
}

func InsertRoundMoveTx(tx *sql.Tx, m RoundMove) error {
	_, err := tx.Exec(
		`INSERT INTO round_moves(round_id, player_id, move_type, card, detail) VALUES (?, ?, ?, ?, ?)`,
		m.RoundID, m.PlayerID, m.MoveType, m.Card, m.Detail,
	)
	return err
}

func ListRoundMoves(db *sql.DB, roundID int64, limit int64) ([]RoundMove, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	rows, err := db.Query(
		`SELECT id, round_id, player_id, move_type, card, detail, created_at
		 FROM round_moves WHERE round_id = ? ORDER BY id DESC LIMIT ?`,
		roundID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RoundMove
	for rows.Next() {
		var m RoundMove
		var card, detail sql.NullString
		if err := rows.Scan(&m.ID, &m.RoundID, &m.PlayerID, &m.MoveType, &card, &detail, &m.CreatedAt); err != nil {
			return nil, err
		}
		if card.Valid {
			v := card.String
			m.Card = &v
		}
		if detail.Valid {
			v := detail.String
			m.Detail = &v
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// IsUserAtTable reports table membership without loading the full seat row.
func IsUserAtTable(db *sql.DB, userID, tableID int64) (bool, error) {
	var one int
	err := db.QueryRow(
		`SELECT 1 FROM table_players WHERE table_id = ? AND user_id = ? LIMIT 1`,
		tableID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
