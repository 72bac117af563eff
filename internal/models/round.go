package models

import (
	"database/sql"
	"errors"
	"strings"
	"time"
)

// RoundRow is the persisted form of one engine round. StateJSON holds the
// full card snapshot (hands, stock, discard, reveal flags); the engine never
// sees the database, it only round-trips through this blob, which is
// validated on read before any move is applied.
type RoundRow struct {
	ID          int64     `json:"id"`
	TableID     int64     `json:"table_id"`
	Number      int64     `json:"number"`
	StateJSON   string    `json:"-"`
	Finished    bool      `json:"finished"`
	Accumulated bool      `json:"accumulated"`
	CreatedAt   time.Time `json:"created_at"`
}

func CreateRound(db *sql.DB, tableID, number int64, stateJSON string) (*RoundRow, error) {
	res, err := db.Exec(
		`INSERT INTO rounds(table_id, number, state_json) VALUES (?, ?, ?)`,
		tableID, number, stateJSON,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetRoundByID(db, id)
}

func GetRoundByID(db *sql.DB, id int64) (*RoundRow, error) {
	return scanRound(db.QueryRow(
		`SELECT id, table_id, number, state_json, finished, accumulated, created_at FROM rounds WHERE id = ?`, id))
}

// GetLatestRound returns the most recent round for a table, or ErrNotFound
// when the table has never dealt.
func GetLatestRound(db *sql.DB, tableID int64) (*RoundRow, error) {
	return scanRound(db.QueryRow(
		`SELECT id, table_id, number, state_json, finished, accumulated, created_at
		 FROM rounds WHERE table_id = ? ORDER BY number DESC LIMIT 1`, tableID))
}

func scanRound(row *sql.Row) (*RoundRow, error) {
	var r RoundRow
	var fin, acc int64
	err := row.Scan(&r.ID, &r.TableID, &r.Number, &r.StateJSON, &fin, &acc, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.StateJSON) == "" {
		return nil, ErrRoundStateMissing
	}
	r.Finished = fin != 0
	r.Accumulated = acc != 0
	return &r, nil
}

// UpdateRoundStateTx replaces the authoritative snapshot. A zero-row update
// means the round vanished underneath the caller.
func UpdateRoundStateTx(tx *sql.Tx, roundID int64, stateJSON string, finished bool) error {
	res, err := tx.Exec(
		`UPDATE rounds SET state_json = ?, finished = ? WHERE id = ?`,
		stateJSON, boolToInt(finished), roundID,
	)
	if err != nil {
		return err
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if ra == 0 {
		return ErrRoundStateConflict
	}
	return nil
}

// MarkRoundAccumulatedTx flips the settlement flag exactly once; ok=false
// means another settlement already won and the caller must not apply deltas.
func MarkRoundAccumulatedTx(tx *sql.Tx, roundID int64) (bool, error) {
	res, err := tx.Exec(`UPDATE rounds SET accumulated = 1 WHERE id = ? AND accumulated = 0`, roundID)
	if err != nil {
		return false, err
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return ra > 0, nil
}
