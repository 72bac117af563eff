package models

import (
	"database/sql"
	"errors"
	"time"
)

// Table is one rummy table: a roster of seats, the table rules, and a status
// that moves waiting -> playing -> finished. Finished means fewer than two
// players survived the disqualification threshold.
type Table struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	HostID          int64     `json:"host_id"`
	MaxPlayers      int64     `json:"max_players"`
	CurrentPlayers  int64     `json:"current_players"`
	Status          string    `json:"status"` // waiting|playing|finished
	WildJokerMode   string    `json:"wild_joker_mode"`
	AceValue        int64     `json:"ace_value"`
	DisqualifyScore int64     `json:"disqualify_score"`
	CreatedAt       time.Time `json:"created_at"`
}

const tableColumns = `id, name, host_id, max_players, current_players, status,
	wild_joker_mode, ace_value, disqualify_score, created_at`

func scanTable(row *sql.Row) (*Table, error) {
	var t Table
	err := row.Scan(&t.ID, &t.Name, &t.HostID, &t.MaxPlayers, &t.CurrentPlayers, &t.Status,
		&t.WildJokerMode, &t.AceValue, &t.DisqualifyScore, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func CreateTable(db *sql.DB, name string, hostID, maxPlayers int64, wildJokerMode string, aceValue, disqualifyScore int64) (*Table, error) {
	res, err := db.Exec(
		`INSERT INTO tables(name, host_id, max_players, current_players, status, wild_joker_mode, ace_value, disqualify_score)
		 VALUES (?, ?, ?, 1, 'waiting', ?, ?, ?)`,
		name, hostID, maxPlayers, wildJokerMode, aceValue, disqualifyScore,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetTableByID(db, id)
}

func GetTableByID(db *sql.DB, id int64) (*Table, error) {
	return scanTable(db.QueryRow(`SELECT `+tableColumns+` FROM tables WHERE id = ?`, id))
}

func ListTables(db *sql.DB, limit, offset int64) ([]Table, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := db.Query(
		`SELECT `+tableColumns+` FROM tables ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Table
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.ID, &t.Name, &t.HostID, &t.MaxPlayers, &t.CurrentPlayers, &t.Status,
			&t.WildJokerMode, &t.AceValue, &t.DisqualifyScore, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// JoinTableTx claims a seat by bumping current_players, failing with a
// specific error when the table is full or already playing. Run inside a
// transaction so a failed downstream step can release the seat again.
func JoinTableTx(tx *sql.Tx, tableID int64) error {
	res, err := tx.Exec(
		`UPDATE tables SET current_players = current_players + 1
		 WHERE id = ? AND status = 'waiting' AND current_players < max_players`,
		tableID,
	)
	if err != nil {
		return err
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if ra > 0 {
		return nil
	}

	var status string
	var current, max int64
	err = tx.QueryRow(`SELECT status, current_players, max_players FROM tables WHERE id = ?`, tableID).
		Scan(&status, &current, &max)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != "waiting" {
		return ErrTableNotJoinable
	}
	if current >= max {
		return ErrTableFull
	}
	return errors.New("unable to join table")
}

func SetTableStatus(db *sql.DB, tableID int64, status string) error {
	if status != "waiting" && status != "playing" && status != "finished" {
		return errors.New("invalid status")
	}
	_, err := db.Exec(`UPDATE tables SET status = ? WHERE id = ?`, status, tableID)
	return err
}

func SetTableStatusTx(tx *sql.Tx, tableID int64, status string) error {
	if status != "waiting" && status != "playing" && status != "finished" {
		return errors.New("invalid status")
	}
	_, err := tx.Exec(`UPDATE tables SET status = ? WHERE id = ?`, status, tableID)
	return err
}
