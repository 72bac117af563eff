package models

import (
	"database/sql"
	"errors"
)

// TablePlayer is one seat at a table. TotalPoints accumulates round deltas at
// settlement; a player whose total reaches the table's disqualify score is
// flagged and excluded from the next deal.
type TablePlayer struct {
	TableID       int64   `json:"table_id"`
	UserID        int64   `json:"user_id"`
	Username      string  `json:"username"`
	Seat          int64   `json:"seat"`
	TotalPoints   int64   `json:"total_points"`
	Disqualified  bool    `json:"disqualified"`
	IsBot         bool    `json:"is_bot"`
	BotDifficulty *string `json:"bot_difficulty,omitempty"`
}

func AddTablePlayerTx(tx *sql.Tx, tableID, userID, maxPlayers int64, isBot bool, botDifficulty *string) (int64, error) {
	if maxPlayers <= 0 {
		return 0, errors.New("invalid max_players")
	}
	// Single insert attempt; a unique seat collision aborts the transaction
	// in SQLite, so retries belong to the caller with a fresh tx.
	res, err := tx.Exec(
		`INSERT INTO table_players(table_id, user_id, seat, is_bot, bot_difficulty)
		 SELECT ?, ?, COALESCE(MAX(seat), -1) + 1, ?, ?
		 FROM table_players WHERE table_id = ?
		 HAVING COALESCE(MAX(seat), -1) + 1 < ?`,
		tableID, userID, boolToInt(isBot), botDifficulty, tableID, maxPlayers,
	)
	if err != nil {
		return 0, err
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if ra == 0 {
		return 0, ErrTableFull
	}
	var seat int64
	if err := tx.QueryRow(`SELECT seat FROM table_players WHERE table_id = ? AND user_id = ?`, tableID, userID).Scan(&seat); err != nil {
		return 0, err
	}
	return seat, nil
}

func ListTablePlayers(db *sql.DB, tableID int64) ([]TablePlayer, error) {
	rows, err := db.Query(
		`SELECT tp.table_id, tp.user_id, u.username, tp.seat, tp.total_points, tp.disqualified, tp.is_bot, tp.bot_difficulty
		 FROM table_players tp JOIN users u ON u.id = tp.user_id
		 WHERE tp.table_id = ?
		 ORDER BY tp.seat`,
		tableID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TablePlayer
	for rows.Next() {
		var p TablePlayer
		var dq int64
		var bot int64
		if err := rows.Scan(&p.TableID, &p.UserID, &p.Username, &p.Seat, &p.TotalPoints, &dq, &bot, &p.BotDifficulty); err != nil {
			return nil, err
		}
		p.Disqualified = dq != 0
		p.IsBot = bot != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

func GetTablePlayer(db *sql.DB, tableID, userID int64) (*TablePlayer, error) {
	var p TablePlayer
	var dq, bot int64
	err := db.QueryRow(
		`SELECT tp.table_id, tp.user_id, u.username, tp.seat, tp.total_points, tp.disqualified, tp.is_bot, tp.bot_difficulty
		 FROM table_players tp JOIN users u ON u.id = tp.user_id
		 WHERE tp.table_id = ? AND tp.user_id = ?`,
		tableID, userID,
	).Scan(&p.TableID, &p.UserID, &p.Username, &p.Seat, &p.TotalPoints, &dq, &bot, &p.BotDifficulty)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotAtTable
	}
	if err != nil {
		return nil, err
	}
	p.Disqualified = dq != 0
	p.IsBot = bot != 0
	return &p, nil
}

// AddPointsTx adds a settlement delta to a seat's cumulative total.
func AddPointsTx(tx *sql.Tx, tableID, userID int64, delta int64) error {
	_, err := tx.Exec(
		`UPDATE table_players SET total_points = total_points + ? WHERE table_id = ? AND user_id = ?`,
		delta, tableID, userID,
	)
	return err
}

// MarkDisqualifiedTx flags every seat at or past the threshold, returning how
// many were newly flagged.
func MarkDisqualifiedTx(tx *sql.Tx, tableID, threshold int64) (int64, error) {
	res, err := tx.Exec(
		`UPDATE table_players SET disqualified = 1
		 WHERE table_id = ? AND disqualified = 0 AND total_points >= ?`,
		tableID, threshold,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
