package models

import (
	"database/sql"
	"time"
)

// ScoreEntry is one player's point delta for one settled round. The unique
// (round_id, user_id) constraint plus the rounds.accumulated flag make
// settlement idempotent even across racing requests.
type ScoreEntry struct {
	ID        int64     `json:"id"`
	RoundID   int64     `json:"round_id"`
	UserID    int64     `json:"user_id"`
	Points    int64     `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

func InsertScoreEntryTx(tx *sql.Tx, roundID, userID, points int64) error {
	_, err := tx.Exec(
		`INSERT INTO score_entries(round_id, user_id, points) VALUES (?, ?, ?)`,
		roundID, userID, points,
	)
	return err
}

func ListScoreEntriesByRound(db *sql.DB, roundID int64) ([]ScoreEntry, error) {
	rows, err := db.Query(
		`SELECT id, round_id, user_id, points, created_at FROM score_entries WHERE round_id = ? ORDER BY user_id`,
		roundID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		if err := rows.Scan(&e.ID, &e.RoundID, &e.UserID, &e.Points, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type LeaderboardRow struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	GamesPlayed int64  `json:"games_played"`
	GamesWon    int64  `json:"games_won"`
}

func ListLeaderboard(db *sql.DB, limit int64) ([]LeaderboardRow, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := db.Query(
		`SELECT id, username, games_played, games_won
		 FROM users
		 ORDER BY games_won DESC, games_played ASC, username
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardRow
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.GamesPlayed, &r.GamesWon); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func IncrementUserStatsTx(tx *sql.Tx, userID int64, won bool) error {
	wonDelta := int64(0)
	if won {
		wonDelta = 1
	}
	_, err := tx.Exec(
		`UPDATE users SET games_played = games_played + 1, games_won = games_won + ? WHERE id = ?`,
		wonDelta, userID,
	)
	return err
}
