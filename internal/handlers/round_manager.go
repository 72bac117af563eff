package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/AchyuthKolli/rummy-multiplayerai/internal/game/rummy"
	"github.com/AchyuthKolli/rummy-multiplayerai/internal/models"
)

// tableManager serializes moves per table. The DB snapshot is authoritative;
// the manager only hands out the lock that keeps load-mutate-persist cycles
// from interleaving.
type tableManager struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newTableManager() *tableManager {
	return &tableManager{locks: map[int64]*sync.Mutex{}}
}

func (m *tableManager) lock(tableID int64) func() {
	m.mu.Lock()
	l, ok := m.locks[tableID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[tableID] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

var defaultTableManager = newTableManager()

func loadRound(row *models.RoundRow) (*rummy.Round, error) {
	if row == nil || strings.TrimSpace(row.StateJSON) == "" {
		return nil, models.ErrRoundStateMissing
	}
	var r rummy.Round
	if err := json.Unmarshal([]byte(row.StateJSON), &r); err != nil {
		return nil, fmt.Errorf("decode round %d state: %w", row.ID, err)
	}
	return &r, nil
}

func latestRound(db *sql.DB, tableID int64) (*models.RoundRow, *rummy.Round, error) {
	row, err := models.GetLatestRound(db, tableID)
	if err != nil {
		return nil, nil, err
	}
	r, err := loadRound(row)
	if err != nil {
		return nil, nil, err
	}
	return row, r, nil
}

func encodeRound(r *rummy.Round) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encode round state: %w", err)
	}
	return string(b), nil
}
