package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/AchyuthKolli/rummy-multiplayerai/internal/game/rummy"
	"github.com/AchyuthKolli/rummy-multiplayerai/internal/models"
	"github.com/AchyuthKolli/rummy-multiplayerai/internal/tracing"

	"github.com/gin-gonic/gin"
)

type moveRequest struct {
	Type  string     `json:"type"` // draw_stock|draw_discard|discard|lock|drop|declare
	Card  string     `json:"card,omitempty"`
	Cards []string   `json:"cards,omitempty"` // lock group
	Melds [][]string `json:"melds,omitempty"` // declare partition
}

type moveResponse struct {
	Move         string      `json:"move"`
	Drawn        *rummy.Card `json:"drawn,omitempty"`
	LockAccepted *bool       `json:"lock_accepted,omitempty"`
	State        roundView   `json:"state"`
}

func GetRoundHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.GetRoundHandler")
		defer span.End()

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		tableID, err := tableIDParam(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table id"})
			return
		}

		row, r, err := latestRound(db, tableID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, buildRoundView(row, r, seatID(userID)))
	}
}

func MoveHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.MoveHandler")
		defer span.End()

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		tableID, err := tableIDParam(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table id"})
			return
		}

		var req moveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeAPIError(c, models.ErrInvalidJSON)
			return
		}

		resp, err := ApplyMove(db, tableID, userID, req)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func RoundMovesHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.RoundMovesHandler")
		defer span.End()

		tableID, err := tableIDParam(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table id"})
			return
		}
		row, err := models.GetLatestRound(db, tableID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		moves, err := models.ListRoundMoves(db, row.ID, 500)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"round_id": row.ID, "moves": moves})
	}
}

// SettleHandler retries settlement for a finished round. The normal path
// settles inside the finishing move's transaction, so this usually just
// reports the existing ledger entries; it only writes when that transaction
// was lost before commit.
func SettleHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.SettleHandler")
		defer span.End()

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		tableID, err := tableIDParam(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table id"})
			return
		}

		unlock := defaultTableManager.lock(tableID)
		defer unlock()

		row, r, err := latestRound(db, tableID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		if !r.Finished {
			writeAPIError(c, models.ErrRoundNotFinished)
			return
		}

		settled := false
		if !r.Accumulated {
			logMove := models.RoundMove{RoundID: row.ID, PlayerID: userID, MoveType: "settle"}
			if err := persistMove(db, tableID, row, r, logMove); err != nil {
				writeAPIError(c, err)
				return
			}
			settled = true
			broadcastTableUpdate(db, tableID)
		}

		entries, err := models.ListScoreEntriesByRound(db, row.ID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"round_id": row.ID,
			"settled":  settled,
			"entries":  entries,
		})
	}
}

// NextRoundHandler deals the next round once the previous one has settled.
// The seat order rotates by one each round so the deal advantage moves.
func NextRoundHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.NextRoundHandler")
		defer span.End()

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		tableID, err := tableIDParam(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table id"})
			return
		}

		unlock := defaultTableManager.lock(tableID)
		defer unlock()

		t, err := models.GetTableByID(db, tableID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		if t.Status == "finished" {
			writeAPIError(c, models.ErrTableFinished)
			return
		}
		if _, err := models.GetTablePlayer(db, tableID, userID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				writeAPIError(c, models.ErrPlayerNotAtTable)
				return
			}
			writeAPIError(c, err)
			return
		}

		_, prevRound, err := latestRound(db, tableID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		if !prevRound.Finished {
			writeAPIError(c, models.ErrRoundNotFinished)
			return
		}

		players, err := models.ListTablePlayers(db, tableID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		var seats []string
		for _, p := range players {
			if !p.Disqualified {
				seats = append(seats, seatID(p.UserID))
			}
		}
		if len(seats) < 2 {
			writeAPIError(c, models.ErrNotEnoughActivePlayers)
			return
		}

		number := prevRound.Number + 1
		rotate := (number - 1) % len(seats)
		seats = append(seats[rotate:], seats[:rotate]...)

		round, err := rummy.NewRound(number, seats, tableRules(t), nil)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		stateJSON, err := encodeRound(round)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		row, err := models.CreateRound(db, tableID, int64(number), stateJSON)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		broadcastTableUpdate(db, tableID)
		runBotTurnsLocked(db, tableID)

		c.JSON(http.StatusCreated, buildRoundView(row, round, seatID(userID)))
	}
}

// ApplyMove validates and applies one move for a seated player, persists the
// new snapshot, and drives any bot turns the move unblocked. All moves for a
// table serialize through the table lock.
func ApplyMove(db *sql.DB, tableID, userID int64, req moveRequest) (*moveResponse, error) {
	unlock := defaultTableManager.lock(tableID)
	defer unlock()

	if at, err := models.IsUserAtTable(db, userID, tableID); err != nil {
		return nil, err
	} else if !at {
		return nil, models.ErrPlayerNotAtTable
	}

	resp, err := applyMoveLocked(db, tableID, userID, req)
	if err != nil {
		return nil, err
	}
	runBotTurnsLocked(db, tableID)
	return resp, nil
}

func applyMoveLocked(db *sql.DB, tableID, userID int64, req moveRequest) (*moveResponse, error) {
	row, r, err := latestRound(db, tableID)
	if err != nil {
		return nil, err
	}

	seat := seatID(userID)
	resp := &moveResponse{Move: req.Type}
	logMove := models.RoundMove{RoundID: row.ID, PlayerID: userID, MoveType: req.Type}

	switch req.Type {
	case "draw_stock":
		drawn, err := r.DrawStock(seat)
		if err != nil {
			return nil, err
		}
		resp.Drawn = &drawn

	case "draw_discard":
		drawn, err := r.DrawDiscard(seat)
		if err != nil {
			return nil, err
		}
		resp.Drawn = &drawn
		s := drawn.String()
		logMove.Card = &s

	case "discard":
		card, err := rummy.ParseCard(req.Card)
		if err != nil {
			return nil, models.ErrInvalidCard
		}
		if err := r.DiscardCard(seat, card); err != nil {
			return nil, err
		}
		s := card.String()
		logMove.Card = &s

	case "lock":
		group, err := rummy.ParseCards(req.Cards)
		if err != nil {
			return nil, models.ErrInvalidCard
		}
		accepted, err := r.LockSequence(seat, group)
		if err != nil {
			return nil, err
		}
		resp.LockAccepted = &accepted
		if detail, err := json.Marshal(req.Cards); err == nil {
			d := string(detail)
			logMove.Detail = &d
		}

	case "drop":
		if err := r.Drop(seat); err != nil {
			return nil, err
		}

	case "declare":
		groups := make([][]rummy.Card, 0, len(req.Melds))
		for _, g := range req.Melds {
			cards, err := rummy.ParseCards(g)
			if err != nil {
				return nil, models.ErrInvalidCard
			}
			groups = append(groups, cards)
		}
		if err := r.Declare(seat, groups); err != nil {
			return nil, err
		}
		// The audit row keeps the classified layout, not the raw strings.
		if detail, err := json.Marshal(r.DeclaredMelds); err == nil {
			d := string(detail)
			logMove.Detail = &d
		}

	default:
		return nil, models.ErrUnknownMoveType
	}

	if err := persistMove(db, tableID, row, r, logMove); err != nil {
		return nil, err
	}

	broadcastTableUpdate(db, tableID)
	resp.State = buildRoundView(row, r, seat)
	return resp, nil
}

// persistMove writes the mutated snapshot, the move audit row, and, when the
// move ended the round, the settlement, all in one transaction.
func persistMove(db *sql.DB, tableID int64, row *models.RoundRow, r *rummy.Round, logMove models.RoundMove) error {
	var settlement map[string]int
	if r.Finished && !r.Accumulated {
		scores, ok, err := r.TakeSettlement()
		if err != nil {
			return err
		}
		if ok {
			settlement = scores
		}
	}

	stateJSON, err := encodeRound(r)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := models.UpdateRoundStateTx(tx, row.ID, stateJSON, r.Finished); err != nil {
		return err
	}
	if err := models.InsertRoundMoveTx(tx, logMove); err != nil {
		return err
	}

	if settlement != nil {
		if err := settleRoundTx(tx, tableID, row.ID, r, settlement); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	row.StateJSON = stateJSON
	row.Finished = r.Finished
	return nil
}

// settleRoundTx posts per-round deltas to the cumulative ledger exactly once.
// The engine's Accumulated flag, the rounds.accumulated column, and the
// UNIQUE(round_id, user_id) constraint on score_entries each independently
// block double-posting.
func settleRoundTx(tx *sql.Tx, tableID, roundID int64, r *rummy.Round, scores map[string]int) error {
	ok, err := models.MarkRoundAccumulatedTx(tx, roundID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	for _, seat := range r.Seats {
		uid, valid := userIDFromSeat(seat)
		if !valid {
			return models.ErrInvalidPlayer
		}
		pts := scores[seat]
		if err := models.InsertScoreEntryTx(tx, roundID, uid, int64(pts)); err != nil {
			return err
		}
		if err := models.AddPointsTx(tx, tableID, uid, int64(pts)); err != nil {
			return err
		}
		if err := models.IncrementUserStatsTx(tx, uid, seat == r.Winner); err != nil {
			return err
		}
	}

	threshold := int64(r.Rules.DisqualifyScore)
	if _, err := models.MarkDisqualifiedTx(tx, tableID, threshold); err != nil {
		return err
	}

	var eligible int64
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM table_players WHERE table_id = ? AND disqualified = 0`,
		tableID,
	).Scan(&eligible)
	if err != nil {
		return err
	}
	if eligible < 2 {
		return models.SetTableStatusTx(tx, tableID, "finished")
	}
	return nil
}

// errBotStranded marks a bot turn with no legal action left: both piles
// empty and folding barred by the two-player floor. The round stays open
// for a human move.
var errBotStranded = errors.New("bot has no legal action")

// runBotTurnsLocked plays bot turns until a human is up or the round ends.
// Caller must hold the table lock. The iteration cap bounds pathological
// rounds where bots cycle without ever declaring.
func runBotTurnsLocked(db *sql.DB, tableID int64) {
	for turns := 0; turns < 200; turns++ {
		row, r, err := latestRound(db, tableID)
		if err != nil || r.Finished {
			return
		}
		uid, ok := userIDFromSeat(r.ActivePlayer)
		if !ok {
			return
		}
		p, err := models.GetTablePlayer(db, tableID, uid)
		if err != nil || !p.IsBot {
			return
		}
		difficulty := rummy.BotMedium
		if p.BotDifficulty != nil {
			difficulty = rummy.BotDifficulty(*p.BotDifficulty)
		}
		if err := playBotTurn(db, tableID, row, r, uid, difficulty); err != nil {
			if errors.Is(err, errBotStranded) {
				log.Printf("bot stranded, waiting on humans: table_id=%d user_id=%d", tableID, uid)
			} else {
				log.Printf("bot turn failed: table_id=%d user_id=%d err=%v", tableID, uid, err)
			}
			return
		}
	}
	log.Printf("bot turn cap reached: table_id=%d", tableID)
}

func playBotTurn(db *sql.DB, tableID int64, row *models.RoundRow, r *rummy.Round, botID int64, difficulty rummy.BotDifficulty) error {
	seat := seatID(botID)

	// Lock a pure sequence as soon as one exists; revealing the wild joker
	// only ever helps.
	if !r.HasRevealed(seat) {
		if group, found := rummy.ChooseLock(r, seat); found {
			if _, err := r.LockSequence(seat, group); err == nil {
				move := models.RoundMove{RoundID: row.ID, PlayerID: botID, MoveType: "lock"}
				if err := persistMove(db, tableID, row, r, move); err != nil {
					return err
				}
			}
		}
	}

	plan := rummy.ChooseMove(r, seat, difficulty)

	var drawn rummy.Card
	var err error
	moveType := "draw_stock"
	if plan.DrawFromDiscard {
		moveType = "draw_discard"
		drawn, err = r.DrawDiscard(seat)
	} else {
		drawn, err = r.DrawStock(seat)
		if errors.Is(err, models.ErrStockEmpty) {
			moveType = "draw_discard"
			drawn, err = r.DrawDiscard(seat)
		}
	}
	if err != nil {
		// No pile to draw from; fold if the round can spare the seat.
		if dropErr := r.Drop(seat); dropErr != nil {
			return errBotStranded
		}
		move := models.RoundMove{RoundID: row.ID, PlayerID: botID, MoveType: "drop"}
		if err := persistMove(db, tableID, row, r, move); err != nil {
			return err
		}
		broadcastTableUpdate(db, tableID)
		return nil
	}
	drawnStr := drawn.String()
	move := models.RoundMove{RoundID: row.ID, PlayerID: botID, MoveType: moveType}
	if moveType == "draw_discard" {
		move.Card = &drawnStr
	}
	if err := persistMove(db, tableID, row, r, move); err != nil {
		return err
	}

	finishPlan := rummy.ChooseDiscard(r, seat, difficulty)
	if len(finishPlan.Declare) > 0 {
		if err := r.Declare(seat, finishPlan.Declare); err != nil {
			return err
		}
		move = models.RoundMove{RoundID: row.ID, PlayerID: botID, MoveType: "declare"}
		if detail, err := json.Marshal(r.DeclaredMelds); err == nil {
			d := string(detail)
			move.Detail = &d
		}
	} else {
		if err := r.DiscardCard(seat, finishPlan.Discard); err != nil {
			return err
		}
		cardStr := finishPlan.Discard.String()
		move = models.RoundMove{RoundID: row.ID, PlayerID: botID, MoveType: "discard", Card: &cardStr}
	}
	if err := persistMove(db, tableID, row, r, move); err != nil {
		return err
	}

	broadcastTableUpdate(db, tableID)
	return nil
}
