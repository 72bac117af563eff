package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/AchyuthKolli/rummy-multiplayerai/internal/auth"
	"github.com/AchyuthKolli/rummy-multiplayerai/internal/game/rummy"
	"github.com/AchyuthKolli/rummy-multiplayerai/internal/models"
	"github.com/AchyuthKolli/rummy-multiplayerai/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createTableRequest struct {
	Name            string `json:"name"`
	MaxPlayers      int64  `json:"max_players"`
	WildJokerMode   string `json:"wild_joker_mode"`
	AceValue        int64  `json:"ace_value"`
	DisqualifyScore int64  `json:"disqualify_score"`
}

func CreateTableHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.CreateTableHandler")
		defer span.End()

		userID, ok := userIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req createTableRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}

		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			req.Name = "rummy table"
		}
		if len(req.Name) > 64 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "table name must be 64 characters or less"})
			return
		}

		rules := rummy.DefaultRules(int(req.MaxPlayers))
		if req.WildJokerMode != "" {
			rules.WildJokerMode = rummy.WildJokerMode(req.WildJokerMode)
		}
		if req.AceValue != 0 {
			rules.AceValue = int(req.AceValue)
		}
		if req.DisqualifyScore != 0 {
			rules.DisqualifyScore = int(req.DisqualifyScore)
		}
		if !rules.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table rules"})
			return
		}

		t, err := models.CreateTable(db, req.Name, userID, int64(rules.MaxPlayers),
			string(rules.WildJokerMode), int64(rules.AceValue), int64(rules.DisqualifyScore))
		if err != nil {
			writeAPIError(c, err)
			return
		}

		// Seat the host immediately.
		tx, err := db.Begin()
		if err != nil {
			writeAPIError(c, err)
			return
		}
		if err := models.JoinTableTx(tx, t.ID); err != nil {
			_ = tx.Rollback()
			writeAPIError(c, err)
			return
		}
		if _, err := models.AddTablePlayerTx(tx, t.ID, userID, t.MaxPlayers, false, nil); err != nil {
			_ = tx.Rollback()
			writeAPIError(c, err)
			return
		}
		if err := tx.Commit(); err != nil {
			writeAPIError(c, err)
			return
		}

		t, err = models.GetTableByID(db, t.ID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"table": t})
	}
}

func ListTablesHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.ListTablesHandler")
		defer span.End()

		limit := int64(50)
		offset := int64(0)
		if v := strings.TrimSpace(c.Query("limit")); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}
		if v := strings.TrimSpace(c.Query("offset")); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
				return
			}
			offset = n
		}

		tables, err := models.ListTables(db, limit, offset)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tables": tables})
	}
}

func GetTableHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.GetTableHandler")
		defer span.End()

		tableID, err := tableIDParam(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table id"})
			return
		}
		snap, err := buildTableSnapshot(db, tableID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}

func JoinTableHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.JoinTableHandler")
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

		if _, err := models.GetTablePlayer(db, tableID, userID); err == nil {
			c.JSON(http.StatusOK, gin.H{"joined": true, "already_seated": true})
			return
		} else if !errors.Is(err, models.ErrNotFound) {
			writeAPIError(c, err)
			return
		}

		t, err := models.GetTableByID(db, tableID)
		if err != nil {
			writeAPIError(c, err)
			return
		}

		tx, err := db.Begin()
		if err != nil {
			writeAPIError(c, err)
			return
		}
		if err := models.JoinTableTx(tx, tableID); err != nil {
			_ = tx.Rollback()
			writeAPIError(c, err)
			return
		}
		if _, err := models.AddTablePlayerTx(tx, tableID, userID, t.MaxPlayers, false, nil); err != nil {
			_ = tx.Rollback()
			writeAPIError(c, err)
			return
		}
		if err := tx.Commit(); err != nil {
			writeAPIError(c, err)
			return
		}

		broadcastTableUpdate(db, tableID)
		c.JSON(http.StatusOK, gin.H{"joined": true})
	}
}

type addBotRequest struct {
	Difficulty string `json:"difficulty"`
}

func AddBotHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.AddBotHandler")
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

		var req addBotRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		difficulty := strings.TrimSpace(req.Difficulty)
		if difficulty == "" {
			difficulty = string(rummy.BotMedium)
		}
		switch rummy.BotDifficulty(difficulty) {
		case rummy.BotEasy, rummy.BotMedium, rummy.BotHard:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bot difficulty"})
			return
		}

		unlock := defaultTableManager.lock(tableID)
		defer unlock()

		t, err := models.GetTableByID(db, tableID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		if t.HostID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "only the host can add bots"})
			return
		}

		// Bots are regular user rows so seats, scores and moves share one schema.
		botName := fmt.Sprintf("bot-%s-%s", difficulty, uuid.NewString()[:8])
		botHash, err := auth.HashPassword(uuid.NewString())
		if err != nil {
			writeAPIError(c, err)
			return
		}
		bot, err := models.CreateUser(db, botName, botHash)
		if err != nil {
			writeAPIError(c, err)
			return
		}

		tx, err := db.Begin()
		if err != nil {
			writeAPIError(c, err)
			return
		}
		if err := models.JoinTableTx(tx, tableID); err != nil {
			_ = tx.Rollback()
			writeAPIError(c, err)
			return
		}
		if _, err := models.AddTablePlayerTx(tx, tableID, bot.ID, t.MaxPlayers, true, &difficulty); err != nil {
			_ = tx.Rollback()
			writeAPIError(c, err)
			return
		}
		if err := tx.Commit(); err != nil {
			writeAPIError(c, err)
			return
		}

		broadcastTableUpdate(db, tableID)
		c.JSON(http.StatusCreated, gin.H{"bot_user_id": bot.ID, "username": botName})
	}
}

// StartTableHandler deals the first round. Host only, table must still be
// waiting, and at least two players must be seated.
func StartTableHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.StartTableHandler")
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
		if t.HostID != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "only the host can start the table"})
			return
		}
		if t.Status != "waiting" {
			writeAPIError(c, models.ErrTableNotJoinable)
			return
		}

		players, err := models.ListTablePlayers(db, tableID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		if len(players) < 2 {
			writeAPIError(c, models.ErrNotEnoughActivePlayers)
			return
		}

		seats := make([]string, 0, len(players))
		for _, p := range players {
			seats = append(seats, seatID(p.UserID))
		}

		round, err := rummy.NewRound(1, seats, tableRules(t), nil)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		stateJSON, err := encodeRound(round)
		if err != nil {
			writeAPIError(c, err)
			return
		}

		row, err := models.CreateRound(db, tableID, 1, stateJSON)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		if err := models.SetTableStatus(db, tableID, "playing"); err != nil {
			writeAPIError(c, err)
			return
		}

		broadcastTableUpdate(db, tableID)
		runBotTurnsLocked(db, tableID)

		view := buildRoundView(row, round, seatID(userID))
		c.JSON(http.StatusCreated, view)
	}
}

func tableRules(t *models.Table) rummy.Rules {
	return rummy.Rules{
		WildJokerMode:   rummy.WildJokerMode(t.WildJokerMode),
		AceValue:        int(t.AceValue),
		DisqualifyScore: int(t.DisqualifyScore),
		MaxPlayers:      int(t.MaxPlayers),
		PrintedJokers:   true,
	}
}

func tableIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ErrTableNotFound
	}
	return id, nil
}
