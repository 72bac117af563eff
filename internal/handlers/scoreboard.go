package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/AchyuthKolli/rummy-multiplayerai/internal/models"
	"github.com/AchyuthKolli/rummy-multiplayerai/internal/tracing"

	"github.com/gin-gonic/gin"
)

func LeaderboardHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.LeaderboardHandler")
		defer span.End()

		rows, err := models.ListLeaderboard(db, 50)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": rows})
	}
}

// RoundScoresHandler returns the settled ledger entries for a round.
func RoundScoresHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.RoundScoresHandler")
		defer span.End()

		roundID, err := strconv.ParseInt(c.Param("roundId"), 10, 64)
		if err != nil || roundID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid round id"})
			return
		}
		if _, err := models.GetRoundByID(db, roundID); err != nil {
			writeAPIError(c, err)
			return
		}
		entries, err := models.ListScoreEntriesByRound(db, roundID)
		if err != nil {
			writeAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"round_id": roundID, "entries": entries})
	}
}

func UserStatsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, span := tracing.StartSpan(c.Request.Context(), "handlers.UserStatsHandler")
		defer span.End()

		userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
		if err != nil || userID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		u, err := models.GetUserByID(db, userID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id":      u.ID,
			"username":     u.Username,
			"games_played": u.GamesPlayed,
			"games_won":    u.GamesWon,
			"chips":        u.Chips,
		})
	}
}
