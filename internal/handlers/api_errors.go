package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/AchyuthKolli/rummy-multiplayerai/internal/models"

	"github.com/gin-gonic/gin"
)

func writeAPIError(c *gin.Context, err error) {
	if err == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	// Known sentinel errors
	if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrTableNotFound) || errors.Is(err, sql.ErrNoRows) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	// Safe typed validation / permission / conflict errors (do NOT echo raw errors).
	switch {
	case errors.Is(err, models.ErrInvalidJSON):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	case errors.Is(err, models.ErrInvalidCard):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid card"})
		return
	case errors.Is(err, models.ErrNotAPlayer), errors.Is(err, models.ErrPlayerNotAtTable):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not a player"})
		return
	case errors.Is(err, models.ErrNotYourTurn):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "not your turn"})
		return
	case errors.Is(err, models.ErrWrongHandSize):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "wrong hand size for that move"})
		return
	case errors.Is(err, models.ErrStockEmpty):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "stock pile is empty"})
		return
	case errors.Is(err, models.ErrDiscardEmpty):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "discard pile is empty"})
		return
	case errors.Is(err, models.ErrCardNotInHand):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "card not in hand"})
		return
	case errors.Is(err, models.ErrInvalidPartitionSize):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "declare must cover exactly 13 cards"})
		return
	case errors.Is(err, models.ErrRoundAlreadyFinished):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "round already finished"})
		return
	case errors.Is(err, models.ErrRoundNotFinished):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "round not finished"})
		return
	case errors.Is(err, models.ErrNotEnoughActivePlayers):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "not enough active players"})
		return
	case errors.Is(err, models.ErrInvalidPlayer):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid player"})
		return
	case errors.Is(err, models.ErrUnknownMoveType):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown move type"})
		return
	case errors.Is(err, models.ErrTableFull):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "table is full"})
		return
	case errors.Is(err, models.ErrTableNotJoinable):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "table is not joinable"})
		return
	case errors.Is(err, models.ErrTableFinished):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "table is finished"})
		return
	case errors.Is(err, models.ErrInsufficientCards):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "not enough cards to deal"})
		return
	case errors.Is(err, models.ErrRoundStateMissing):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "round state unavailable"})
		return
	case errors.Is(err, models.ErrRoundStateConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "round state changed; retry"})
		return
	}

	// Unknown/internal errors: log details, return generic message.
	log.Printf("internal error: %v", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
