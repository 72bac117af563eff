package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func userIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get("userID")
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// seatID is the engine-side player identifier for a user. Round snapshots key
// hands and scores by this string.
func seatID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func userIDFromSeat(seat string) (int64, bool) {
	n, err := strconv.ParseInt(seat, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
