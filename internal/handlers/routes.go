package handlers

import (
	"database/sql"

	"github.com/AchyuthKolli/rummy-multiplayerai/internal/config"
	"github.com/AchyuthKolli/rummy-multiplayerai/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterAuthRoutes(rg *gin.RouterGroup, db *sql.DB, cfg config.Config) {
	rg.POST("/auth/register", RegisterHandler(db, cfg))
	rg.POST("/auth/login", LoginHandler(db, cfg))
	rg.GET("/auth/me", MeHandler(db, cfg))
	rg.POST("/auth/logout", LogoutHandler(cfg))
}

func RegisterTableRoutes(rg *gin.RouterGroup, db *sql.DB) {
	rg.GET("/tables", ListTablesHandler(db))
	rg.POST("/tables", CreateTableHandler(db))
	rg.GET("/tables/:id", GetTableHandler(db))
	rg.POST("/tables/:id/join", JoinTableHandler(db))
	rg.POST("/tables/:id/add_bot", AddBotHandler(db))
	rg.POST("/tables/:id/start", StartTableHandler(db))

	rg.GET("/tables/:id/round", GetRoundHandler(db))
	rg.GET("/tables/:id/round/moves", RoundMovesHandler(db))
	rg.POST("/tables/:id/move", MoveHandler(db))
	rg.POST("/tables/:id/settle", SettleHandler(db))
	rg.POST("/tables/:id/next_round", NextRoundHandler(db))

	rg.GET("/rounds/:roundId/scores", RoundScoresHandler(db))
	rg.GET("/leaderboard", LeaderboardHandler(db))
	rg.GET("/users/:userId/stats", UserStatsHandler(db))
}

// RegisterPaymentRoutes wires the chip purchase endpoints. The webhook is
// registered outside the auth group; Stripe signs it instead.
func RegisterPaymentRoutes(rg *gin.RouterGroup, webhooks *gin.RouterGroup, svc *services.PaymentService) {
	h := NewPaymentHandler(svc)
	rg.GET("/payments/packages", h.Packages)
	rg.POST("/payments/purchase", h.Purchase)
	webhooks.POST("/payments/webhook", h.Webhook)
}
