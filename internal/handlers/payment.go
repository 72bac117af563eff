package handlers

import (
	"errors"
	"net/http"

	"github.com/AchyuthKolli/rummy-multiplayerai/internal/services"
	"github.com/AchyuthKolli/rummy-multiplayerai/internal/tracing"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc *services.PaymentService
}

func NewPaymentHandler(svc *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Packages lists the purchasable chip bundles.
// GET /api/payments/packages
func (h *PaymentHandler) Packages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packages": h.svc.Packages()})
}

// Purchase opens a pending chip purchase and returns the Stripe client
// secret the frontend needs to confirm the payment.
// POST /api/payments/purchase
func (h *PaymentHandler) Purchase(c *gin.Context) {
	_, span := tracing.StartSpan(c.Request.Context(), "handlers.PaymentPurchase")
	defer span.End()

	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		PackageID string `json:"package_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	purchase, clientSecret, err := h.svc.StartPurchase(userID, req.PackageID)
	if err != nil {
		if errors.Is(err, services.ErrInvalidChipPackage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown chip package"})
			return
		}
		if errors.Is(err, services.ErrPaymentsDisabled) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "payments are not configured"})
			return
		}
		writeAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"purchase":      purchase,
		"client_secret": clientSecret,
	})
}

// Webhook receives Stripe events. Chips are credited on
// payment_intent.succeeded, exactly once per purchase.
// POST /api/payments/webhook
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	if err := h.svc.HandleWebhook(payload, c.GetHeader("Stripe-Signature")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook rejected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
