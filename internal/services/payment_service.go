package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/AchyuthKolli/rummy-multiplayerai/internal/models"
)

var (
	ErrInvalidChipPackage = errors.New("invalid chip package")
	ErrPaymentsDisabled   = errors.New("payments are not configured")
)

// ChipPackage is a fixed chips-for-money bundle. Packages are defined in code
// rather than the database; they change rarely and a mismatch between price
// and chips credited would be a real money bug.
type ChipPackage struct {
	ID          string `json:"id"`
	Chips       int64  `json:"chips"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

var chipPackages = []ChipPackage{
	{ID: "starter", Chips: 500, AmountCents: 499, Currency: "usd"},
	{ID: "regular", Chips: 1200, AmountCents: 999, Currency: "usd"},
	{ID: "high_roller", Chips: 3000, AmountCents: 1999, Currency: "usd"},
}

type PaymentService struct {
	db            *sql.DB
	webhookSecret string
	enabled       bool
}

func NewPaymentService(db *sql.DB, stripeSecretKey, webhookSecret string) *PaymentService {
	if stripeSecretKey != "" {
		stripe.Key = stripeSecretKey
	}
	return &PaymentService{
		db:            db,
		webhookSecret: webhookSecret,
		enabled:       stripeSecretKey != "",
	}
}

func (s *PaymentService) Packages() []ChipPackage {
	return chipPackages
}

func packageByID(id string) (ChipPackage, bool) {
	for _, p := range chipPackages {
		if p.ID == id {
			return p, true
		}
	}
	return ChipPackage{}, false
}

// StartPurchase records a pending purchase and opens a Stripe PaymentIntent
// for it. The client confirms the intent with the returned secret; chips are
// only credited when the webhook reports success.
func (s *PaymentService) StartPurchase(userID int64, packageID string) (*models.ChipPurchase, string, error) {
	if !s.enabled {
		return nil, "", ErrPaymentsDisabled
	}
	pkg, ok := packageByID(packageID)
	if !ok {
		return nil, "", ErrInvalidChipPackage
	}

	purchase, err := models.CreateChipPurchase(s.db, userID, pkg.Chips, pkg.AmountCents, pkg.Currency, uuid.NewString())
	if err != nil {
		return nil, "", fmt.Errorf("create purchase: %w", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(pkg.AmountCents),
		Currency: stripe.String(pkg.Currency),
		Metadata: map[string]string{
			"purchase_id": fmt.Sprintf("%d", purchase.ID),
			"user_id":     fmt.Sprintf("%d", userID),
			"chip_pkg":    pkg.ID,
		},
	}
	params.SetIdempotencyKey(purchase.IdempotencyKey)
	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, "", fmt.Errorf("stripe intent: %w", err)
	}
	if err := models.SetChipPurchaseIntent(s.db, purchase.ID, intent.ID); err != nil {
		return nil, "", err
	}
	return purchase, intent.ClientSecret, nil
}

// HandleWebhook verifies and applies a Stripe event. Crediting is guarded by
// the purchase's pending->succeeded transition, so replayed events are no-ops.
func (s *PaymentService) HandleWebhook(payload []byte, signature string) error {
	if !s.enabled {
		return ErrPaymentsDisabled
	}
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return fmt.Errorf("webhook signature: %w", err)
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return s.creditPurchase(event.GetObjectValue("id"))
	case "payment_intent.payment_failed":
		p, err := models.GetChipPurchaseByIntent(s.db, event.GetObjectValue("id"))
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return models.FailChipPurchase(s.db, p.ID)
	default:
		// Unhandled event types are acknowledged so Stripe stops retrying.
		return nil
	}
}

func (s *PaymentService) creditPurchase(paymentIntentID string) error {
	p, err := models.GetChipPurchaseByIntent(s.db, paymentIntentID)
	if errors.Is(err, models.ErrNotFound) {
		log.Printf("payment: succeeded intent %s has no purchase row", paymentIntentID)
		return nil
	}
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	ok, err := models.CompleteChipPurchaseTx(tx, p.ID)
	if err != nil {
		return err
	}
	if !ok {
		// Already settled by an earlier delivery of the same event.
		return nil
	}
	if err := models.AddChipsTx(tx, p.UserID, p.Chips); err != nil {
		return err
	}
	return tx.Commit()
}
