package models

import (
	"database/sql"
	"errors"
	"time"
)

// ChipPurchase is one chip top-up bought through Stripe. The idempotency key
// is generated server-side per checkout attempt so a retried webhook or a
// double-submitted form can never credit chips twice.
type ChipPurchase struct {
	ID                    int64      `json:"id"`
	UserID                int64      `json:"user_id"`
	Chips                 int64      `json:"chips"`
	AmountCents           int64      `json:"amount_cents"`
	Currency              string     `json:"currency"`
	Status                string     `json:"status"` // pending|succeeded|failed
	StripePaymentIntentID *string    `json:"stripe_payment_intent_id,omitempty"`
	IdempotencyKey        string     `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
}

func CreateChipPurchase(db *sql.DB, userID, chips, amountCents int64, currency, idempotencyKey string) (*ChipPurchase, error) {
	res, err := db.Exec(
		`INSERT INTO chip_purchases(user_id, chips, amount_cents, currency, status, idempotency_key)
		 VALUES (?, ?, ?, ?, 'pending', ?)`,
		userID, chips, amountCents, currency, idempotencyKey,
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return GetChipPurchaseByID(db, id)
}

func GetChipPurchaseByID(db *sql.DB, id int64) (*ChipPurchase, error) {
	return scanChipPurchase(db.QueryRow(
		`SELECT id, user_id, chips, amount_cents, currency, status, stripe_payment_intent_id, idempotency_key, created_at, completed_at
		 FROM chip_purchases WHERE id = ?`, id))
}

func GetChipPurchaseByIntent(db *sql.DB, paymentIntentID string) (*ChipPurchase, error) {
	return scanChipPurchase(db.QueryRow(
		`SELECT id, user_id, chips, amount_cents, currency, status, stripe_payment_intent_id, idempotency_key, created_at, completed_at
		 FROM chip_purchases WHERE stripe_payment_intent_id = ?`, paymentIntentID))
}

func scanChipPurchase(row *sql.Row) (*ChipPurchase, error) {
	var p ChipPurchase
	var intent sql.NullString
	var completed sql.NullTime
	err := row.Scan(&p.ID, &p.UserID, &p.Chips, &p.AmountCents, &p.Currency, &p.Status,
		&intent, &p.IdempotencyKey, &p.CreatedAt, &completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if intent.Valid {
		v := intent.String
		p.StripePaymentIntentID = &v
	}
	if completed.Valid {
		v := completed.Time
		p.CompletedAt = &v
	}
	return &p, nil
}

func SetChipPurchaseIntent(db *sql.DB, id int64, paymentIntentID string) error {
	_, err := db.Exec(`UPDATE chip_purchases SET stripe_payment_intent_id = ? WHERE id = ?`, paymentIntentID, id)
	return err
}

// CompleteChipPurchaseTx marks a purchase succeeded exactly once; ok=false
// means it was already completed (or failed) and no chips may be credited.
func CompleteChipPurchaseTx(tx *sql.Tx, id int64) (bool, error) {
	res, err := tx.Exec(
		`UPDATE chip_purchases SET status = 'succeeded', completed_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'pending'`,
		id,
	)
	if err != nil {
		return false, err
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return ra > 0, nil
}

func FailChipPurchase(db *sql.DB, id int64) error {
	_, err := db.Exec(`UPDATE chip_purchases SET status = 'failed' WHERE id = ? AND status = 'pending'`, id)
	return err
}
