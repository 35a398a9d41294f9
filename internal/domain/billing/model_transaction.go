package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction records one completed Stripe checkout. StripeID is the only
// guard against recording the same checkout twice.
type Transaction struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	StripeID  string    `gorm:"not null;uniqueIndex:idx_transactions_stripe_id" json:"stripeId"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Plan      string    `json:"plan"`
	Credits   int       `json:"credits"`
	BuyerID   string    `gorm:"index" json:"buyer"`
	CreatedAt time.Time `json:"createdAt"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	return nil
}

// AmountFromMinor converts a processor amount in minor units (cents) to
// currency units.
func AmountFromMinor(minor int64) float64 {
	return float64(minor) / 100.0
}
