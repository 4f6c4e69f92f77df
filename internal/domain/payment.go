package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/confaro/confaro-api/internal/currency"
)

type PaymentStatus string

const (
	PaymentUnprocessed PaymentStatus = "unprocessed"
	PaymentSucceeded   PaymentStatus = "succeeded"
	PaymentFailed      PaymentStatus = "failed"
)

// Payment records that funds were received outside the system. A gifted
// ticket references no payment at all or a placeholder zero-amount one.
type Payment struct {
	ID           uint            `json:"id"`
	UserID       uint            `json:"user_id"`
	ConferenceID uint            `json:"conference_id"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     currency.Code   `json:"currency"`
	Reference    string          `json:"reference"`
	Status       PaymentStatus   `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}
