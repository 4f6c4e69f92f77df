package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/confaro/confaro-api/internal/currency"
)

type Conference struct {
	ID         uint          `json:"id"`
	ShortTitle string        `json:"short_title"`
	Title      string        `json:"title"`
	Currency   currency.Code `json:"currency"`
	StartDate  time.Time     `json:"start_date"`
	EndDate    time.Time     `json:"end_date"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// CurrencyConversion is one directional exchange rate of a conference.
// At most one rate exists per (conference, from, to).
type CurrencyConversion struct {
	ID           uint            `json:"id"`
	ConferenceID uint            `json:"conference_id"`
	FromCurrency currency.Code   `json:"from_currency"`
	ToCurrency   currency.Code   `json:"to_currency"`
	Rate         decimal.Decimal `json:"rate"`
}

// Registration ties a user to a conference as an attendee.
type Registration struct {
	ID           uint      `json:"id"`
	ConferenceID uint      `json:"conference_id"`
	UserID       uint      `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}
