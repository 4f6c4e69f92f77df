package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/confaro/confaro-api/internal/currency"
)

// TicketPurchase is one user's claim on a quantity of one ticket type
// within one conference. It is created unpaid and transitions to paid
// exactly once; an unpaid purchase is replaced, not duplicated, by a
// later purchase attempt for the same ticket.
type TicketPurchase struct {
	ID              uint            `json:"id"`
	TicketID        uint            `json:"ticket_id"`
	UserID          uint            `json:"user_id"`
	ConferenceID    uint            `json:"conference_id"`
	Quantity        int             `json:"quantity"`
	Currency        currency.Code   `json:"currency"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	AmountPaidCents int64           `json:"amount_paid_cents"`
	Paid            bool            `json:"paid"`
	PaymentID       *uint           `json:"payment_id"`
	ForRegistration bool            `json:"for_registration"`
	Week            int             `json:"week"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PhysicalTicket is one fulfilled unit of a paid purchase's quantity.
type PhysicalTicket struct {
	ID               uint      `json:"id"`
	TicketPurchaseID uint      `json:"ticket_purchase_id"`
	Token            string    `json:"token"`
	QRCode           string    `json:"qr_code"`
	CreatedAt        time.Time `json:"created_at"`
}

// WeekOfYear is the Monday-based week number of t, in 0..53. Days before
// the year's first Monday fall into week 0 (strftime %W numbering; purchase
// rows store the week they were created in).
func WeekOfYear(t time.Time) int {
	monday := (int(t.Weekday()) + 6) % 7

	return (t.YearDay() + 6 - monday) / 7
}
