package response

import (
	"time"

	"github.com/confaro/confaro-api/internal/domain"
)

type PurchaseResponse struct {
	ID              uint      `json:"id"`
	TicketID        uint      `json:"ticket_id"`
	ConferenceID    uint      `json:"conference_id"`
	Quantity        int       `json:"quantity"`
	Currency        string    `json:"currency"`
	AmountPaid      string    `json:"amount_paid"`
	AmountPaidCents int64     `json:"amount_paid_cents"`
	Paid            bool      `json:"paid"`
	Week            int       `json:"week"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewPurchaseResponse(p *domain.TicketPurchase) PurchaseResponse {
	return PurchaseResponse{
		ID:              p.ID,
		TicketID:        p.TicketID,
		ConferenceID:    p.ConferenceID,
		Quantity:        p.Quantity,
		Currency:        string(p.Currency),
		AmountPaid:      p.AmountPaid.String(),
		AmountPaidCents: p.AmountPaidCents,
		Paid:            p.Paid,
		Week:            p.Week,
		CreatedAt:       p.CreatedAt,
	}
}

type PurchaseTicketsResponse struct {
	Message   string             `json:"message"`
	Purchases []PurchaseResponse `json:"purchases"`
}

type PaymentResponse struct {
	ID           uint   `json:"id"`
	ConferenceID uint   `json:"conference_id"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

func NewPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:           p.ID,
		ConferenceID: p.ConferenceID,
		Amount:       p.Amount.String(),
		Currency:     string(p.Currency),
		Status:       string(p.Status),
	}
}

type ConfirmPaymentResponse struct {
	PaymentID uint   `json:"payment_id"`
	Status    string `json:"status"`
	Fulfilled int    `json:"fulfilled"`
}
