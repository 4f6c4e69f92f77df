package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/confaro/confaro-api/internal/currency"
)

// Ticket is a purchasable ticket definition of one conference.
// Hidden tickets never show up in purchase listings. A registration ticket
// entitles its holder to the conference registration itself, so a user may
// hold at most one of them per conference.
type Ticket struct {
	ID                 uint            `json:"id"`
	ConferenceID       uint            `json:"conference_id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Price              decimal.Decimal `json:"price"`
	PriceCurrency      currency.Code   `json:"price_currency"`
	RegistrationTicket bool            `json:"registration_ticket"`
	Visible            bool            `json:"visible"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func (t Ticket) PriceMoney() currency.Money {
	return currency.NewMoney(t.Price, t.PriceCurrency)
}
