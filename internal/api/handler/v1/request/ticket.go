package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

var (
	errInvalidPrice  = errors.New("must be a decimal number")
	errNegativePrice = errors.New("must not be negative")
)

type CreateTicketRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Price              string `json:"price"`
	PriceCurrency      string `json:"price_currency"`
	RegistrationTicket bool   `json:"registration_ticket"`
	Visible            bool   `json:"visible"`
}

func (req *CreateTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Price, validation.Required, validation.By(nonNegativeDecimal)),
		validation.Field(&req.PriceCurrency, validation.Required, validation.By(validCurrency)),
	)
}

func (req *CreateTicketRequest) PriceDecimal() decimal.Decimal {
	price, _ := decimal.NewFromString(req.Price)
	return price
}

type UpdateTicketRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	Price              string `json:"price"`
	PriceCurrency      string `json:"price_currency"`
	RegistrationTicket bool   `json:"registration_ticket"`
	Visible            bool   `json:"visible"`
}

func (req *UpdateTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Price, validation.Required, validation.By(nonNegativeDecimal)),
		validation.Field(&req.PriceCurrency, validation.Required, validation.By(validCurrency)),
	)
}

func (req *UpdateTicketRequest) PriceDecimal() decimal.Decimal {
	price, _ := decimal.NewFromString(req.Price)
	return price
}

func nonNegativeDecimal(value interface{}) error {
	s, _ := value.(string)

	price, err := decimal.NewFromString(s)
	if err != nil {
		return errInvalidPrice
	}
	if price.IsNegative() {
		return errNegativePrice
	}

	return nil
}
