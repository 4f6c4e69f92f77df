package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"
)

var (
	errInvalidRate     = errors.New("must be a decimal number")
	errNonPositiveRate = errors.New("must be greater than zero")
)

type CreateConversionRequest struct {
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	Rate         string `json:"rate"`
}

func (req *CreateConversionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FromCurrency, validation.Required, validation.By(validCurrency)),
		validation.Field(&req.ToCurrency, validation.Required, validation.By(validCurrency)),
		validation.Field(&req.Rate, validation.Required, validation.By(positiveDecimal)),
	)
}

func (req *CreateConversionRequest) RateDecimal() decimal.Decimal {
	rate, _ := decimal.NewFromString(req.Rate)
	return rate
}

func positiveDecimal(value interface{}) error {
	s, _ := value.(string)

	rate, err := decimal.NewFromString(s)
	if err != nil {
		return errInvalidRate
	}
	if !rate.IsPositive() {
		return errNonPositiveRate
	}

	return nil
}
