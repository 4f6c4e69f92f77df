package currency

import (
	"github.com/shopspring/decimal"
)

// Code is an ISO 4217 currency code.
type Code string

// ValidCurrencies are the currencies a conference may price tickets in.
var ValidCurrencies = []Code{"AUD", "CAD", "CHF", "CNY", "EUR", "GBP", "JPY", "USD"}

// exponents holds the minor-unit exponent for currencies that deviate
// from the usual two decimal places.
var exponents = map[Code]int32{
	"JPY": 0,
}

func IsValid(code Code) bool {
	for _, c := range ValidCurrencies {
		if c == code {
			return true
		}
	}

	return false
}

func Exponent(code Code) int32 {
	if exp, ok := exponents[code]; ok {
		return exp
	}

	return 2
}

// Money is an amount in a concrete currency.
type Money struct {
	Amount   decimal.Decimal
	Currency Code
}

func NewMoney(amount decimal.Decimal, code Code) Money {
	return Money{Amount: amount, Currency: code}
}

// Cents returns the amount in the currency's minor unit, rounded half up.
func (m Money) Cents() int64 {
	return m.Amount.Shift(Exponent(m.Currency)).Round(0).IntPart()
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Invalid reports whether m is the conversion failure sentinel.
// Converted amounts are never negative for valid inputs.
func (m Money) Invalid() bool {
	return m.Amount.IsNegative()
}

// invalidAmount is the sentinel returned when no conversion rate is on file.
func invalidAmount() Money {
	return Money{Amount: decimal.NewFromInt(-1), Currency: "USD"}
}
