package currency

import (
	"github.com/shopspring/decimal"
)

// Pair is an ordered currency pair. Rates are directional:
// a stored (A, B) rate says nothing about (B, A).
type Pair struct {
	From Code
	To   Code
}

// RateTable holds the exchange rates of one conference. It is built from the
// conference's persisted conversion records and passed to Convert explicitly;
// there is no process-wide rate state.
type RateTable map[Pair]decimal.Decimal

// Convert exchanges amount from one currency into another using table.
//
// Identical currencies convert to the amount unchanged, whatever the table
// holds. A differing pair without a stored rate yields the invalid sentinel
// (a negative amount); callers must treat that as a hard failure, never as a
// zero price.
func Convert(table RateTable, amount decimal.Decimal, from, to Code) Money {
	if from == to {
		return Money{Amount: amount, Currency: to}
	}

	if rate, ok := table[Pair{From: from, To: to}]; ok {
		return Money{Amount: amount.Mul(rate), Currency: to}
	}

	return invalidAmount()
}
