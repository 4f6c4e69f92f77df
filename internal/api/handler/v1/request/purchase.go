package request

import (
	"errors"
	"strconv"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/confaro/confaro-api/internal/currency"
)

var errInvalidCurrency = errors.New("must be a supported currency code")

// leadingInteger mirrors how lenient ticket forms are parsed: an optional
// sign followed by digits at the start of the value counts, anything else
// is zero.
var leadingInteger = regexp2.MustCompile(`^[+-]?\d+`, regexp2.None)

type PurchaseTicketsRequest struct {
	Currency string `json:"currency"`
	// Tickets maps ticket IDs to requested quantities, both string-encoded
	// as submitted by the ticket selection form.
	Tickets map[string]string `json:"tickets"`
}

func (req *PurchaseTicketsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Currency, validation.Required, validation.By(validCurrency)),
		validation.Field(&req.Tickets, validation.Required),
	)
}

// Quantities decodes the submitted ticket map. Unparseable IDs are dropped,
// unparseable quantities default to 0.
func (req *PurchaseTicketsRequest) Quantities() map[uint]int {
	quantities := make(map[uint]int, len(req.Tickets))
	for rawID, rawQuantity := range req.Tickets {
		id, err := strconv.ParseUint(rawID, 10, 64)
		if err != nil {
			continue
		}

		quantities[uint(id)] = permissiveInt(rawQuantity)
	}

	return quantities
}

func permissiveInt(s string) int {
	match, err := leadingInteger.FindStringMatch(s)
	if err != nil || match == nil {
		return 0
	}

	n, err := strconv.Atoi(match.String())
	if err != nil {
		return 0
	}

	return n
}

func validCurrency(value interface{}) error {
	code, _ := value.(string)
	if !currency.IsValid(currency.Code(code)) {
		return errInvalidCurrency
	}

	return nil
}
