package response

import (
	"github.com/confaro/confaro-api/internal/domain"
)

type ConversionResponse struct {
	ID           uint   `json:"id"`
	ConferenceID uint   `json:"conference_id"`
	FromCurrency string `json:"from_currency"`
	ToCurrency   string `json:"to_currency"`
	Rate         string `json:"rate"`
}

func NewConversionResponse(c *domain.CurrencyConversion) ConversionResponse {
	return ConversionResponse{
		ID:           c.ID,
		ConferenceID: c.ConferenceID,
		FromCurrency: string(c.FromCurrency),
		ToCurrency:   string(c.ToCurrency),
		Rate:         c.Rate.String(),
	}
}

func NewConversionsResponse(conversions []domain.CurrencyConversion) []ConversionResponse {
	out := make([]ConversionResponse, 0, len(conversions))
	for i := range conversions {
		out = append(out, NewConversionResponse(&conversions[i]))
	}

	return out
}
