package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateConversionRequest_Validate(t *testing.T) {
	valid := CreateConversionRequest{FromCurrency: "EUR", ToCurrency: "USD", Rate: "1.1"}
	assert.NoError(t, valid.Validate())

	badCode := CreateConversionRequest{FromCurrency: "EURO", ToCurrency: "USD", Rate: "1.1"}
	err := badCode.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be a supported currency code")

	badRate := CreateConversionRequest{FromCurrency: "EUR", ToCurrency: "USD", Rate: "fast"}
	err = badRate.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be a decimal number")

	zeroRate := CreateConversionRequest{FromCurrency: "EUR", ToCurrency: "USD", Rate: "0"}
	err = zeroRate.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be greater than zero")
}
