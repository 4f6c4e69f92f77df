package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type GiveTicketRequest struct {
	UserID uint `json:"user_id"`
}

func (req *GiveTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.UserID, validation.Required),
	)
}

type ConfirmPaymentRequest struct {
	Reference string `json:"reference"`
}

func (req *ConfirmPaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Reference, validation.Required),
	)
}
