package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/repository"
)

var (
	ErrPaymentNotFound           = repository.ErrPaymentNotFound
	ErrNothingToPay              = errors.New("no unpaid purchases to pay for")
	ErrMixedCurrencies           = errors.New("pending purchases span multiple currencies, pay them separately")
	ErrPaymentConferenceMismatch = errors.New("payment does not belong to the conference")
)

type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	FindByID(ctx context.Context, id uint) (domain.Payment, error)
	MarkSucceeded(ctx context.Context, id uint, reference string) error
}

// PaymentService handles the external payment callback. The gateway
// integration itself lives elsewhere; this only records that a payment
// occurred and fulfills what it covers.
type PaymentService struct {
	payments    PaymentRepository
	purchases   repository.PurchaseStore
	fulfillment Fulfiller
}

func NewPaymentService(payments PaymentRepository, purchases repository.PurchaseStore, fulfillment Fulfiller) *PaymentService {
	return &PaymentService{
		payments:    payments,
		purchases:   purchases,
		fulfillment: fulfillment,
	}
}

// Start opens an unprocessed payment covering the user's pending purchases
// in the conference. The returned record is what the gateway callback later
// confirms; its amount is the per-unit prices times quantities.
func (s *PaymentService) Start(ctx context.Context, conference domain.Conference, user domain.User) (domain.Payment, error) {
	unpaid, err := s.purchases.FindUnpaidByUser(ctx, conference.ID, user.ID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.purchases.FindUnpaidByUser -> %w", err)
	}
	if len(unpaid) == 0 {
		return domain.Payment{}, ErrNothingToPay
	}

	total := decimal.Zero
	for _, purchase := range unpaid {
		if purchase.Currency != unpaid[0].Currency {
			return domain.Payment{}, ErrMixedCurrencies
		}
		total = total.Add(purchase.AmountPaid.Mul(decimal.NewFromInt(int64(purchase.Quantity))))
	}

	payment, err := s.payments.Create(ctx, domain.Payment{
		UserID:       user.ID,
		ConferenceID: conference.ID,
		Amount:       total,
		Currency:     unpaid[0].Currency,
		Status:       domain.PaymentUnprocessed,
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.payments.Create -> %w", err)
	}

	return payment, nil
}

// Confirm marks the payment succeeded and pays the payer's pending
// purchases in the conference. Only unpaid rows are fulfilled, which is
// the caller-side guard against double materialization.
func (s *PaymentService) Confirm(ctx context.Context, conference domain.Conference, paymentID uint, reference string) (int, error) {
	payment, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return 0, fmt.Errorf("s.payments.FindByID -> %w", err)
	}
	if payment.ConferenceID != conference.ID {
		return 0, ErrPaymentConferenceMismatch
	}

	if err := s.payments.MarkSucceeded(ctx, payment.ID, reference); err != nil {
		return 0, fmt.Errorf("s.payments.MarkSucceeded -> %w", err)
	}
	payment.Status = domain.PaymentSucceeded

	unpaid, err := s.purchases.FindUnpaidByUser(ctx, conference.ID, payment.UserID)
	if err != nil {
		return 0, fmt.Errorf("s.purchases.FindUnpaidByUser -> %w", err)
	}

	fulfilled := 0
	for _, purchase := range unpaid {
		if _, err := s.fulfillment.Pay(ctx, purchase, &payment); err != nil {
			return fulfilled, fmt.Errorf("s.fulfillment.Pay -> %w", err)
		}
		fulfilled++
	}

	return fulfilled, nil
}
