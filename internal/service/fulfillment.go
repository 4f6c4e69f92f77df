package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/notify"
	"github.com/confaro/confaro-api/internal/repository"
)

// FulfillmentService turns a purchase into its paid, materialized form:
// it flips the paid flag, issues one physical ticket per unit of quantity
// and sends the buyer a confirmation.
//
// Pay performs no already-paid check of its own; callers must not invoke
// it twice for the same purchase.
type FulfillmentService struct {
	purchases repository.PurchaseStore
	notifier  notify.Notifier
}

func NewFulfillmentService(purchases repository.PurchaseStore, notifier notify.Notifier) *FulfillmentService {
	return &FulfillmentService{
		purchases: purchases,
		notifier:  notifier,
	}
}

// Pay fulfills the purchase against the service's own store.
func (s *FulfillmentService) Pay(ctx context.Context, purchase domain.TicketPurchase, payment *domain.Payment) (domain.TicketPurchase, error) {
	return s.PayIn(ctx, s.purchases, purchase, payment)
}

// PayIn fulfills the purchase against an explicit store, so the purchase
// engine can run fulfillment inside its own transaction. The physical
// tickets are created in a sub-transaction of their own (a savepoint when
// nested); the window between marking paid and issuing tickets is a known
// partial-failure gap.
func (s *FulfillmentService) PayIn(ctx context.Context, store repository.PurchaseStore, purchase domain.TicketPurchase, payment *domain.Payment) (domain.TicketPurchase, error) {
	var paymentID *uint
	if payment != nil && payment.ID != 0 {
		id := payment.ID
		paymentID = &id
	}

	if err := store.MarkPaid(ctx, purchase.ID, paymentID); err != nil {
		return domain.TicketPurchase{}, fmt.Errorf("store.MarkPaid -> %w", err)
	}
	purchase.Paid = true
	purchase.PaymentID = paymentID

	tickets := make([]domain.PhysicalTicket, purchase.Quantity)
	for i := range tickets {
		token := uuid.NewString()
		tickets[i] = domain.PhysicalTicket{
			TicketPurchaseID: purchase.ID,
			Token:            token,
			QRCode:           encodeCheckInQR(token),
		}
	}
	if err := store.CreatePhysicalTickets(ctx, tickets); err != nil {
		return domain.TicketPurchase{}, fmt.Errorf("store.CreatePhysicalTickets -> %w", err)
	}

	s.dispatchConfirmation(purchase)

	return purchase, nil
}

// dispatchConfirmation sends the confirmation without blocking the caller.
func (s *FulfillmentService) dispatchConfirmation(purchase domain.TicketPurchase) {
	go func() {
		if err := s.notifier.TicketConfirmation(purchase); err != nil {
			zap.L().Error("failed to send ticket confirmation",
				zap.Uint("purchase_id", purchase.ID),
				zap.Error(err),
			)
		}
	}()
}

// encodeCheckInQR renders the check-in code scanned at the venue.
func encodeCheckInQR(token string) string {
	png, err := qrcode.Encode(token, qrcode.Medium, 256)
	if err != nil {
		// A malformed token is the only way Encode fails; tokens are UUIDs.
		zap.L().Warn("failed to encode check-in QR", zap.Error(err))
		return ""
	}

	return base64.StdEncoding.EncodeToString(png)
}
