package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/confaro/confaro-api/internal/currency"
	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/repository"
)

var (
	ErrPurchaseNotFound            = repository.ErrPurchaseNotFound
	ErrInvalidQuantity             = repository.ErrInvalidQuantity
	ErrRegistrationTicketQuantity  = repository.ErrRegistrationTicketQuantity
	ErrDuplicateRegistrationTicket = repository.ErrDuplicateRegistrationTicket
	ErrTicketNotFound              = repository.ErrTicketNotFound
)

// MsgTooManyRegistrationTickets aborts a purchase before any writes happen.
const MsgTooManyRegistrationTickets = "cannot buy more than one registration ticket"

// TicketCatalog is the slice of the ticket repository the engine needs.
type TicketCatalog interface {
	FindVisibleByConference(ctx context.Context, conferenceID uint) ([]domain.Ticket, error)
	FindRegistrationTickets(ctx context.Context, conferenceID uint) ([]domain.Ticket, error)
}

// RateSource yields a conference's exchange rate table.
type RateSource interface {
	RateTable(ctx context.Context, conferenceID uint) (currency.RateTable, error)
}

// Fulfiller pays and materializes a purchase, optionally inside the
// caller's transaction-scoped store.
type Fulfiller interface {
	Pay(ctx context.Context, purchase domain.TicketPurchase, payment *domain.Payment) (domain.TicketPurchase, error)
	PayIn(ctx context.Context, store repository.PurchaseStore, purchase domain.TicketPurchase, payment *domain.Payment) (domain.TicketPurchase, error)
}

// PurchaseService orchestrates one user's attempt to buy or update a set
// of tickets for a conference in a single atomic run.
type PurchaseService struct {
	purchases   repository.PurchaseStore
	tickets     TicketCatalog
	rates       RateSource
	fulfillment Fulfiller
	now         func() time.Time
}

func NewPurchaseService(purchases repository.PurchaseStore, tickets TicketCatalog, rates RateSource, fulfillment Fulfiller) *PurchaseService {
	return &PurchaseService{
		purchases:   purchases,
		tickets:     tickets,
		rates:       rates,
		fulfillment: fulfillment,
		now:         time.Now,
	}
}

// Purchase walks every visible ticket of the conference and reconciles it
// with the requested quantities (absent tickets count as zero):
//
//   - an existing unpaid purchase of the ticket has its quantity updated in
//     place when a positive quantity is requested; a requested zero leaves
//     the stale unpaid row untouched,
//   - otherwise a positive quantity creates a new unpaid purchase priced by
//     converting the ticket's listed price into the requested currency; a
//     conversion with no rate on file fails that line, and a converted
//     amount of exactly zero pays the purchase immediately with no payment
//     record.
//
// All writes happen in one transaction. The returned string aggregates the
// per-line validation failures, "". meaning success; requesting more than
// one registration ticket unit aborts before any write. Infrastructure
// failures come back as the error and roll everything back.
func (s *PurchaseService) Purchase(ctx context.Context, conference domain.Conference, user domain.User, desired map[uint]int, code currency.Code) (string, error) {
	registrationTickets, err := s.tickets.FindRegistrationTickets(ctx, conference.ID)
	if err != nil {
		return "", fmt.Errorf("s.tickets.FindRegistrationTickets -> %w", err)
	}

	requested := 0
	for _, ticket := range registrationTickets {
		requested += desired[ticket.ID]
	}
	if requested > 1 {
		return MsgTooManyRegistrationTickets, nil
	}

	visible, err := s.tickets.FindVisibleByConference(ctx, conference.ID)
	if err != nil {
		return "", fmt.Errorf("s.tickets.FindVisibleByConference -> %w", err)
	}

	table, err := s.rates.RateTable(ctx, conference.ID)
	if err != nil {
		return "", fmt.Errorf("s.rates.RateTable -> %w", err)
	}

	var lineErrors []string
	err = s.purchases.Transaction(ctx, func(store repository.PurchaseStore) error {
		for _, ticket := range visible {
			quantity := desired[ticket.ID]

			existing, err := store.FindUnpaid(ctx, conference.ID, ticket.ID, user.ID)
			switch {
			case err == nil:
				if quantity <= 0 {
					// The stale unpaid row stays; a zero request is not a deletion.
					continue
				}
				if err := store.UpdateQuantity(ctx, existing.ID, quantity); err != nil {
					if msg, ok := validationMessage(err, ticket); ok {
						lineErrors = append(lineErrors, msg)
						continue
					}
					return err
				}

			case errors.Is(err, repository.ErrPurchaseNotFound):
				if quantity <= 0 {
					continue
				}
				msg, err := s.purchaseTicket(ctx, store, conference, user, ticket, quantity, code, table)
				if err != nil {
					return err
				}
				if msg != "" {
					lineErrors = append(lineErrors, msg)
				}

			default:
				return err
			}
		}

		return nil
	})
	if err != nil {
		return "", err
	}

	return strings.Join(lineErrors, ". "), nil
}

// purchaseTicket creates one new purchase line. A non-empty message is a
// per-line validation failure to collect; a non-nil error aborts and rolls
// back the whole run.
func (s *PurchaseService) purchaseTicket(ctx context.Context, store repository.PurchaseStore, conference domain.Conference, user domain.User, ticket domain.Ticket, quantity int, code currency.Code, table currency.RateTable) (string, error) {
	converted := currency.Convert(table, ticket.Price, ticket.PriceCurrency, code)
	if converted.Invalid() {
		return fmt.Sprintf("no conversion rate from %v to %v for ticket %q", ticket.PriceCurrency, code, ticket.Title), nil
	}

	createdAt := s.now()
	purchase := domain.TicketPurchase{
		TicketID:        ticket.ID,
		UserID:          user.ID,
		ConferenceID:    conference.ID,
		Quantity:        quantity,
		Currency:        code,
		AmountPaid:      converted.Amount,
		AmountPaidCents: converted.Cents(),
		ForRegistration: ticket.RegistrationTicket,
		Week:            domain.WeekOfYear(createdAt),
		CreatedAt:       createdAt,
	}

	created, err := store.Create(ctx, purchase)
	if err != nil {
		if msg, ok := validationMessage(err, ticket); ok {
			return msg, nil
		}
		return "", err
	}

	if converted.IsZero() {
		if _, err := s.fulfillment.PayIn(ctx, store, created, nil); err != nil {
			return "", err
		}
	}

	return "", nil
}

// validationMessage translates a row-level validation failure into the
// human-readable form collected by the engine.
func validationMessage(err error, ticket domain.Ticket) (string, bool) {
	switch {
	case errors.Is(err, repository.ErrRegistrationTicketQuantity):
		return fmt.Sprintf("quantity cannot be greater than one for registration ticket %q", ticket.Title), true
	case errors.Is(err, repository.ErrDuplicateRegistrationTicket):
		return fmt.Sprintf("a registration ticket for the conference is already held, cannot buy %q", ticket.Title), true
	case errors.Is(err, repository.ErrInvalidQuantity):
		return fmt.Sprintf("quantity must be greater than zero for ticket %q", ticket.Title), true
	default:
		return "", false
	}
}

// ListUnpaid returns the user's pending purchases for a conference.
func (s *PurchaseService) ListUnpaid(ctx context.Context, conferenceID, userID uint) ([]domain.TicketPurchase, error) {
	purchases, err := s.purchases.FindUnpaidByUser(ctx, conferenceID, userID)
	if err != nil {
		return nil, fmt.Errorf("s.purchases.FindUnpaidByUser -> %w", err)
	}

	return purchases, nil
}

// RemovePurchase deletes a purchase administratively.
func (s *PurchaseService) RemovePurchase(ctx context.Context, id uint) (domain.TicketPurchase, error) {
	purchase, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		return domain.TicketPurchase{}, fmt.Errorf("s.purchases.FindByID -> %w", err)
	}

	if err := s.purchases.Delete(ctx, id); err != nil {
		return domain.TicketPurchase{}, fmt.Errorf("s.purchases.Delete -> %w", err)
	}

	return purchase, nil
}
