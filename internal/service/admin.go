package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/repository"
)

// Registrar registers a user as a conference attendee. A failure means the
// registration could not be completed automatically and the recipient has
// to register manually.
type Registrar interface {
	RegisterUser(ctx context.Context, conference domain.Conference, user domain.User) (domain.Registration, error)
}

// AdminTicketService is the administrative override path around the normal
// purchase flow: issue a ticket to a user for free.
type AdminTicketService struct {
	purchases   repository.PurchaseStore
	tickets     TicketCatalog
	registrar   Registrar
	fulfillment Fulfiller
	now         func() time.Time
}

func NewAdminTicketService(purchases repository.PurchaseStore, tickets TicketCatalog, registrar Registrar, fulfillment Fulfiller) *AdminTicketService {
	return &AdminTicketService{
		purchases:   purchases,
		tickets:     tickets,
		registrar:   registrar,
		fulfillment: fulfillment,
		now:         time.Now,
	}
}

type GiveResult struct {
	Purchase      domain.TicketPurchase
	RemovedUnpaid int
	Registered    bool
}

// Give issues the ticket to the recipient as a paid, zero-amount purchase
// in the conference's primary currency. Competing unpaid purchases of the
// conference's registration tickets are destroyed first and their count
// reported.
//
// The destroy commits before the save: if the save then fails, the
// removals stay removed. That ordering mirrors the established admin
// behavior; wrapping both into one transaction would be a strict
// improvement but changes what admins observe on failure.
func (s *AdminTicketService) Give(ctx context.Context, conference domain.Conference, ticket domain.Ticket, recipient domain.User) (GiveResult, error) {
	registrationTickets, err := s.tickets.FindRegistrationTickets(ctx, conference.ID)
	if err != nil {
		return GiveResult{}, fmt.Errorf("s.tickets.FindRegistrationTickets -> %w", err)
	}

	ticketIDs := make([]uint, len(registrationTickets))
	for i, t := range registrationTickets {
		ticketIDs[i] = t.ID
	}

	removed, err := s.purchases.DeleteUnpaidForTickets(ctx, conference.ID, recipient.ID, ticketIDs)
	if err != nil {
		return GiveResult{}, fmt.Errorf("s.purchases.DeleteUnpaidForTickets -> %w", err)
	}

	createdAt := s.now()
	purchase, err := s.purchases.Create(ctx, domain.TicketPurchase{
		TicketID:        ticket.ID,
		UserID:          recipient.ID,
		ConferenceID:    conference.ID,
		Quantity:        1,
		Currency:        conference.Currency,
		AmountPaid:      decimal.Zero,
		AmountPaidCents: 0,
		Paid:            true,
		ForRegistration: ticket.RegistrationTicket,
		Week:            domain.WeekOfYear(createdAt),
		CreatedAt:       createdAt,
	})
	if err != nil {
		return GiveResult{RemovedUnpaid: removed}, fmt.Errorf("s.purchases.Create -> %w", err)
	}

	// No money changed hands, so the placeholder payment is never persisted.
	paid, err := s.fulfillment.Pay(ctx, purchase, &domain.Payment{})
	if err != nil {
		return GiveResult{RemovedUnpaid: removed}, fmt.Errorf("s.fulfillment.Pay -> %w", err)
	}

	result := GiveResult{
		Purchase:      paid,
		RemovedUnpaid: removed,
	}

	if ticket.RegistrationTicket {
		if _, err := s.registrar.RegisterUser(ctx, conference, recipient); err != nil {
			// The gift stands; the recipient registers manually.
			zap.L().Warn("could not register gift recipient",
				zap.Uint("user_id", recipient.ID),
				zap.Uint("conference_id", conference.ID),
				zap.Error(err),
			)
		} else {
			result.Registered = true
		}
	}

	return result, nil
}
