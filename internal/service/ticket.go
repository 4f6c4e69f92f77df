package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/confaro/confaro-api/internal/currency"
	"github.com/confaro/confaro-api/internal/domain"
)

var ErrInvalidCurrency = errors.New("unsupported currency code")

type TicketRepository interface {
	Create(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	Update(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Ticket, error)
	FindByConference(ctx context.Context, conferenceID uint) ([]domain.Ticket, error)
	FindVisibleByConference(ctx context.Context, conferenceID uint) ([]domain.Ticket, error)
}

// TicketService manages a conference's catalog of purchasable tickets.
type TicketService struct {
	repo TicketRepository
}

func NewTicketService(repo TicketRepository) *TicketService {
	return &TicketService{
		repo: repo,
	}
}

func (s *TicketService) CreateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	if !currency.IsValid(ticket.PriceCurrency) {
		return domain.Ticket{}, ErrInvalidCurrency
	}

	created, err := s.repo.Create(ctx, ticket)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *TicketService) UpdateTicket(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	if !currency.IsValid(ticket.PriceCurrency) {
		return domain.Ticket{}, ErrInvalidCurrency
	}

	updated, err := s.repo.Update(ctx, ticket)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// DeleteTicket destroys a ticket definition. Whether purchases still
// reference it is the admin's call to verify beforehand.
func (s *TicketService) DeleteTicket(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *TicketService) GetTicket(ctx context.Context, id uint) (domain.Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return ticket, nil
}

func (s *TicketService) GetTickets(ctx context.Context, conferenceID uint) ([]domain.Ticket, error) {
	tickets, err := s.repo.FindByConference(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByConference -> %w", err)
	}

	return tickets, nil
}

// GetVisibleTickets lists what purchasers are offered.
func (s *TicketService) GetVisibleTickets(ctx context.Context, conferenceID uint) ([]domain.Ticket, error) {
	tickets, err := s.repo.FindVisibleByConference(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindVisibleByConference -> %w", err)
	}

	return tickets, nil
}
