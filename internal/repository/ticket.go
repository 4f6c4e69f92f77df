package repository

import (
	"context"
	"fmt"

	"github.com/confaro/confaro-api/internal/currency"
	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/repository/dao"
)

var ErrTicketNotFound = dao.ErrTicketNotFound

type TicketDAO interface {
	Insert(ctx context.Context, ticket dao.Ticket) (dao.Ticket, error)
	Update(ctx context.Context, ticket dao.Ticket) (dao.Ticket, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Ticket, error)
	FindByConferenceID(ctx context.Context, conferenceID uint) ([]dao.Ticket, error)
	FindVisibleByConferenceID(ctx context.Context, conferenceID uint) ([]dao.Ticket, error)
	FindRegistrationTickets(ctx context.Context, conferenceID uint) ([]dao.Ticket, error)
}

type TicketRepository struct {
	dao TicketDAO
}

func NewTicketRepository(ticketDAO TicketDAO) *TicketRepository {
	return &TicketRepository{
		dao: ticketDAO,
	}
}

func (r *TicketRepository) domainToDao(t domain.Ticket) dao.Ticket {
	return dao.Ticket{
		ID:                 t.ID,
		ConferenceID:       t.ConferenceID,
		Title:              t.Title,
		Description:        t.Description,
		Price:              t.Price,
		PriceCurrency:      string(t.PriceCurrency),
		RegistrationTicket: t.RegistrationTicket,
		Visible:            t.Visible,
	}
}

func (r *TicketRepository) daoToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:                 t.ID,
		ConferenceID:       t.ConferenceID,
		Title:              t.Title,
		Description:        t.Description,
		Price:              t.Price,
		PriceCurrency:      currency.Code(t.PriceCurrency),
		RegistrationTicket: t.RegistrationTicket,
		Visible:            t.Visible,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func (r *TicketRepository) daosToDomain(tickets []dao.Ticket) []domain.Ticket {
	result := make([]domain.Ticket, len(tickets))
	for i, t := range tickets {
		result[i] = r.daoToDomain(t)
	}

	return result
}

func (r *TicketRepository) Create(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(ticket))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *TicketRepository) Update(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(ticket))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *TicketRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id uint) (domain.Ticket, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TicketRepository) FindByConference(ctx context.Context, conferenceID uint) ([]domain.Ticket, error) {
	found, err := r.dao.FindByConferenceID(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByConferenceID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *TicketRepository) FindVisibleByConference(ctx context.Context, conferenceID uint) ([]domain.Ticket, error) {
	found, err := r.dao.FindVisibleByConferenceID(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindVisibleByConferenceID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *TicketRepository) FindRegistrationTickets(ctx context.Context, conferenceID uint) ([]domain.Ticket, error) {
	found, err := r.dao.FindRegistrationTickets(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRegistrationTickets -> %w", err)
	}

	return r.daosToDomain(found), nil
}
