package repository

import (
	"context"
	"fmt"

	"github.com/confaro/confaro-api/internal/currency"
	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/repository/dao"
)

var (
	ErrPurchaseNotFound            = dao.ErrPurchaseNotFound
	ErrInvalidQuantity             = dao.ErrInvalidQuantity
	ErrRegistrationTicketQuantity  = dao.ErrRegistrationTicketQuantity
	ErrDuplicateRegistrationTicket = dao.ErrDuplicateRegistrationTicket
	ErrDuplicateUnpaidPurchase     = dao.ErrDuplicateUnpaidPurchase
)

// PurchaseStore is the purchase persistence surface the services work
// against. Transaction hands fn a store whose writes commit or roll back
// as one unit, so a whole purchase run is all-or-nothing.
type PurchaseStore interface {
	Transaction(ctx context.Context, fn func(store PurchaseStore) error) error
	Create(ctx context.Context, purchase domain.TicketPurchase) (domain.TicketPurchase, error)
	UpdateQuantity(ctx context.Context, id uint, quantity int) error
	FindByID(ctx context.Context, id uint) (domain.TicketPurchase, error)
	FindUnpaid(ctx context.Context, conferenceID, ticketID, userID uint) (domain.TicketPurchase, error)
	FindUnpaidByUser(ctx context.Context, conferenceID, userID uint) ([]domain.TicketPurchase, error)
	Delete(ctx context.Context, id uint) error
	DeleteUnpaidForTickets(ctx context.Context, conferenceID, userID uint, ticketIDs []uint) (int, error)
	MarkPaid(ctx context.Context, id uint, paymentID *uint) error
	CreatePhysicalTickets(ctx context.Context, tickets []domain.PhysicalTicket) error
	FindPhysicalTickets(ctx context.Context, purchaseID uint) ([]domain.PhysicalTicket, error)
}

type PurchaseDAO interface {
	Transaction(ctx context.Context, fn func(txDAO *dao.TicketPurchaseDAO) error) error
	Insert(ctx context.Context, purchase dao.TicketPurchase) (dao.TicketPurchase, error)
	UpdateQuantity(ctx context.Context, id uint, quantity int) error
	FindByID(ctx context.Context, id uint) (dao.TicketPurchase, error)
	FindUnpaid(ctx context.Context, conferenceID, ticketID, userID uint) (dao.TicketPurchase, error)
	FindUnpaidByUser(ctx context.Context, conferenceID, userID uint) ([]dao.TicketPurchase, error)
	Delete(ctx context.Context, id uint) error
	DeleteUnpaidForTickets(ctx context.Context, conferenceID, userID uint, ticketIDs []uint) (int64, error)
	MarkPaid(ctx context.Context, id uint, paymentID *uint) error
	InsertPhysicalTickets(ctx context.Context, tickets []dao.PhysicalTicket) error
	FindPhysicalTickets(ctx context.Context, purchaseID uint) ([]dao.PhysicalTicket, error)
}

type PurchaseRepository struct {
	dao PurchaseDAO
}

func NewPurchaseRepository(purchaseDAO PurchaseDAO) *PurchaseRepository {
	return &PurchaseRepository{
		dao: purchaseDAO,
	}
}

var _ PurchaseStore = (*PurchaseRepository)(nil)

func (r *PurchaseRepository) domainToDao(p domain.TicketPurchase) dao.TicketPurchase {
	return dao.TicketPurchase{
		ID:              p.ID,
		TicketID:        p.TicketID,
		UserID:          p.UserID,
		ConferenceID:    p.ConferenceID,
		Quantity:        p.Quantity,
		Currency:        string(p.Currency),
		AmountPaid:      p.AmountPaid,
		AmountPaidCents: p.AmountPaidCents,
		Paid:            p.Paid,
		PaymentID:       p.PaymentID,
		ForRegistration: p.ForRegistration,
		Week:            p.Week,
		CreatedAt:       p.CreatedAt,
	}
}

func (r *PurchaseRepository) daoToDomain(p dao.TicketPurchase) domain.TicketPurchase {
	return domain.TicketPurchase{
		ID:              p.ID,
		TicketID:        p.TicketID,
		UserID:          p.UserID,
		ConferenceID:    p.ConferenceID,
		Quantity:        p.Quantity,
		Currency:        currency.Code(p.Currency),
		AmountPaid:      p.AmountPaid,
		AmountPaidCents: p.AmountPaidCents,
		Paid:            p.Paid,
		PaymentID:       p.PaymentID,
		ForRegistration: p.ForRegistration,
		Week:            p.Week,
		CreatedAt:       p.CreatedAt,
	}
}

func (r *PurchaseRepository) physicalDaoToDomain(t dao.PhysicalTicket) domain.PhysicalTicket {
	return domain.PhysicalTicket{
		ID:               t.ID,
		TicketPurchaseID: t.TicketPurchaseID,
		Token:            t.Token,
		QRCode:           t.QRCode,
		CreatedAt:        t.CreatedAt,
	}
}

func (r *PurchaseRepository) Transaction(ctx context.Context, fn func(store PurchaseStore) error) error {
	return r.dao.Transaction(ctx, func(txDAO *dao.TicketPurchaseDAO) error {
		return fn(NewPurchaseRepository(txDAO))
	})
}

func (r *PurchaseRepository) Create(ctx context.Context, purchase domain.TicketPurchase) (domain.TicketPurchase, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(purchase))
	if err != nil {
		return domain.TicketPurchase{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PurchaseRepository) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	if err := r.dao.UpdateQuantity(ctx, id, quantity); err != nil {
		return fmt.Errorf("r.dao.UpdateQuantity -> %w", err)
	}

	return nil
}

func (r *PurchaseRepository) FindByID(ctx context.Context, id uint) (domain.TicketPurchase, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.TicketPurchase{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PurchaseRepository) FindUnpaid(ctx context.Context, conferenceID, ticketID, userID uint) (domain.TicketPurchase, error) {
	found, err := r.dao.FindUnpaid(ctx, conferenceID, ticketID, userID)
	if err != nil {
		return domain.TicketPurchase{}, fmt.Errorf("r.dao.FindUnpaid -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PurchaseRepository) FindUnpaidByUser(ctx context.Context, conferenceID, userID uint) ([]domain.TicketPurchase, error) {
	found, err := r.dao.FindUnpaidByUser(ctx, conferenceID, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindUnpaidByUser -> %w", err)
	}

	purchases := make([]domain.TicketPurchase, len(found))
	for i, p := range found {
		purchases[i] = r.daoToDomain(p)
	}

	return purchases, nil
}

func (r *PurchaseRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PurchaseRepository) DeleteUnpaidForTickets(ctx context.Context, conferenceID, userID uint, ticketIDs []uint) (int, error) {
	removed, err := r.dao.DeleteUnpaidForTickets(ctx, conferenceID, userID, ticketIDs)
	if err != nil {
		return 0, fmt.Errorf("r.dao.DeleteUnpaidForTickets -> %w", err)
	}

	return int(removed), nil
}

func (r *PurchaseRepository) MarkPaid(ctx context.Context, id uint, paymentID *uint) error {
	if err := r.dao.MarkPaid(ctx, id, paymentID); err != nil {
		return fmt.Errorf("r.dao.MarkPaid -> %w", err)
	}

	return nil
}

func (r *PurchaseRepository) CreatePhysicalTickets(ctx context.Context, tickets []domain.PhysicalTicket) error {
	daoTickets := make([]dao.PhysicalTicket, len(tickets))
	for i, t := range tickets {
		daoTickets[i] = dao.PhysicalTicket{
			TicketPurchaseID: t.TicketPurchaseID,
			Token:            t.Token,
			QRCode:           t.QRCode,
		}
	}

	if err := r.dao.InsertPhysicalTickets(ctx, daoTickets); err != nil {
		return fmt.Errorf("r.dao.InsertPhysicalTickets -> %w", err)
	}

	return nil
}

func (r *PurchaseRepository) FindPhysicalTickets(ctx context.Context, purchaseID uint) ([]domain.PhysicalTicket, error) {
	found, err := r.dao.FindPhysicalTickets(ctx, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPhysicalTickets -> %w", err)
	}

	tickets := make([]domain.PhysicalTicket, len(found))
	for i, t := range found {
		tickets[i] = r.physicalDaoToDomain(t)
	}

	return tickets, nil
}
