package repository

import (
	"context"
	"fmt"

	"github.com/confaro/confaro-api/internal/currency"
	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/repository/dao"
)

var ErrPaymentNotFound = dao.ErrPaymentNotFound

type PaymentDAO interface {
	Insert(ctx context.Context, payment dao.Payment) (dao.Payment, error)
	FindByID(ctx context.Context, id uint) (dao.Payment, error)
	UpdateStatus(ctx context.Context, id uint, status, reference string) error
}

type PaymentRepository struct {
	dao PaymentDAO
}

func NewPaymentRepository(paymentDAO PaymentDAO) *PaymentRepository {
	return &PaymentRepository{
		dao: paymentDAO,
	}
}

func (r *PaymentRepository) daoToDomain(p dao.Payment) domain.Payment {
	return domain.Payment{
		ID:           p.ID,
		UserID:       p.UserID,
		ConferenceID: p.ConferenceID,
		Amount:       p.Amount,
		Currency:     currency.Code(p.Currency),
		Reference:    p.Reference,
		Status:       domain.PaymentStatus(p.Status),
		CreatedAt:    p.CreatedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	created, err := r.dao.Insert(ctx, dao.Payment{
		UserID:       payment.UserID,
		ConferenceID: payment.ConferenceID,
		Amount:       payment.Amount,
		Currency:     string(payment.Currency),
		Reference:    payment.Reference,
		Status:       string(domain.PaymentUnprocessed),
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uint) (domain.Payment, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PaymentRepository) MarkSucceeded(ctx context.Context, id uint, reference string) error {
	if err := r.dao.UpdateStatus(ctx, id, string(domain.PaymentSucceeded), reference); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}
