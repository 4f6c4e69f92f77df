package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

type Payment struct {
	ID uint `gorm:"primaryKey"`

	UserID       uint `gorm:"not null;index"`
	ConferenceID uint `gorm:"not null;index"`

	Amount   decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	Currency string          `gorm:"not null"`

	Reference string
	Status    string `gorm:"not null;default:'unprocessed'"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

func (d *PaymentDAO) Insert(ctx context.Context, payment Payment) (Payment, error) {
	result := d.db.WithContext(ctx).Create(&payment)
	if result.Error != nil {
		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByID(ctx context.Context, id uint) (Payment, error) {
	var payment Payment

	result := d.db.WithContext(ctx).First(&payment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) UpdateStatus(ctx context.Context, id uint, status, reference string) error {
	result := d.db.WithContext(ctx).
		Model(&Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "reference": reference})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}
