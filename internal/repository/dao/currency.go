package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrConversionNotFound = errors.New("currency conversion not found")
	ErrConversionExists   = errors.New("conversion rate already exists for the currency pair")
	ErrInvalidRate        = errors.New("conversion rate must be greater than zero")
)

type CurrencyConversion struct {
	ID uint `gorm:"primaryKey"`

	ConferenceID uint   `gorm:"not null;index;uniqueIndex:uniq_conference_currency_pair"`
	FromCurrency string `gorm:"not null;uniqueIndex:uniq_conference_currency_pair"`
	ToCurrency   string `gorm:"not null;uniqueIndex:uniq_conference_currency_pair"`

	Rate decimal.Decimal `gorm:"type:numeric;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type CurrencyConversionDAO struct {
	db *gorm.DB
}

func NewCurrencyConversionDAO(db *gorm.DB) *CurrencyConversionDAO {
	return &CurrencyConversionDAO{
		db: db,
	}
}

func (d *CurrencyConversionDAO) Insert(ctx context.Context, conversion CurrencyConversion) (CurrencyConversion, error) {
	if !conversion.Rate.IsPositive() {
		return CurrencyConversion{}, ErrInvalidRate
	}

	result := d.db.WithContext(ctx).Create(&conversion)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, "uniq_conference_currency_pair") {
			return CurrencyConversion{}, ErrConversionExists
		}

		return CurrencyConversion{}, result.Error
	}

	return conversion, nil
}

func (d *CurrencyConversionDAO) FindByConferenceID(ctx context.Context, conferenceID uint) ([]CurrencyConversion, error) {
	var conversions []CurrencyConversion

	result := d.db.WithContext(ctx).
		Where("conference_id = ?", conferenceID).
		Find(&conversions)
	if result.Error != nil {
		return nil, result.Error
	}

	return conversions, nil
}

func (d *CurrencyConversionDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&CurrencyConversion{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConversionNotFound
	}

	return nil
}
