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
	ErrPurchaseNotFound            = errors.New("ticket purchase not found")
	ErrInvalidQuantity             = errors.New("quantity must be greater than zero")
	ErrRegistrationTicketQuantity  = errors.New("quantity cannot be greater than one for registration tickets")
	ErrDuplicateRegistrationTicket = errors.New("user already holds a registration ticket for the conference")
	ErrDuplicateUnpaidPurchase     = errors.New("user already holds an unpaid purchase of the ticket")
)

type TicketPurchase struct {
	ID uint `gorm:"primaryKey"`

	TicketID     uint   `gorm:"not null;index"`
	Ticket       Ticket `gorm:"foreignKey:TicketID"`
	UserID       uint   `gorm:"not null;index"`
	ConferenceID uint   `gorm:"not null;index"`

	Quantity int    `gorm:"not null;default:1"`
	Currency string `gorm:"not null"`

	AmountPaid      decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	AmountPaidCents int64           `gorm:"not null;default:0"`

	Paid      bool  `gorm:"not null;default:false"`
	PaymentID *uint `gorm:"index"`

	// Denormalized from the ticket at creation so the registration
	// uniqueness index can live on this table.
	ForRegistration bool `gorm:"not null;default:false"`

	Week int `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type PhysicalTicket struct {
	ID uint `gorm:"primaryKey"`

	TicketPurchaseID uint           `gorm:"not null;index"`
	TicketPurchase   TicketPurchase `gorm:"foreignKey:TicketPurchaseID"`

	Token  string `gorm:"unique;not null"`
	QRCode string

	CreatedAt time.Time `gorm:"not null"`
}

func (p TicketPurchase) validate() error {
	if p.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if p.ForRegistration && p.Quantity != 1 {
		return ErrRegistrationTicketQuantity
	}

	return nil
}

type TicketPurchaseDAO struct {
	db *gorm.DB
}

func NewTicketPurchaseDAO(db *gorm.DB) *TicketPurchaseDAO {
	return &TicketPurchaseDAO{
		db: db,
	}
}

// Transaction runs fn against a transaction-scoped DAO. Any error from fn
// rolls every write inside the callback back.
func (d *TicketPurchaseDAO) Transaction(ctx context.Context, fn func(txDAO *TicketPurchaseDAO) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewTicketPurchaseDAO(tx))
	})
}

func (d *TicketPurchaseDAO) Insert(ctx context.Context, purchase TicketPurchase) (TicketPurchase, error) {
	if err := purchase.validate(); err != nil {
		return TicketPurchase{}, err
	}

	result := d.db.WithContext(ctx).Create(&purchase)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			if strings.Contains(err.Message, "uniq_registration_ticket_purchase") {
				return TicketPurchase{}, ErrDuplicateRegistrationTicket
			}
			if strings.Contains(err.Message, "uniq_unpaid_ticket_purchase") {
				return TicketPurchase{}, ErrDuplicateUnpaidPurchase
			}
		}

		return TicketPurchase{}, result.Error
	}

	return purchase, nil
}

func (d *TicketPurchaseDAO) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	var purchase TicketPurchase
	if err := d.db.WithContext(ctx).First(&purchase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPurchaseNotFound
		}

		return err
	}

	purchase.Quantity = quantity
	if err := purchase.validate(); err != nil {
		return err
	}

	return d.db.WithContext(ctx).Model(&purchase).Update("quantity", quantity).Error
}

func (d *TicketPurchaseDAO) FindByID(ctx context.Context, id uint) (TicketPurchase, error) {
	var purchase TicketPurchase

	result := d.db.WithContext(ctx).First(&purchase, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return TicketPurchase{}, ErrPurchaseNotFound
		}

		return TicketPurchase{}, result.Error
	}

	return purchase, nil
}

// FindUnpaid returns the user's unpaid purchase of one ticket, if any.
// The unpaid partial index guarantees at most one such row.
func (d *TicketPurchaseDAO) FindUnpaid(ctx context.Context, conferenceID, ticketID, userID uint) (TicketPurchase, error) {
	var purchase TicketPurchase

	result := d.db.WithContext(ctx).
		Where("conference_id = ? AND ticket_id = ? AND user_id = ? AND NOT paid",
			conferenceID, ticketID, userID).
		First(&purchase)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return TicketPurchase{}, ErrPurchaseNotFound
		}

		return TicketPurchase{}, result.Error
	}

	return purchase, nil
}

func (d *TicketPurchaseDAO) FindUnpaidByUser(ctx context.Context, conferenceID, userID uint) ([]TicketPurchase, error) {
	var purchases []TicketPurchase

	result := d.db.WithContext(ctx).
		Where("conference_id = ? AND user_id = ? AND NOT paid", conferenceID, userID).
		Order("id").
		Find(&purchases)
	if result.Error != nil {
		return nil, result.Error
	}

	return purchases, nil
}

func (d *TicketPurchaseDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Delete(&TicketPurchase{}, id).Error
}

// DeleteUnpaidForTickets removes the user's unpaid purchases of the given
// tickets and reports how many rows went away.
func (d *TicketPurchaseDAO) DeleteUnpaidForTickets(ctx context.Context, conferenceID, userID uint, ticketIDs []uint) (int64, error) {
	if len(ticketIDs) == 0 {
		return 0, nil
	}

	result := d.db.WithContext(ctx).
		Where("conference_id = ? AND user_id = ? AND NOT paid AND ticket_id IN ?",
			conferenceID, userID, ticketIDs).
		Delete(&TicketPurchase{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (d *TicketPurchaseDAO) MarkPaid(ctx context.Context, id uint, paymentID *uint) error {
	result := d.db.WithContext(ctx).
		Model(&TicketPurchase{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"paid": true, "payment_id": paymentID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPurchaseNotFound
	}

	return nil
}

// InsertPhysicalTickets creates the fulfilled units of a paid purchase in
// a transaction of their own; nested inside an open transaction this
// becomes a savepoint.
func (d *TicketPurchaseDAO) InsertPhysicalTickets(ctx context.Context, tickets []PhysicalTicket) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range tickets {
			if err := tx.Create(&tickets[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (d *TicketPurchaseDAO) FindPhysicalTickets(ctx context.Context, purchaseID uint) ([]PhysicalTicket, error) {
	var tickets []PhysicalTicket

	result := d.db.WithContext(ctx).
		Where("ticket_purchase_id = ?", purchaseID).
		Order("id").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}
