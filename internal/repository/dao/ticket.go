package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrTicketNotFound = errors.New("ticket not found")

type Ticket struct {
	ID uint `gorm:"primaryKey"`

	ConferenceID uint       `gorm:"not null;index"`
	Conference   Conference `gorm:"foreignKey:ConferenceID"`

	Title       string `gorm:"not null"`
	Description string

	Price         decimal.Decimal `gorm:"type:numeric;not null"`
	PriceCurrency string          `gorm:"not null"`

	RegistrationTicket bool `gorm:"not null;default:false"`
	Visible            bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

func (d *TicketDAO) Insert(ctx context.Context, ticket Ticket) (Ticket, error) {
	result := d.db.WithContext(ctx).Create(&ticket)
	if result.Error != nil {
		return Ticket{}, result.Error
	}

	return ticket, nil
}

func (d *TicketDAO) Update(ctx context.Context, ticket Ticket) (Ticket, error) {
	result := d.db.WithContext(ctx).Save(&ticket)
	if result.Error != nil {
		return Ticket{}, result.Error
	}

	return ticket, nil
}

// Delete removes a ticket definition. Tickets referenced by purchases must
// not be destroyed; guarding that is the calling admin flow's responsibility.
func (d *TicketDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Delete(&Ticket{}, id).Error
}

func (d *TicketDAO) FindByID(ctx context.Context, id uint) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).First(&ticket, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

func (d *TicketDAO) FindByConferenceID(ctx context.Context, conferenceID uint) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("conference_id = ?", conferenceID).
		Order("id").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *TicketDAO) FindVisibleByConferenceID(ctx context.Context, conferenceID uint) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("conference_id = ? AND visible", conferenceID).
		Order("id").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

func (d *TicketDAO) FindRegistrationTickets(ctx context.Context, conferenceID uint) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("conference_id = ? AND registration_ticket", conferenceID).
		Order("id").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}
