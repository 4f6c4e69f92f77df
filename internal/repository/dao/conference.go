package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrConferenceNotFound = errors.New("conference not found")
	ErrAlreadyRegistered  = errors.New("user is already registered for the conference")
)

type Conference struct {
	ID uint `gorm:"primaryKey"`

	ShortTitle string `gorm:"unique;not null"`
	Title      string `gorm:"not null"`
	Currency   string `gorm:"not null"`

	StartDate time.Time
	EndDate   time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Registration struct {
	ID uint `gorm:"primaryKey"`

	ConferenceID uint `gorm:"not null;uniqueIndex:uniq_conference_registration"`
	UserID       uint `gorm:"not null;uniqueIndex:uniq_conference_registration"`

	CreatedAt time.Time `gorm:"not null"`
}

type ConferenceDAO struct {
	db *gorm.DB
}

func NewConferenceDAO(db *gorm.DB) *ConferenceDAO {
	return &ConferenceDAO{
		db: db,
	}
}

func (d *ConferenceDAO) FindByID(ctx context.Context, id uint) (Conference, error) {
	var conference Conference

	result := d.db.WithContext(ctx).First(&conference, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Conference{}, ErrConferenceNotFound
		}

		return Conference{}, result.Error
	}

	return conference, nil
}

func (d *ConferenceDAO) FindByShortTitle(ctx context.Context, shortTitle string) (Conference, error) {
	var conference Conference

	result := d.db.WithContext(ctx).First(&conference, "short_title = ?", shortTitle)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Conference{}, ErrConferenceNotFound
		}

		return Conference{}, result.Error
	}

	return conference, nil
}

func (d *ConferenceDAO) InsertRegistration(ctx context.Context, registration Registration) (Registration, error) {
	result := d.db.WithContext(ctx).Create(&registration)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Registration{}, ErrAlreadyRegistered
		}

		return Registration{}, result.Error
	}

	return registration, nil
}
