package repository

import (
	"context"
	"fmt"

	"github.com/confaro/confaro-api/internal/currency"
	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/repository/dao"
)

var (
	ErrConferenceNotFound = dao.ErrConferenceNotFound
	ErrAlreadyRegistered  = dao.ErrAlreadyRegistered
)

type ConferenceDAO interface {
	FindByID(ctx context.Context, id uint) (dao.Conference, error)
	FindByShortTitle(ctx context.Context, shortTitle string) (dao.Conference, error)
	InsertRegistration(ctx context.Context, registration dao.Registration) (dao.Registration, error)
}

type ConferenceRepository struct {
	dao ConferenceDAO
}

func NewConferenceRepository(conferenceDAO ConferenceDAO) *ConferenceRepository {
	return &ConferenceRepository{
		dao: conferenceDAO,
	}
}

func (r *ConferenceRepository) daoToDomain(c dao.Conference) domain.Conference {
	return domain.Conference{
		ID:         c.ID,
		ShortTitle: c.ShortTitle,
		Title:      c.Title,
		Currency:   currency.Code(c.Currency),
		StartDate:  c.StartDate,
		EndDate:    c.EndDate,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (r *ConferenceRepository) FindByID(ctx context.Context, id uint) (domain.Conference, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Conference{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ConferenceRepository) FindByShortTitle(ctx context.Context, shortTitle string) (domain.Conference, error) {
	found, err := r.dao.FindByShortTitle(ctx, shortTitle)
	if err != nil {
		return domain.Conference{}, fmt.Errorf("r.dao.FindByShortTitle -> %w", err)
	}

	return r.daoToDomain(found), nil
}

// RegisterUser registers a user as an attendee of the conference.
func (r *ConferenceRepository) RegisterUser(ctx context.Context, conference domain.Conference, user domain.User) (domain.Registration, error) {
	created, err := r.dao.InsertRegistration(ctx, dao.Registration{
		ConferenceID: conference.ID,
		UserID:       user.ID,
	})
	if err != nil {
		return domain.Registration{}, fmt.Errorf("r.dao.InsertRegistration -> %w", err)
	}

	return domain.Registration{
		ID:           created.ID,
		ConferenceID: created.ConferenceID,
		UserID:       created.UserID,
		CreatedAt:    created.CreatedAt,
	}, nil
}
