package service

import (
	"context"
	"fmt"

	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/repository"
)

var ErrConferenceNotFound = repository.ErrConferenceNotFound

type ConferenceRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Conference, error)
	FindByShortTitle(ctx context.Context, shortTitle string) (domain.Conference, error)
}

type ConferenceService struct {
	repo ConferenceRepository
}

func NewConferenceService(repo ConferenceRepository) *ConferenceService {
	return &ConferenceService{
		repo: repo,
	}
}

func (s *ConferenceService) GetConference(ctx context.Context, shortTitle string) (domain.Conference, error) {
	conference, err := s.repo.FindByShortTitle(ctx, shortTitle)
	if err != nil {
		return domain.Conference{}, fmt.Errorf("s.repo.FindByShortTitle -> %w", err)
	}

	return conference, nil
}
