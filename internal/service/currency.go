package service

import (
	"context"
	"fmt"

	"github.com/confaro/confaro-api/internal/currency"
	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/repository"
)

var (
	ErrConversionExists   = repository.ErrConversionExists
	ErrConversionNotFound = repository.ErrConversionNotFound
	ErrInvalidRate        = repository.ErrInvalidRate
)

type ConversionRepository interface {
	Create(ctx context.Context, conversion domain.CurrencyConversion) (domain.CurrencyConversion, error)
	FindByConference(ctx context.Context, conferenceID uint) ([]domain.CurrencyConversion, error)
	Delete(ctx context.Context, id uint) error
}

// CurrencyService manages a conference's stored exchange rates.
type CurrencyService struct {
	repo ConversionRepository
}

func NewCurrencyService(repo ConversionRepository) *CurrencyService {
	return &CurrencyService{
		repo: repo,
	}
}

func (s *CurrencyService) AddConversion(ctx context.Context, conversion domain.CurrencyConversion) (domain.CurrencyConversion, error) {
	if !currency.IsValid(conversion.FromCurrency) || !currency.IsValid(conversion.ToCurrency) {
		return domain.CurrencyConversion{}, ErrInvalidCurrency
	}

	created, err := s.repo.Create(ctx, conversion)
	if err != nil {
		return domain.CurrencyConversion{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CurrencyService) GetConversions(ctx context.Context, conferenceID uint) ([]domain.CurrencyConversion, error) {
	conversions, err := s.repo.FindByConference(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByConference -> %w", err)
	}

	return conversions, nil
}

func (s *CurrencyService) RemoveConversion(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
