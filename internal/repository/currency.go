package repository

import (
	"context"
	"fmt"

	"github.com/confaro/confaro-api/internal/currency"
	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/repository/dao"
)

var (
	ErrConversionNotFound = dao.ErrConversionNotFound
	ErrConversionExists   = dao.ErrConversionExists
	ErrInvalidRate        = dao.ErrInvalidRate
)

type CurrencyConversionDAO interface {
	Insert(ctx context.Context, conversion dao.CurrencyConversion) (dao.CurrencyConversion, error)
	FindByConferenceID(ctx context.Context, conferenceID uint) ([]dao.CurrencyConversion, error)
	Delete(ctx context.Context, id uint) error
}

type CurrencyRepository struct {
	dao CurrencyConversionDAO
}

func NewCurrencyRepository(conversionDAO CurrencyConversionDAO) *CurrencyRepository {
	return &CurrencyRepository{
		dao: conversionDAO,
	}
}

func (r *CurrencyRepository) daoToDomain(c dao.CurrencyConversion) domain.CurrencyConversion {
	return domain.CurrencyConversion{
		ID:           c.ID,
		ConferenceID: c.ConferenceID,
		FromCurrency: currency.Code(c.FromCurrency),
		ToCurrency:   currency.Code(c.ToCurrency),
		Rate:         c.Rate,
	}
}

func (r *CurrencyRepository) Create(ctx context.Context, conversion domain.CurrencyConversion) (domain.CurrencyConversion, error) {
	created, err := r.dao.Insert(ctx, dao.CurrencyConversion{
		ConferenceID: conversion.ConferenceID,
		FromCurrency: string(conversion.FromCurrency),
		ToCurrency:   string(conversion.ToCurrency),
		Rate:         conversion.Rate,
	})
	if err != nil {
		return domain.CurrencyConversion{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CurrencyRepository) FindByConference(ctx context.Context, conferenceID uint) ([]domain.CurrencyConversion, error) {
	found, err := r.dao.FindByConferenceID(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByConferenceID -> %w", err)
	}

	conversions := make([]domain.CurrencyConversion, len(found))
	for i, c := range found {
		conversions[i] = r.daoToDomain(c)
	}

	return conversions, nil
}

// RateTable assembles the conference's stored rates into the lookup table
// the pure converter takes.
func (r *CurrencyRepository) RateTable(ctx context.Context, conferenceID uint) (currency.RateTable, error) {
	conversions, err := r.dao.FindByConferenceID(ctx, conferenceID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByConferenceID -> %w", err)
	}

	table := make(currency.RateTable, len(conversions))
	for _, c := range conversions {
		pair := currency.Pair{From: currency.Code(c.FromCurrency), To: currency.Code(c.ToCurrency)}
		table[pair] = c.Rate
	}

	return table, nil
}

func (r *CurrencyRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}
