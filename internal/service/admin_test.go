package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confaro/confaro-api/internal/domain"
)

func TestGive_IssuesFreePaidPurchase(t *testing.T) {
	store := newFakeStore()
	catalog := &fakeCatalog{tickets: []domain.Ticket{
		{ID: 10, ConferenceID: 1, Title: "Registration", RegistrationTicket: true, Visible: true},
	}}
	registrar := &fakeRegistrar{}
	notifier := newChannelNotifier()
	svc := NewAdminTicketService(store, catalog, registrar, NewFulfillmentService(store, notifier))

	recipient := domain.User{ID: 42}
	result, err := svc.Give(context.Background(), testConference, catalog.tickets[0], recipient)

	require.NoError(t, err)
	assert.True(t, result.Purchase.Paid)
	assert.Nil(t, result.Purchase.PaymentID)
	assert.Equal(t, 1, result.Purchase.Quantity)
	assert.True(t, result.Purchase.AmountPaid.Equal(decimal.Zero))
	assert.Equal(t, testConference.Currency, result.Purchase.Currency)
	assert.True(t, result.Registered)
	assert.Equal(t, []uint{42}, registrar.registered)

	physical, err := store.FindPhysicalTickets(context.Background(), result.Purchase.ID)
	require.NoError(t, err)
	assert.Len(t, physical, 1)
}

func TestGive_RemovesCompetingUnpaidRegistrationPurchases(t *testing.T) {
	store := newFakeStore()
	catalog := &fakeCatalog{tickets: []domain.Ticket{
		{ID: 10, ConferenceID: 1, Title: "Early Registration", RegistrationTicket: true, Visible: true},
		{ID: 11, ConferenceID: 1, Title: "Late Registration", RegistrationTicket: true, Visible: true},
		{ID: 12, ConferenceID: 1, Title: "Workshop", Visible: true},
	}}

	recipient := domain.User{ID: 42}
	_, err := store.Create(context.Background(), domain.TicketPurchase{
		TicketID: 11, UserID: recipient.ID, ConferenceID: 1, Quantity: 1,
		Currency: "USD", ForRegistration: true,
	})
	require.NoError(t, err)
	workshop, err := store.Create(context.Background(), domain.TicketPurchase{
		TicketID: 12, UserID: recipient.ID, ConferenceID: 1, Quantity: 2, Currency: "USD",
	})
	require.NoError(t, err)

	svc := NewAdminTicketService(store, catalog, &fakeRegistrar{}, NewFulfillmentService(store, newChannelNotifier()))

	result, err := svc.Give(context.Background(), testConference, catalog.tickets[0], recipient)

	require.NoError(t, err)
	assert.Equal(t, 1, result.RemovedUnpaid)

	// The unrelated workshop purchase is untouched.
	kept, err := store.FindByID(context.Background(), workshop.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, kept.Quantity)
}

func TestGive_RegistrarFailureDoesNotRevokeTheGift(t *testing.T) {
	store := newFakeStore()
	catalog := &fakeCatalog{tickets: []domain.Ticket{
		{ID: 10, ConferenceID: 1, Title: "Registration", RegistrationTicket: true, Visible: true},
	}}
	registrar := &fakeRegistrar{err: errors.New("registration closed")}
	svc := NewAdminTicketService(store, catalog, registrar, NewFulfillmentService(store, newChannelNotifier()))

	result, err := svc.Give(context.Background(), testConference, catalog.tickets[0], domain.User{ID: 42})

	require.NoError(t, err)
	assert.True(t, result.Purchase.Paid)
	assert.False(t, result.Registered)
}

func TestGive_NonRegistrationTicketSkipsRegistrar(t *testing.T) {
	store := newFakeStore()
	catalog := &fakeCatalog{tickets: []domain.Ticket{
		{ID: 12, ConferenceID: 1, Title: "Workshop", Visible: true},
	}}
	registrar := &fakeRegistrar{}
	svc := NewAdminTicketService(store, catalog, registrar, NewFulfillmentService(store, newChannelNotifier()))

	result, err := svc.Give(context.Background(), testConference, catalog.tickets[0], domain.User{ID: 42})

	require.NoError(t, err)
	assert.False(t, result.Registered)
	assert.Empty(t, registrar.registered)
}
