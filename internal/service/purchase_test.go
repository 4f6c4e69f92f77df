package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confaro/confaro-api/internal/currency"
	"github.com/confaro/confaro-api/internal/domain"
)

var (
	testConference = domain.Conference{ID: 1, ShortTitle: "gophercon", Currency: "USD"}
	testUser       = domain.User{ID: 7, Email: "attendee@example.com"}
)

func newPurchaseService(store *fakeStore, catalog *fakeCatalog, table currency.RateTable, notifier *channelNotifier) *PurchaseService {
	fulfillment := NewFulfillmentService(store, notifier)
	svc := NewPurchaseService(store, catalog, &fakeRates{table: table}, fulfillment)
	svc.now = func() time.Time {
		return time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC)
	}

	return svc
}

func TestPurchase_CreatesUnpaidPurchaseWithConvertedAmount(t *testing.T) {
	store := newFakeStore()
	catalog := &fakeCatalog{tickets: []domain.Ticket{
		{ID: 10, ConferenceID: 1, Title: "Business", Price: decimal.NewFromInt(100), PriceCurrency: "EUR", Visible: true},
	}}
	table := currency.RateTable{
		{From: "EUR", To: "USD"}: decimal.RequireFromString("1.1"),
	}
	svc := newPurchaseService(store, catalog, table, newChannelNotifier())

	msg, err := svc.Purchase(context.Background(), testConference, testUser, map[uint]int{10: 2}, "USD")

	require.NoError(t, err)
	assert.Empty(t, msg)

	all := store.all()
	require.Len(t, all, 1)
	got := all[0]
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, currency.Code("USD"), got.Currency)
	assert.True(t, got.AmountPaid.Equal(decimal.RequireFromString("110")))
	assert.Equal(t, int64(11000), got.AmountPaidCents)
	assert.False(t, got.Paid)
	assert.Equal(t, 29, got.Week)
}

func TestPurchase_IdentityCurrencyNeedsNoRate(t *testing.T) {
	store := newFakeStore()
	catalog := &fakeCatalog{tickets: []domain.Ticket{
		{ID: 10, ConferenceID: 1, Title: "Business", Price: decimal.NewFromInt(100), PriceCurrency: "EUR", Visible: true},
	}}
	svc := newPurchaseService(store, catalog, currency.RateTable{}, newChannelNotifier())

	msg, err := svc.Purchase(context.Background(), testConference, testUser, map[uint]int{10: 1}, "EUR")

	require.NoError(t, err)
	assert.Empty(t, msg)

	all := store.all()
	require.Len(t, all, 1)
	assert.True(t, all[0].AmountPaid.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, currency.Code("EUR"), all[0].Currency)
}

func TestPurchase_MissingRateFailsTheLine(t *testing.T) {
	store := newFakeStore()
	catalog := &fakeCatalog{tickets: []domain.Ticket{
		{ID: 10, ConferenceID: 1, Title: "Business", Price: decimal.NewFromInt(100), PriceCurrency: "EUR", Visible: true},
		{ID: 11, ConferenceID: 1, Title: "Workshop", Price: decimal.NewFromInt(50), PriceCurrency: "USD", Visible: true},
	}}
	svc := newPurchaseService(store, catalog, currency.RateTable{}, newChannelNotifier())

	msg, err := svc.Purchase(context.Background(), testConference, testUser, map[uint]int{10: 1, 11: 1}, "USD")

	require.NoError(t, err)
	assert.Contains(t, msg, `no conversion rate from EUR to USD for ticket "Business"`)

	// The line with an available rate still goes through.
	all := store.all()
	require.Len(t, all, 1)
	assert.Equal(t, uint(11), all[0].TicketID)
}

func TestPurchase_UpdatesExistingUnpaidPurchaseInPlace(t *testing.T) {
	store := newFakeStore()
	existing, err := store.Create(context.Background(), domain.TicketPurchase{
		TicketID: 10, UserID: testUser.ID, ConferenceID: 1, Quantity: 1, Currency: "USD",
		AmountPaid: decimal.NewFromInt(110), AmountPaidCents: 11000,
	})
	require.NoError(t, err)

	catalog := &fakeCatalog{tickets: []domain.Ticket{
		{ID: 10, ConferenceID: 1, Title: "Business", Price: decimal.NewFromInt(100), PriceCurrency: "EUR", Visible: true},
	}}
	table := currency.RateTable{
		{From: "EUR", To: "USD"}: decimal.RequireFromString("1.1"),
	}
	svc := newPurchaseService(store, catalog, table, newChannelNotifier())

	msg, err := svc.Purchase(context.Background(), testConference, testUser, map[uint]int{10: 3}, "USD")

	require.NoError(t, err)
	assert.Empty(t, msg)

	all := store.all()
	require.Len(t, all, 1)
	assert.Equal(t, existing.ID, all[0].ID)
	assert.Equal(t, 3, all[0].Quantity)
}

func TestPurchase_ZeroQuantityLeavesStaleUnpaidRow(t *testing.T) {
	store := newFakeStore()
	existing, err := store.Create(context.Background(), domain.TicketPurchase{
		TicketID: 10, UserID: testUser.ID, ConferenceID: 1, Quantity: 2, Currency: "USD",
	})
	require.NoError(t, err)

	catalog := &fakeCatalog{tickets: []domain.Ticket{
		{ID: 10, ConferenceID: 1, Title: "Business", Price: decimal.NewFromInt(100), PriceCurrency: "USD", Visible: true},
	}}
	svc := newPurchaseService(store, catalog, currency.RateTable{}, newChannelNotifier())

	msg, err := svc.Purchase(context.Background(), testConference, testUser, map[uint]int{10: 0}, "USD")

	require.NoError(t, err)
	assert.Empty(t, msg)

	all := store.all()
	require.Len(t, all, 1)
	assert.Equal(t, existing.ID, all[0].ID)
	assert.Equal(t, 2, all[0].Quantity, "a zero request is not a deletion")
}

func TestPurchase_ZeroCostPurchaseIsPaidImmediately(t *testing.T) {
	store := newFakeStore()
	catalog := &fakeCatalog{tickets: []domain.Ticket{
		{ID: 10, ConferenceID: 1, Title: "Community", Price: decimal.Zero, PriceCurrency: "USD", Visible: true},
	}}
	notifier := newChannelNotifier()
	svc := newPurchaseService(store, catalog, currency.RateTable{}, notifier)

	msg, err := svc.Purchase(context.Background(), testConference, testUser, map[uint]int{10: 3}, "USD")

	require.NoError(t, err)
	assert.Empty(t, msg)

	all := store.all()
	require.Len(t, all, 1)
	got := all[0]
	assert.True(t, got.Paid)
	assert.Nil(t, got.PaymentID, "no payment record backs a free ticket")

	physical, err := store.FindPhysicalTickets(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Len(t, physical, 3)
	for _, ticket := range physical {
		assert.NotEmpty(t, ticket.Token)
		assert.NotEmpty(t, ticket.QRCode)
	}

	select {
	case confirmed := <-notifier.confirmed:
		assert.Equal(t, got.ID, confirmed.ID)
	case <-time.After(time.Second):
		t.Fatal("expected a confirmation dispatch")
	}
}

func TestPurchase_RejectsMoreThanOneRegistrationTicketUnit(t *testing.T) {
	store := newFakeStore()
	catalog := &fakeCatalog{tickets: []domain.Ticket{
		{ID: 10, ConferenceID: 1, Title: "Registration", Price: decimal.NewFromInt(10), PriceCurrency: "USD", RegistrationTicket: true, Visible: true},
		{ID: 11, ConferenceID: 1, Title: "Workshop", Price: decimal.NewFromInt(50), PriceCurrency: "USD", Visible: true},
	}}
	svc := newPurchaseService(store, catalog, currency.RateTable{}, newChannelNotifier())

	msg, err := svc.Purchase(context.Background(), testConference, testUser, map[uint]int{10: 2, 11: 1}, "USD")

	require.NoError(t, err)
	assert.Equal(t, MsgTooManyRegistrationTickets, msg)
	assert.Empty(t, store.all(), "the rejection happens before any write")
}

func TestPurchase_RejectsSecondRegistrationTicket(t *testing.T) {
	store := newFakeStore()
	_, err := store.Create(context.Background(), domain.TicketPurchase{
		TicketID: 12, UserID: testUser.ID, ConferenceID: 1, Quantity: 1,
		Currency: "USD", ForRegistration: true, Paid: true,
	})
	require.NoError(t, err)

	catalog := &fakeCatalog{tickets: []domain.Ticket{
		{ID: 10, ConferenceID: 1, Title: "Late Registration", Price: decimal.NewFromInt(10), PriceCurrency: "USD", RegistrationTicket: true, Visible: true},
	}}
	svc := newPurchaseService(store, catalog, currency.RateTable{}, newChannelNotifier())

	msg, err := svc.Purchase(context.Background(), testConference, testUser, map[uint]int{10: 1}, "USD")

	require.NoError(t, err)
	assert.Contains(t, msg, "a registration ticket for the conference is already held")
}

func TestPurchase_IgnoresTicketsNotRequested(t *testing.T) {
	store := newFakeStore()
	catalog := &fakeCatalog{tickets: []domain.Ticket{
		{ID: 10, ConferenceID: 1, Title: "Business", Price: decimal.NewFromInt(100), PriceCurrency: "USD", Visible: true},
		{ID: 11, ConferenceID: 1, Title: "Workshop", Price: decimal.NewFromInt(50), PriceCurrency: "USD", Visible: true},
	}}
	svc := newPurchaseService(store, catalog, currency.RateTable{}, newChannelNotifier())

	msg, err := svc.Purchase(context.Background(), testConference, testUser, map[uint]int{11: 1}, "USD")

	require.NoError(t, err)
	assert.Empty(t, msg)

	all := store.all()
	require.Len(t, all, 1)
	assert.Equal(t, uint(11), all[0].TicketID)
}

func TestRemovePurchase(t *testing.T) {
	store := newFakeStore()
	created, err := store.Create(context.Background(), domain.TicketPurchase{
		TicketID: 10, UserID: testUser.ID, ConferenceID: 1, Quantity: 1, Currency: "USD",
	})
	require.NoError(t, err)

	svc := newPurchaseService(store, &fakeCatalog{}, currency.RateTable{}, newChannelNotifier())

	removed, err := svc.RemovePurchase(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)
	assert.Empty(t, store.all())
}
