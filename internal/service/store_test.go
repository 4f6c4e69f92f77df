package service

import (
	"context"
	"sync"

	"github.com/confaro/confaro-api/internal/currency"
	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/repository"
)

// fakeStore is an in-memory PurchaseStore enforcing the same row-level
// validations the real store does.
type fakeStore struct {
	mu        sync.Mutex
	nextID    uint
	purchases map[uint]domain.TicketPurchase
	physical  []domain.PhysicalTicket
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		purchases: make(map[uint]domain.TicketPurchase),
	}
}

func (f *fakeStore) validate(p domain.TicketPurchase) error {
	if p.Quantity <= 0 {
		return repository.ErrInvalidQuantity
	}
	if p.ForRegistration && p.Quantity != 1 {
		return repository.ErrRegistrationTicketQuantity
	}

	return nil
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(store repository.PurchaseStore) error) error {
	return fn(f)
}

func (f *fakeStore) Create(ctx context.Context, purchase domain.TicketPurchase) (domain.TicketPurchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.validate(purchase); err != nil {
		return domain.TicketPurchase{}, err
	}
	if purchase.ForRegistration {
		for _, p := range f.purchases {
			if p.ForRegistration && p.UserID == purchase.UserID && p.ConferenceID == purchase.ConferenceID {
				return domain.TicketPurchase{}, repository.ErrDuplicateRegistrationTicket
			}
		}
	}

	f.nextID++
	purchase.ID = f.nextID
	f.purchases[purchase.ID] = purchase

	return purchase, nil
}

func (f *fakeStore) UpdateQuantity(ctx context.Context, id uint, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.purchases[id]
	if !ok {
		return repository.ErrPurchaseNotFound
	}

	p.Quantity = quantity
	if err := f.validate(p); err != nil {
		return err
	}
	f.purchases[id] = p

	return nil
}

func (f *fakeStore) FindByID(ctx context.Context, id uint) (domain.TicketPurchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.purchases[id]
	if !ok {
		return domain.TicketPurchase{}, repository.ErrPurchaseNotFound
	}

	return p, nil
}

func (f *fakeStore) FindUnpaid(ctx context.Context, conferenceID, ticketID, userID uint) (domain.TicketPurchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.purchases {
		if !p.Paid && p.ConferenceID == conferenceID && p.TicketID == ticketID && p.UserID == userID {
			return p, nil
		}
	}

	return domain.TicketPurchase{}, repository.ErrPurchaseNotFound
}

func (f *fakeStore) FindUnpaidByUser(ctx context.Context, conferenceID, userID uint) ([]domain.TicketPurchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var unpaid []domain.TicketPurchase
	for _, p := range f.purchases {
		if !p.Paid && p.ConferenceID == conferenceID && p.UserID == userID {
			unpaid = append(unpaid, p)
		}
	}

	return unpaid, nil
}

func (f *fakeStore) Delete(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.purchases[id]; !ok {
		return repository.ErrPurchaseNotFound
	}
	delete(f.purchases, id)

	return nil
}

func (f *fakeStore) DeleteUnpaidForTickets(ctx context.Context, conferenceID, userID uint, ticketIDs []uint) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	wanted := make(map[uint]bool, len(ticketIDs))
	for _, id := range ticketIDs {
		wanted[id] = true
	}

	removed := 0
	for id, p := range f.purchases {
		if !p.Paid && p.ConferenceID == conferenceID && p.UserID == userID && wanted[p.TicketID] {
			delete(f.purchases, id)
			removed++
		}
	}

	return removed, nil
}

func (f *fakeStore) MarkPaid(ctx context.Context, id uint, paymentID *uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.purchases[id]
	if !ok {
		return repository.ErrPurchaseNotFound
	}

	p.Paid = true
	p.PaymentID = paymentID
	f.purchases[id] = p

	return nil
}

func (f *fakeStore) CreatePhysicalTickets(ctx context.Context, tickets []domain.PhysicalTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.physical = append(f.physical, tickets...)

	return nil
}

func (f *fakeStore) FindPhysicalTickets(ctx context.Context, purchaseID uint) ([]domain.PhysicalTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var found []domain.PhysicalTicket
	for _, t := range f.physical {
		if t.TicketPurchaseID == purchaseID {
			found = append(found, t)
		}
	}

	return found, nil
}

var _ repository.PurchaseStore = (*fakeStore)(nil)

func (f *fakeStore) all() []domain.TicketPurchase {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.TicketPurchase, 0, len(f.purchases))
	for _, p := range f.purchases {
		out = append(out, p)
	}

	return out
}

type fakeCatalog struct {
	tickets []domain.Ticket
}

func (f *fakeCatalog) FindVisibleByConference(ctx context.Context, conferenceID uint) ([]domain.Ticket, error) {
	var visible []domain.Ticket
	for _, t := range f.tickets {
		if t.ConferenceID == conferenceID && t.Visible {
			visible = append(visible, t)
		}
	}

	return visible, nil
}

func (f *fakeCatalog) FindRegistrationTickets(ctx context.Context, conferenceID uint) ([]domain.Ticket, error) {
	var registration []domain.Ticket
	for _, t := range f.tickets {
		if t.ConferenceID == conferenceID && t.RegistrationTicket {
			registration = append(registration, t)
		}
	}

	return registration, nil
}

type fakeRates struct {
	table currency.RateTable
}

func (f *fakeRates) RateTable(ctx context.Context, conferenceID uint) (currency.RateTable, error) {
	return f.table, nil
}

// channelNotifier records confirmations so tests can wait for the async
// dispatch.
type channelNotifier struct {
	confirmed chan domain.TicketPurchase
}

func newChannelNotifier() *channelNotifier {
	return &channelNotifier{confirmed: make(chan domain.TicketPurchase, 16)}
}

func (n *channelNotifier) TicketConfirmation(purchase domain.TicketPurchase) error {
	n.confirmed <- purchase
	return nil
}

type fakeRegistrar struct {
	registered []uint
	err        error
}

func (f *fakeRegistrar) RegisterUser(ctx context.Context, conference domain.Conference, user domain.User) (domain.Registration, error) {
	if f.err != nil {
		return domain.Registration{}, f.err
	}

	f.registered = append(f.registered, user.ID)

	return domain.Registration{ConferenceID: conference.ID, UserID: user.ID}, nil
}
