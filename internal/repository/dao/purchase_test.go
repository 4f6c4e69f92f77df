package dao

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		// No docker; every test below skips.
		log.Printf("docker not available: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=confaro_test",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%v user=postgres password=secret dbname=confaro_test sslmode=disable",
		resource.GetPort("5432/tcp"))
	if err = pool.Retry(func() error {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err = sqlDB.Ping(); err != nil {
			return err
		}

		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres: %v", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %v", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge postgres container: %v", err)
	}

	os.Exit(code)
}

// seedTicket creates a conference and a ticket to hang purchases off.
func seedTicket(t *testing.T, registration bool) Ticket {
	t.Helper()

	conference := Conference{
		ShortTitle: fmt.Sprintf("conf-%v", t.Name()),
		Title:      "Test Conference",
		Currency:   "USD",
	}
	require.NoError(t, testDB.Create(&conference).Error)

	ticket := Ticket{
		ConferenceID:       conference.ID,
		Title:              "Test Ticket",
		Price:              decimal.NewFromInt(100),
		PriceCurrency:      "USD",
		RegistrationTicket: registration,
		Visible:            true,
	}
	require.NoError(t, testDB.Create(&ticket).Error)

	return ticket
}

func skipWithoutDocker(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("docker not available")
	}
}

func TestTicketPurchaseDAO_InsertAndFindUnpaid(t *testing.T) {
	skipWithoutDocker(t)

	d := NewTicketPurchaseDAO(testDB)
	ticket := seedTicket(t, false)

	created, err := d.Insert(context.Background(), TicketPurchase{
		TicketID:     ticket.ID,
		UserID:       1,
		ConferenceID: ticket.ConferenceID,
		Quantity:     2,
		Currency:     "USD",
		AmountPaid:   decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	found, err := d.FindUnpaid(context.Background(), ticket.ConferenceID, ticket.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, 2, found.Quantity)

	_, err = d.FindUnpaid(context.Background(), ticket.ConferenceID, ticket.ID, 2)
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestTicketPurchaseDAO_UnpaidIndexForbidsDuplicates(t *testing.T) {
	skipWithoutDocker(t)

	d := NewTicketPurchaseDAO(testDB)
	ticket := seedTicket(t, false)

	purchase := TicketPurchase{
		TicketID:     ticket.ID,
		UserID:       1,
		ConferenceID: ticket.ConferenceID,
		Quantity:     1,
		Currency:     "USD",
	}

	_, err := d.Insert(context.Background(), purchase)
	require.NoError(t, err)

	_, err = d.Insert(context.Background(), purchase)
	assert.ErrorIs(t, err, ErrDuplicateUnpaidPurchase)
}

func TestTicketPurchaseDAO_RegistrationIndexForbidsSecondTicket(t *testing.T) {
	skipWithoutDocker(t)

	d := NewTicketPurchaseDAO(testDB)
	ticket := seedTicket(t, true)

	second := Ticket{
		ConferenceID:       ticket.ConferenceID,
		Title:              "Late Registration",
		Price:              decimal.NewFromInt(150),
		PriceCurrency:      "USD",
		RegistrationTicket: true,
		Visible:            true,
	}
	require.NoError(t, testDB.Create(&second).Error)

	first, err := d.Insert(context.Background(), TicketPurchase{
		TicketID:        ticket.ID,
		UserID:          1,
		ConferenceID:    ticket.ConferenceID,
		Quantity:        1,
		Currency:        "USD",
		ForRegistration: true,
	})
	require.NoError(t, err)
	require.NoError(t, d.MarkPaid(context.Background(), first.ID, nil))

	_, err = d.Insert(context.Background(), TicketPurchase{
		TicketID:        second.ID,
		UserID:          1,
		ConferenceID:    ticket.ConferenceID,
		Quantity:        1,
		Currency:        "USD",
		ForRegistration: true,
	})
	assert.ErrorIs(t, err, ErrDuplicateRegistrationTicket)
}

func TestTicketPurchaseDAO_InsertValidatesQuantity(t *testing.T) {
	skipWithoutDocker(t)

	d := NewTicketPurchaseDAO(testDB)
	ticket := seedTicket(t, true)

	_, err := d.Insert(context.Background(), TicketPurchase{
		TicketID:     ticket.ID,
		UserID:       1,
		ConferenceID: ticket.ConferenceID,
		Quantity:     0,
		Currency:     "USD",
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = d.Insert(context.Background(), TicketPurchase{
		TicketID:        ticket.ID,
		UserID:          1,
		ConferenceID:    ticket.ConferenceID,
		Quantity:        2,
		Currency:        "USD",
		ForRegistration: true,
	})
	assert.ErrorIs(t, err, ErrRegistrationTicketQuantity)
}

func TestTicketPurchaseDAO_UpdateQuantity(t *testing.T) {
	skipWithoutDocker(t)

	d := NewTicketPurchaseDAO(testDB)
	ticket := seedTicket(t, false)

	created, err := d.Insert(context.Background(), TicketPurchase{
		TicketID:     ticket.ID,
		UserID:       1,
		ConferenceID: ticket.ConferenceID,
		Quantity:     1,
		Currency:     "USD",
	})
	require.NoError(t, err)

	require.NoError(t, d.UpdateQuantity(context.Background(), created.ID, 5))

	found, err := d.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)

	assert.ErrorIs(t, d.UpdateQuantity(context.Background(), created.ID, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, d.UpdateQuantity(context.Background(), 999999, 1), ErrPurchaseNotFound)
}

func TestTicketPurchaseDAO_DeleteUnpaidForTickets(t *testing.T) {
	skipWithoutDocker(t)

	d := NewTicketPurchaseDAO(testDB)
	ticket := seedTicket(t, true)

	unpaid, err := d.Insert(context.Background(), TicketPurchase{
		TicketID:     ticket.ID,
		UserID:       1,
		ConferenceID: ticket.ConferenceID,
		Quantity:     1,
		Currency:     "USD",
	})
	require.NoError(t, err)

	removed, err := d.DeleteUnpaidForTickets(context.Background(), ticket.ConferenceID, 1, []uint{ticket.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = d.FindByID(context.Background(), unpaid.ID)
	assert.ErrorIs(t, err, ErrPurchaseNotFound)

	removed, err = d.DeleteUnpaidForTickets(context.Background(), ticket.ConferenceID, 1, nil)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestTicketPurchaseDAO_MarkPaid(t *testing.T) {
	skipWithoutDocker(t)

	d := NewTicketPurchaseDAO(testDB)
	ticket := seedTicket(t, false)

	created, err := d.Insert(context.Background(), TicketPurchase{
		TicketID:     ticket.ID,
		UserID:       1,
		ConferenceID: ticket.ConferenceID,
		Quantity:     1,
		Currency:     "USD",
	})
	require.NoError(t, err)

	paymentID := uint(7)
	require.NoError(t, d.MarkPaid(context.Background(), created.ID, &paymentID))

	found, err := d.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, found.Paid)
	require.NotNil(t, found.PaymentID)
	assert.Equal(t, uint(7), *found.PaymentID)

	assert.ErrorIs(t, d.MarkPaid(context.Background(), 999999, nil), ErrPurchaseNotFound)
}

func TestTicketPurchaseDAO_TransactionRollsBackOnError(t *testing.T) {
	skipWithoutDocker(t)

	d := NewTicketPurchaseDAO(testDB)
	ticket := seedTicket(t, false)

	sentinel := errors.New("abort")
	err := d.Transaction(context.Background(), func(txDAO *TicketPurchaseDAO) error {
		if _, err := txDAO.Insert(context.Background(), TicketPurchase{
			TicketID:     ticket.ID,
			UserID:       1,
			ConferenceID: ticket.ConferenceID,
			Quantity:     1,
			Currency:     "USD",
		}); err != nil {
			return err
		}

		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = d.FindUnpaid(context.Background(), ticket.ConferenceID, ticket.ID, 1)
	assert.ErrorIs(t, err, ErrPurchaseNotFound)
}

func TestTicketPurchaseDAO_PhysicalTickets(t *testing.T) {
	skipWithoutDocker(t)

	d := NewTicketPurchaseDAO(testDB)
	ticket := seedTicket(t, false)

	created, err := d.Insert(context.Background(), TicketPurchase{
		TicketID:     ticket.ID,
		UserID:       1,
		ConferenceID: ticket.ConferenceID,
		Quantity:     2,
		Currency:     "USD",
	})
	require.NoError(t, err)

	err = d.InsertPhysicalTickets(context.Background(), []PhysicalTicket{
		{TicketPurchaseID: created.ID, Token: fmt.Sprintf("token-%v-a", created.ID), QRCode: "qr-a"},
		{TicketPurchaseID: created.ID, Token: fmt.Sprintf("token-%v-b", created.ID), QRCode: "qr-b"},
	})
	require.NoError(t, err)

	found, err := d.FindPhysicalTickets(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "qr-a", found[0].QRCode)
	assert.Equal(t, "qr-b", found[1].QRCode)
}
