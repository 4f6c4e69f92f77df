// Command seed provisions a development database: an admin, an attendee,
// a conference with a ticket catalog and a EUR->USD conversion rate.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/confaro/confaro-api/internal/config"
	"github.com/confaro/confaro-api/internal/db"
	"github.com/confaro/confaro-api/internal/domain"
	"github.com/confaro/confaro-api/internal/repository"
	"github.com/confaro/confaro-api/internal/repository/dao"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to initialize tables -> %w", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(dao.NewUserDAO(postgresDB))

	if err = seedUser(ctx, users, domain.User{Email: "admin@confaro.test", Name: "Admin", Admin: true}); err != nil {
		return err
	}
	if err = seedUser(ctx, users, domain.User{Email: "attendee@confaro.test", Name: "Attendee"}); err != nil {
		return err
	}

	conference := dao.Conference{ShortTitle: "gophercon", Title: "GopherCon", Currency: "EUR"}
	result := postgresDB.Where(dao.Conference{ShortTitle: conference.ShortTitle}).FirstOrCreate(&conference)
	if result.Error != nil {
		return fmt.Errorf("failed to seed conference -> %w", result.Error)
	}

	tickets := []dao.Ticket{
		{ConferenceID: conference.ID, Title: "Registration", Price: decimal.NewFromInt(50), PriceCurrency: "EUR", RegistrationTicket: true, Visible: true},
		{ConferenceID: conference.ID, Title: "Workshop Day", Price: decimal.NewFromInt(120), PriceCurrency: "EUR", Visible: true},
		{ConferenceID: conference.ID, Title: "Community", Price: decimal.Zero, PriceCurrency: "EUR", Visible: true},
	}
	for i := range tickets {
		result = postgresDB.
			Where(dao.Ticket{ConferenceID: conference.ID, Title: tickets[i].Title}).
			FirstOrCreate(&tickets[i])
		if result.Error != nil {
			return fmt.Errorf("failed to seed ticket %q -> %w", tickets[i].Title, result.Error)
		}
	}

	conversions := dao.NewCurrencyConversionDAO(postgresDB)
	_, err = conversions.Insert(ctx, dao.CurrencyConversion{
		ConferenceID: conference.ID,
		FromCurrency: "EUR",
		ToCurrency:   "USD",
		Rate:         decimal.RequireFromString("1.1"),
	})
	if err != nil && !errors.Is(err, dao.ErrConversionExists) {
		return fmt.Errorf("failed to seed conversion -> %w", err)
	}

	log.Printf("seeded conference %q with %v tickets", conference.ShortTitle, len(tickets))

	return nil
}

func seedUser(ctx context.Context, users *repository.UserRepository, user domain.User) error {
	_, err := users.FindByEmail(ctx, user.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("failed to look up user %v -> %w", user.Email, err)
	}

	if _, err = users.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to seed user %v -> %w", user.Email, err)
	}

	return nil
}
