package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Conference{},
		&Registration{},
		&Ticket{},
		&TicketPurchase{},
		&PhysicalTicket{},
		&CurrencyConversion{},
		&Payment{},
	)
	if err != nil {
		return err
	}

	// Partial unique indexes backing the purchase invariants. AutoMigrate
	// cannot express the WHERE clauses, so they are created explicitly.
	indexes := []string{
		// One unpaid purchase per user per ticket per conference; a newer
		// attempt updates it in place instead of piling up duplicates.
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_unpaid_ticket_purchase
			ON ticket_purchases (user_id, ticket_id, conference_id) WHERE NOT paid`,
		// One registration-ticket purchase per user per conference. This is
		// the last-resort guard against two racing purchase requests.
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_registration_ticket_purchase
			ON ticket_purchases (user_id, conference_id) WHERE for_registration`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
