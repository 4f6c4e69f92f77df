// Package notify delivers ticket confirmation notifications. Dispatch is
// fire-and-forget: a failed delivery is logged, never surfaced to the
// purchase flow, and at-least-once semantics are acceptable downstream.
package notify

import "github.com/confaro/confaro-api/internal/domain"

type Notifier interface {
	TicketConfirmation(purchase domain.TicketPurchase) error
}
