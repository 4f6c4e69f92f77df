package notify

import (
	"go.uber.org/zap"

	"github.com/confaro/confaro-api/internal/domain"
)

// LogNotifier is the stand-in used when no broker is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) TicketConfirmation(purchase domain.TicketPurchase) error {
	zap.L().Info("ticket confirmation",
		zap.Uint("purchase_id", purchase.ID),
		zap.Uint("user_id", purchase.UserID),
		zap.Int("quantity", purchase.Quantity),
	)

	return nil
}
