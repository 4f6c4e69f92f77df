package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/confaro/confaro-api/internal/domain"
)

// KafkaNotifier publishes confirmation events for the mailer worker to pick up.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})

	return &KafkaNotifier{writer: writer}
}

func (n *KafkaNotifier) TicketConfirmation(purchase domain.TicketPurchase) error {
	msg, err := json.Marshal(purchase)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	err = n.writer.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(fmt.Sprintf("purchase-%d", purchase.ID)),
		Value: msg,
	})
	if err != nil {
		return fmt.Errorf("n.writer.WriteMessages -> %w", err)
	}

	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
