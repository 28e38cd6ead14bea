package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/crocshop/cart-service/internal/cart/domain"
	"github.com/crocshop/cart-service/pkg/tracing"
)

// Notifier publishes cart notifications to a topic, keyed by session id so
// one session's toasts stay ordered.
type Notifier struct {
	log      *slog.Logger
	producer Producer
	topic    string
}

func NewNotifier(log *slog.Logger, producer Producer, topic string) *Notifier {
	return &Notifier{log: log, producer: producer, topic: topic}
}

type notificationPayload struct {
	SessionID   string `json:"session_id"`
	Event       string `json:"event"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (n *Notifier) Notify(ctx context.Context, note domain.Notification) error {
	payload, err := json.Marshal(notificationPayload{
		SessionID:   note.SessionID,
		Event:       string(note.Event),
		Title:       note.Title,
		Description: note.Description,
	})
	if err != nil {
		return err
	}

	headers := []kafka.Header{{Key: "event_type", Value: []byte(note.Event)}}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	msg := kafka.Message{
		Topic:   n.topic,
		Key:     []byte(note.SessionID),
		Value:   payload,
		Headers: headers,
	}
	if err := n.producer.WriteMessages(ctx, msg); err != nil {
		n.log.Error("notification publish failed", "session_id", note.SessionID, "event", string(note.Event), "err", err)
		return err
	}
	n.log.Info("notification published", "session_id", note.SessionID, "event", string(note.Event))
	return nil
}
