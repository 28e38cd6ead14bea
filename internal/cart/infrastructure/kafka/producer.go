package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Producer is the slice of kafka.Writer the notifier needs.
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Writer struct {
	*kafka.Writer
}

func NewWriter(brokers []string) *Writer {
	return &Writer{
		Writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (w *Writer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return w.Writer.WriteMessages(ctx, msgs...)
}
