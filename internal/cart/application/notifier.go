package application

import (
	"context"
	"log/slog"

	"github.com/crocshop/cart-service/internal/cart/domain"
)

// LogNotifier writes notifications to the log. It is the default collaborator
// when no broker is configured.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, note domain.Notification) error {
	n.log.Info("cart notification",
		"session_id", note.SessionID,
		"event", string(note.Event),
		"title", note.Title,
		"description", note.Description,
	)
	return nil
}
