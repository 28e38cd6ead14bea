package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crocshop/cart-service/internal/cart/domain"
)

// Service is the action façade: it binds each cart mutation to its
// user-facing notification. It holds no cart logic of its own — transitions
// live in the domain reducer, one store per session.
type Service struct {
	log      *slog.Logger
	sessions *Sessions
	catalog  Catalog
	notifier Notifier
}

func NewService(log *slog.Logger, sessions *Sessions, catalog Catalog, notifier Notifier) *Service {
	return &Service{
		log:      log,
		sessions: sessions,
		catalog:  catalog,
		notifier: notifier,
	}
}

func (s *Service) AddToCart(ctx context.Context, sessionID, productID string) (domain.CartState, error) {
	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return domain.CartState{}, fmt.Errorf("resolve product %q: %w", productID, err)
	}
	state, err := s.sessions.Get(sessionID).Dispatch(ctx, domain.AddItem{Product: p})
	if err != nil {
		return domain.CartState{}, err
	}
	s.notify(ctx, domain.Notification{
		SessionID:   sessionID,
		Event:       domain.EventItemAdded,
		Title:       "Added to cart",
		Description: fmt.Sprintf("%s has been added to your cart.", p.Name),
	})
	return state, nil
}

func (s *Service) RemoveFromCart(ctx context.Context, sessionID, productID string) (domain.CartState, error) {
	state, err := s.sessions.Get(sessionID).Dispatch(ctx, domain.RemoveItem{ProductID: productID})
	if err != nil {
		return domain.CartState{}, err
	}
	s.notify(ctx, domain.Notification{
		SessionID:   sessionID,
		Event:       domain.EventItemRemoved,
		Title:       "Removed from cart",
		Description: "The item has been removed from your cart.",
	})
	return state, nil
}

// UpdateQuantity sets a line's quantity. It deliberately does not notify:
// the storefront only toasts on add, remove and clear.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (domain.CartState, error) {
	return s.sessions.Get(sessionID).Dispatch(ctx, domain.UpdateQuantity{ProductID: productID, Quantity: quantity})
}

func (s *Service) ClearCart(ctx context.Context, sessionID string) (domain.CartState, error) {
	state, err := s.sessions.Get(sessionID).Dispatch(ctx, domain.Clear{})
	if err != nil {
		return domain.CartState{}, err
	}
	s.notify(ctx, domain.Notification{
		SessionID:   sessionID,
		Event:       domain.EventCartCleared,
		Title:       "Cart cleared",
		Description: "All items have been removed from your cart.",
	})
	return state, nil
}

// EndSession tears down a session's store and its dispatch goroutine. The
// id is free to be reused; a later request simply gets a fresh empty cart.
func (s *Service) EndSession(_ context.Context, sessionID string) {
	s.sessions.Drop(sessionID)
}

// Cart returns the current snapshot without mutating anything.
func (s *Service) Cart(ctx context.Context, sessionID string) domain.CartState {
	return s.sessions.Get(sessionID).Snapshot()
}

// notify delivers the acknowledgment for a mutation that already succeeded;
// a delivery failure must not fail the mutation.
func (s *Service) notify(ctx context.Context, n domain.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.log.Error("notification delivery failed", "session_id", n.SessionID, "event", string(n.Event), "err", err)
	}
}
