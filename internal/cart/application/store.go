package application

import (
	"context"
	"errors"
	"sync"

	"github.com/crocshop/cart-service/internal/cart/domain"
)

var ErrStoreClosed = errors.New("cart store closed")

// Option configures a Store.
type Option func(*Store)

// WithStockClamp makes the store cap add/update quantities at the product's
// StockQuantity. Off by default: the storefront UI disables further
// increments at the stock ceiling, and the store mirrors that permissive
// behavior unless a deployment opts in.
func WithStockClamp() Option {
	return func(s *Store) { s.clampStock = true }
}

type request struct {
	action domain.Action
	reply  chan domain.CartState
}

// Store holds the authoritative cart state for one session. A single
// goroutine owns the state and applies one action at a time; Dispatch
// returns the post-transition snapshot after all subscribers have seen it.
type Store struct {
	clampStock bool

	requests  chan request
	stop      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	mu    sync.RWMutex
	state domain.CartState
	subs  []func(domain.CartState)
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		requests: make(chan request),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

func (s *Store) run() {
	defer close(s.stopped)
	for {
		select {
		case <-s.stop:
			return
		case req := <-s.requests:
			s.mu.Lock()
			next := domain.Reduce(s.state, s.clamp(s.state, req.action))
			s.state = next
			subs := make([]func(domain.CartState), len(s.subs))
			copy(subs, s.subs)
			s.mu.Unlock()

			// Every handout gets its own copy of the line list so no
			// caller can write into the live state through a snapshot.
			for _, fn := range subs {
				fn(next.Clone())
			}
			req.reply <- next.Clone()
		}
	}
}

// clamp rewrites an action so the resulting quantity cannot exceed the
// product's stock. Clamping to zero stock degrades to removal, which is a
// no-op for a line that was never added.
func (s *Store) clamp(state domain.CartState, a domain.Action) domain.Action {
	if !s.clampStock {
		return a
	}
	switch act := a.(type) {
	case domain.AddItem:
		stock := act.Product.StockQuantity
		if line, ok := state.Line(act.Product.ID); ok && line.Quantity+1 > stock {
			return domain.UpdateQuantity{ProductID: act.Product.ID, Quantity: stock}
		}
		if stock < 1 {
			return domain.UpdateQuantity{ProductID: act.Product.ID, Quantity: 0}
		}
		return act
	case domain.UpdateQuantity:
		if line, ok := state.Line(act.ProductID); ok && act.Quantity > line.Product.StockQuantity {
			act.Quantity = line.Product.StockQuantity
		}
		return act
	default:
		return a
	}
}

// Dispatch applies one action and returns the new snapshot. Subscribers are
// invoked before Dispatch returns. Invalid inputs (unknown id, non-positive
// quantity) are no-ops, never errors; the only errors are a closed store or
// a cancelled context.
func (s *Store) Dispatch(ctx context.Context, a domain.Action) (domain.CartState, error) {
	req := request{action: a, reply: make(chan domain.CartState, 1)}
	select {
	case s.requests <- req:
	case <-s.stop:
		return domain.CartState{}, ErrStoreClosed
	case <-ctx.Done():
		return domain.CartState{}, ctx.Err()
	}
	select {
	case state := <-req.reply:
		return state, nil
	case <-ctx.Done():
		return domain.CartState{}, ctx.Err()
	}
}

// Snapshot returns a copy of the current state without dispatching.
func (s *Store) Snapshot() domain.CartState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers fn to be called with every new snapshot, in dispatch
// order. Subscriptions last for the life of the store.
func (s *Store) Subscribe(fn func(domain.CartState)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Close stops the dispatch loop and waits for it to exit. In-flight
// dispatches that already reached the loop still complete.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.stop) })
	<-s.stopped
}
