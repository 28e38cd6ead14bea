package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/crocshop/cart-service/internal/cart/domain"
	catalog "github.com/crocshop/cart-service/internal/catalog/domain"
)

func testProduct(id string, priceCents int64, stock int) catalog.Product {
	return catalog.Product{ID: id, Name: "croc " + id, PriceCents: priceCents, StockQuantity: stock, InStock: stock > 0}
}

func TestStore_DispatchReturnsNewSnapshot(t *testing.T) {
	store := NewStore()
	defer store.Close()

	state, err := store.Dispatch(context.Background(), domain.AddItem{Product: testProduct("A", 100, 5)})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if state.ItemCount != 1 || state.TotalCents != 100 {
		t.Fatalf("unexpected snapshot: %+v", state)
	}
	if got := store.Snapshot(); got.ItemCount != 1 {
		t.Fatalf("Snapshot disagrees with dispatch result: %+v", got)
	}
}

func TestStore_SubscriberSeesEverySnapshotBeforeDispatchReturns(t *testing.T) {
	store := NewStore()
	defer store.Close()

	var seen []domain.CartState
	store.Subscribe(func(s domain.CartState) {
		seen = append(seen, s)
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		state, err := store.Dispatch(ctx, domain.AddItem{Product: testProduct("A", 100, 5)})
		if err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
		// Synchronous publish: by the time Dispatch returns, the
		// subscriber must have seen this exact snapshot.
		if len(seen) != i+1 {
			t.Fatalf("after dispatch %d: %d snapshots seen", i, len(seen))
		}
		if seen[i].ItemCount != state.ItemCount {
			t.Fatalf("subscriber saw %+v, dispatch returned %+v", seen[i], state)
		}
	}
	for i, s := range seen {
		if s.ItemCount != i+1 {
			t.Fatalf("snapshots out of dispatch order: %+v", seen)
		}
	}
}

func TestStore_ReturnedSnapshotsAreIsolated(t *testing.T) {
	store := NewStore()
	defer store.Close()

	state, err := store.Dispatch(context.Background(), domain.AddItem{Product: testProduct("A", 100, 5)})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	state.Items[0].Quantity = 99
	if got := store.Snapshot(); got.Items[0].Quantity != 1 {
		t.Fatalf("mutating a dispatch result leaked into the store: quantity=%d", got.Items[0].Quantity)
	}

	snap := store.Snapshot()
	snap.Items[0].Quantity = 42
	if got := store.Snapshot(); got.Items[0].Quantity != 1 {
		t.Fatalf("mutating a Snapshot result leaked into the store: quantity=%d", got.Items[0].Quantity)
	}
}

func TestStore_SubscriberSnapshotsAreIsolated(t *testing.T) {
	store := NewStore()
	defer store.Close()

	store.Subscribe(func(s domain.CartState) {
		if len(s.Items) > 0 {
			s.Items[0].Quantity = 77
		}
	})

	state, err := store.Dispatch(context.Background(), domain.AddItem{Product: testProduct("A", 100, 5)})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if state.Items[0].Quantity != 1 {
		t.Fatalf("subscriber mutation leaked into the dispatch result: quantity=%d", state.Items[0].Quantity)
	}
	if got := store.Snapshot(); got.Items[0].Quantity != 1 {
		t.Fatalf("subscriber mutation leaked into the store: quantity=%d", got.Items[0].Quantity)
	}
}

func TestStore_SerializesConcurrentDispatches(t *testing.T) {
	store := NewStore()
	defer store.Close()

	const workers = 8
	const addsPerWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < addsPerWorker; i++ {
				if _, err := store.Dispatch(context.Background(), domain.AddItem{Product: testProduct("A", 10, 1000)}); err != nil {
					t.Errorf("dispatch: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	state := store.Snapshot()
	if state.ItemCount != workers*addsPerWorker {
		t.Fatalf("lost increments: expected %d, got %d", workers*addsPerWorker, state.ItemCount)
	}
	if err := state.Validate(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestStore_StockClampCapsAdds(t *testing.T) {
	store := NewStore(WithStockClamp())
	defer store.Close()

	ctx := context.Background()
	p := testProduct("A", 100, 2)
	for i := 0; i < 5; i++ {
		if _, err := store.Dispatch(ctx, domain.AddItem{Product: p}); err != nil {
			t.Fatalf("dispatch: %v", err)
		}
	}

	state := store.Snapshot()
	line, ok := state.Line("A")
	if !ok || line.Quantity != 2 {
		t.Fatalf("expected quantity clamped to 2, got %+v", line)
	}
}

func TestStore_StockClampCapsUpdates(t *testing.T) {
	store := NewStore(WithStockClamp())
	defer store.Close()

	ctx := context.Background()
	if _, err := store.Dispatch(ctx, domain.AddItem{Product: testProduct("A", 100, 3)}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	state, err := store.Dispatch(ctx, domain.UpdateQuantity{ProductID: "A", Quantity: 99})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if line, _ := state.Line("A"); line.Quantity != 3 {
		t.Fatalf("expected quantity clamped to 3, got %d", line.Quantity)
	}
}

func TestStore_StockClampOutOfStockAddIsNoop(t *testing.T) {
	store := NewStore(WithStockClamp())
	defer store.Close()

	state, err := store.Dispatch(context.Background(), domain.AddItem{Product: testProduct("A", 100, 0)})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(state.Items) != 0 {
		t.Fatalf("out-of-stock product was added: %+v", state)
	}
}

func TestStore_WithoutClampQuantityMayExceedStock(t *testing.T) {
	store := NewStore()
	defer store.Close()

	ctx := context.Background()
	p := testProduct("A", 100, 1)
	for i := 0; i < 3; i++ {
		if _, err := store.Dispatch(ctx, domain.AddItem{Product: p}); err != nil {
			t.Fatalf("dispatch: %v", err)
		}
	}
	if line, _ := store.Snapshot().Line("A"); line.Quantity != 3 {
		t.Fatalf("default store should not clamp, got quantity %d", line.Quantity)
	}
}

func TestStore_DispatchAfterCloseFails(t *testing.T) {
	store := NewStore()
	store.Close()

	_, err := store.Dispatch(context.Background(), domain.Clear{})
	if !errors.Is(err, ErrStoreClosed) {
		t.Fatalf("expected ErrStoreClosed, got %v", err)
	}
}

func TestSessions_OneStorePerSession(t *testing.T) {
	sessions := NewSessions()
	defer sessions.Close()

	a := sessions.Get("s1")
	b := sessions.Get("s1")
	c := sessions.Get("s2")

	if a != b {
		t.Fatalf("same session returned distinct stores")
	}
	if a == c {
		t.Fatalf("distinct sessions share a store")
	}

	if _, err := a.Dispatch(context.Background(), domain.AddItem{Product: testProduct("A", 100, 5)}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := c.Snapshot(); got.ItemCount != 0 {
		t.Fatalf("cart state leaked across sessions: %+v", got)
	}
}

func TestSessions_DropClosesStore(t *testing.T) {
	sessions := NewSessions()
	defer sessions.Close()

	store := sessions.Get("s1")
	sessions.Drop("s1")

	if _, err := store.Dispatch(context.Background(), domain.Clear{}); !errors.Is(err, ErrStoreClosed) {
		t.Fatalf("expected ErrStoreClosed after drop, got %v", err)
	}
	if sessions.Get("s1") == store {
		t.Fatalf("dropped store was resurrected")
	}
}
