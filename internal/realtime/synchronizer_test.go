package realtime

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fedeguidottii/easyfood/internal/queue"
)

// countingFetch returns a FetchFunc that reports its call count and
// yields the given payload.
func countingFetch(calls *atomic.Int32, payload any) FetchFunc {
	return func(ctx context.Context) (any, error) {
		calls.Add(1)
		return payload, nil
	}
}

// recv pulls one snapshot with a deadline so a broken synchronizer
// fails the test instead of hanging it.
func recv(t *testing.T, out <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-out:
		if !ok {
			t.Fatal("snapshot channel closed early")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return Snapshot{}
}

func TestRunPushesInitialSnapshots(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cartCalls, orderCalls atomic.Int32
	s := NewSynchronizer(5,
		countingFetch(&cartCalls, "cart-state"),
		countingFetch(&orderCalls, "order-state"))

	events := make(chan queue.TableEvent)
	out := s.Run(ctx, events)

	first := recv(t, out)
	if first.Kind != queue.KindCart || first.Payload != "cart-state" {
		t.Fatalf("first snapshot = %+v, want initial cart", first)
	}
	second := recv(t, out)
	if second.Kind != queue.KindOrders || second.Payload != "order-state" {
		t.Fatalf("second snapshot = %+v, want initial orders", second)
	}
}

func TestRunRefetchesOnEvent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cartCalls, orderCalls atomic.Int32
	s := NewSynchronizer(5,
		countingFetch(&cartCalls, "cart-state"),
		countingFetch(&orderCalls, "order-state"))

	events := make(chan queue.TableEvent, 1)
	out := s.Run(ctx, events)
	recv(t, out) // initial cart
	recv(t, out) // initial orders

	events <- queue.TableEvent{Kind: queue.KindCart, SessionID: 5}
	snap := recv(t, out)
	if snap.Kind != queue.KindCart {
		t.Fatalf("snapshot kind = %q, want %q", snap.Kind, queue.KindCart)
	}
	if got := cartCalls.Load(); got != 2 {
		t.Fatalf("cart fetch called %d times, want 2", got)
	}
}

func TestRunMapsItemEventsToOrders(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cartCalls, orderCalls atomic.Int32
	s := NewSynchronizer(5,
		countingFetch(&cartCalls, "cart-state"),
		countingFetch(&orderCalls, "order-state"))

	events := make(chan queue.TableEvent, 1)
	out := s.Run(ctx, events)
	recv(t, out)
	recv(t, out)

	// kitchen item updates are unscoped and refresh the orders slice
	events <- queue.TableEvent{Kind: queue.KindOrderItems}
	snap := recv(t, out)
	if snap.Kind != queue.KindOrders {
		t.Fatalf("snapshot kind = %q, want %q", snap.Kind, queue.KindOrders)
	}
	if got := orderCalls.Load(); got != 2 {
		t.Fatalf("orders fetch called %d times, want 2", got)
	}
}

func TestRunSkipsForeignSessionEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cartCalls, orderCalls atomic.Int32
	s := NewSynchronizer(5,
		countingFetch(&cartCalls, "cart-state"),
		countingFetch(&orderCalls, "order-state"))

	events := make(chan queue.TableEvent, 2)
	out := s.Run(ctx, events)
	recv(t, out)
	recv(t, out)

	events <- queue.TableEvent{Kind: queue.KindCart, SessionID: 99} // not ours
	events <- queue.TableEvent{Kind: queue.KindOrders, SessionID: 5}
	snap := recv(t, out)
	if snap.Kind != queue.KindOrders {
		t.Fatalf("snapshot kind = %q, want %q (foreign event should be dropped)", snap.Kind, queue.KindOrders)
	}
	if got := cartCalls.Load(); got != 1 {
		t.Fatalf("cart fetch called %d times after foreign event, want 1", got)
	}
}

func TestRunSkipsFailedFetch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var orderCalls atomic.Int32
	var cartCalls atomic.Int32
	cart := func(ctx context.Context) (any, error) {
		if cartCalls.Add(1) == 2 {
			return nil, errors.New("db gone")
		}
		return "cart-state", nil
	}
	s := NewSynchronizer(5, cart, countingFetch(&orderCalls, "order-state"))

	events := make(chan queue.TableEvent, 2)
	out := s.Run(ctx, events)
	recv(t, out)
	recv(t, out)

	events <- queue.TableEvent{Kind: queue.KindCart, SessionID: 5} // fetch fails, skipped
	events <- queue.TableEvent{Kind: queue.KindCart, SessionID: 5} // retries and succeeds
	snap := recv(t, out)
	if snap.Kind != queue.KindCart || snap.Payload != "cart-state" {
		t.Fatalf("snapshot = %+v, want recovered cart snapshot", snap)
	}
	if got := cartCalls.Load(); got != 3 {
		t.Fatalf("cart fetch called %d times, want 3", got)
	}
}

func TestRunClosesOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var cartCalls, orderCalls atomic.Int32
	s := NewSynchronizer(5,
		countingFetch(&cartCalls, "cart-state"),
		countingFetch(&orderCalls, "order-state"))

	events := make(chan queue.TableEvent)
	out := s.Run(ctx, events)
	recv(t, out)
	recv(t, out)

	cancel()
	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("got snapshot after cancel, want closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot channel not closed after cancel")
	}
}

func TestRunClosesWhenEventsClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cartCalls, orderCalls atomic.Int32
	s := NewSynchronizer(5,
		countingFetch(&cartCalls, "cart-state"),
		countingFetch(&orderCalls, "order-state"))

	events := make(chan queue.TableEvent)
	out := s.Run(ctx, events)
	recv(t, out)
	recv(t, out)

	close(events)
	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("got snapshot after events closed, want closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot channel not closed after events closed")
	}
}
