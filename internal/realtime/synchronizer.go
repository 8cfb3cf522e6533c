// Package realtime turns broker notifications into full-state
// snapshots for live table views. Events carry no payload, so the
// synchronizer re-reads the database on every notification and ships
// the complete list downstream; streams therefore self-heal after any
// missed event.
package realtime

import (
	"context"
	"log"

	"github.com/fedeguidottii/easyfood/internal/queue"
)

// FetchFunc loads the current full state of one view slice.
type FetchFunc func(ctx context.Context) (any, error)

// Snapshot is one refreshed view slice pushed to a subscriber.
type Snapshot struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload"`
}

// Synchronizer bridges a stream of table events to snapshot pushes
// for a single session view.
type Synchronizer struct {
	sessionID uint64
	cart      FetchFunc
	orders    FetchFunc
}

// NewSynchronizer builds a synchronizer for one session with the two
// fetchers a live view needs.
func NewSynchronizer(sessionID uint64, cart, orders FetchFunc) *Synchronizer {
	return &Synchronizer{sessionID: sessionID, cart: cart, orders: orders}
}

// Run consumes events until ctx is cancelled or the event channel
// closes, then closes the returned channel. It first pushes an
// initial snapshot of both slices so subscribers never start blank.
// Kitchen item updates arrive unscoped; they refresh the orders slice
// only when they concern this session is unknowable without payload,
// so the orders list is refetched regardless. A failed fetch is
// logged and skipped; the next event retries naturally.
func (s *Synchronizer) Run(ctx context.Context, events <-chan queue.TableEvent) <-chan Snapshot {
	out := make(chan Snapshot)
	go func() {
		defer close(out)
		if !s.push(ctx, out, queue.KindCart) {
			return
		}
		if !s.push(ctx, out, queue.KindOrders) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				kind := ev.Kind
				if kind == queue.KindOrderItems {
					kind = queue.KindOrders
				}
				if ev.SessionID != 0 && ev.SessionID != s.sessionID {
					continue
				}
				if !s.push(ctx, out, kind) {
					return
				}
			}
		}
	}()
	return out
}

// push refetches one slice and delivers it. Returns false when the
// context died and the loop should stop.
func (s *Synchronizer) push(ctx context.Context, out chan<- Snapshot, kind string) bool {
	var fetch FetchFunc
	switch kind {
	case queue.KindCart:
		fetch = s.cart
	case queue.KindOrders:
		fetch = s.orders
	default:
		return true
	}
	payload, err := fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		log.Printf("realtime: fetch %s for session %d failed: %v", kind, s.sessionID, err)
		return true
	}
	select {
	case out <- Snapshot{Kind: kind, Payload: payload}:
		return true
	case <-ctx.Done():
		return false
	}
}
