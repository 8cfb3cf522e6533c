// Package queue defines message payloads exchanged over the message broker.
package queue

import "fmt"

// TableEventsExchange is the topic exchange carrying live table
// activity. Routing keys scope events to one session's cart or
// orders; item-level kitchen updates go out unscoped so every open
// session view can react.
const TableEventsExchange = "table.events"

// Event kinds carried by TableEvent.
const (
	KindCart       = "cart"
	KindOrders     = "orders"
	KindOrderItems = "order_items"
)

// TableEvent signals that some slice of a session's live state
// changed and subscribers should refetch. It intentionally carries no
// data beyond identity: consumers always re-read from the primary
// database, so a lost or duplicated event costs a refetch, never
// correctness.
type TableEvent struct {
	Kind      string `json:"kind"`
	SessionID uint64 `json:"session_id"`
	EmittedAt string `json:"emitted_at"`
}

// RoutingKey returns the topic key an event is published under.
func (e TableEvent) RoutingKey() string {
	switch e.Kind {
	case KindCart:
		return fmt.Sprintf("session.%d.cart", e.SessionID)
	case KindOrders:
		return fmt.Sprintf("session.%d.orders", e.SessionID)
	default:
		return KindOrderItems
	}
}

// SessionBindings returns the binding keys a subscriber for one
// session uses on the topic exchange.
func SessionBindings(sessionID uint64) []string {
	return []string{
		fmt.Sprintf("session.%d.cart", sessionID),
		fmt.Sprintf("session.%d.orders", sessionID),
		KindOrderItems,
	}
}

// OrderSubmittedEvent is published when a cart is turned into an
// order. It carries enough for downstream consumers to log or notify
// without querying the primary database.
type OrderSubmittedEvent struct {
	OrderID          uint64 `json:"order_id"`
	SessionID        uint64 `json:"session_id"`
	RestaurantID     uint64 `json:"restaurant_id"`
	RestaurantName   string `json:"restaurant_name"`
	TableNumber      string `json:"table_number"`
	ItemCount        int    `json:"item_count"`
	TotalAmountCents uint32 `json:"total_amount_cents"`
	SubmittedAt      string `json:"submitted_at"`
}
