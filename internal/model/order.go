package model

import "time"

// Order is an immutable-once-created record of items sent to the
// kitchen, scoped to a session.  The total is computed from the cart
// at submission time and never recomputed.
//
// Fields:
//  ID               – primary key identifier.
//  SessionID        – owning table session.
//  Status           – OPEN, PAID or CANCELLED.
//  TotalAmountCents – sum of dish price × quantity over all lines.
//  CreatedAt        – creation timestamp.
//  ClosedAt         – when the order reached a terminal state (nil while open).
type Order struct {
	ID               uint64     // orders.id
	SessionID        uint64     // orders.session_id
	Status           string     // orders.status
	TotalAmountCents uint32     // orders.total_amount_cents
	CreatedAt        time.Time  // orders.created_at
	ClosedAt         *time.Time // orders.closed_at (nullable)
}

// OrderItem is one dish line within an order.  Its fulfillment
// status is mutated by kitchen and waiter actions only; customers
// can only create PENDING items via submission.
//
// Fields:
//  ID        – primary key identifier.
//  OrderID   – owning order.
//  DishID    – referenced dish.
//  Quantity  – line quantity.
//  Note      – free-text note carried over from the cart line.
//  Status    – PENDING, IN_PREPARATION, READY, SERVED or CANCELLED.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type OrderItem struct {
	ID        uint64    // order_items.id
	OrderID   uint64    // order_items.order_id
	DishID    uint64    // order_items.dish_id
	Quantity  uint32    // order_items.quantity
	Note      string    // order_items.note
	Status    string    // order_items.status
	CreatedAt time.Time // order_items.created_at
	UpdatedAt time.Time // order_items.updated_at
}

// OrderTotalCents sums dish price × quantity over the given cart
// lines.  priceByDish maps dish IDs to their current catalog price
// in cents.  The boolean result is false when a line references a
// dish missing from the price map, in which case the total is
// meaningless and the submission must fail.
func OrderTotalCents(lines []CartItem, priceByDish map[uint64]uint32) (uint32, bool) {
	total := uint32(0)
	for _, l := range lines {
		p, ok := priceByDish[l.DishID]
		if !ok {
			return 0, false
		}
		total += p * l.Quantity
	}
	return total, true
}
