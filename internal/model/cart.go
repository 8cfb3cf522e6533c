package model

import "time"

// CartItem is a draft order line owned by a session.  Lines are
// mutable (quantity edits, removal) until the cart is submitted,
// then deleted.  Lines with identical dish and identical notes are
// merged by incrementing the quantity.
//
// Fields:
//  ID        – primary key identifier.
//  SessionID – owning table session.
//  DishID    – referenced dish.
//  Quantity  – positive line quantity.
//  Notes     – free-text preparation notes ("" when none).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type CartItem struct {
	ID        uint64    // cart_items.id
	SessionID uint64    // cart_items.session_id
	DishID    uint64    // cart_items.dish_id
	Quantity  uint32    // cart_items.quantity
	Notes     string    // cart_items.notes
	CreatedAt time.Time // cart_items.created_at
	UpdatedAt time.Time // cart_items.updated_at
}
