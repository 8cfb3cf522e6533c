package model

import "time"

// Table describes a physical table in a restaurant.  Customers reach
// the table's menu and session by scanning a QR code that encodes
// the table's qr_token.  Rotating the token invalidates printed
// codes.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant to which this table belongs.
//  Number       – table number or name printed on the physical table.
//  Seats        – seat count of the table.
//  QRToken      – random token encoded in the table's QR code.
//  IsActive     – whether the table is active.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Table struct {
	ID           uint64    // tables.id
	RestaurantID uint64    // tables.restaurant_id
	Number       string    // tables.table_number
	Seats        uint32    // tables.seats
	QRToken      string    // tables.qr_token
	IsActive     bool      // tables.is_active
	CreatedAt    time.Time // tables.created_at
	UpdatedAt    time.Time // tables.updated_at
}

// JSON returns the wire representation with camelCase mirror keys.
func (t Table) JSON() map[string]any {
	return WithMirrors(map[string]any{
		"id":            t.ID,
		"restaurant_id": t.RestaurantID,
		"table_number":  t.Number,
		"seats":         t.Seats,
		"qr_token":      t.QRToken,
		"is_active":     t.IsActive,
		"created_at":    t.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":    t.UpdatedAt.UTC().Format(time.RFC3339),
	})
}
