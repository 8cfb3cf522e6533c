package model

import "time"

// TableSession represents one seating at one table, from open to
// close.  At most one OPEN session may exist per table at any time;
// the session repository enforces this inside the opening
// transaction.  The cover charge is captured per person at open
// time so later menu edits do not change a running bill.
//
// Fields:
//  ID               – primary key identifier.
//  TableID          – table being seated.
//  Status           – OPEN or CLOSED.
//  CustomerCount    – number of guests at the table.
//  CoverChargeCents – per-person cover charge captured at open.
//  AycePriceCents   – per-person AYCE price captured at open (0 when not AYCE).
//  PIN              – access PIN handed to the guests.
//  OpenedAt         – when the session was opened.
//  ClosedAt         – when the session was closed (nil while open).
type TableSession struct {
	ID               uint64     // table_sessions.id
	TableID          uint64     // table_sessions.table_id
	Status           string     // table_sessions.status
	CustomerCount    uint32     // table_sessions.customer_count
	CoverChargeCents uint32     // table_sessions.cover_charge_cents
	AycePriceCents   uint32     // table_sessions.ayce_price_cents
	PIN              string     // table_sessions.pin
	OpenedAt         time.Time  // table_sessions.opened_at
	ClosedAt         *time.Time // table_sessions.closed_at (nullable)
}

// Session status values.
const (
	SessionOpen   = "OPEN"
	SessionClosed = "CLOSED"
)

// JSON returns the wire representation with camelCase mirror keys.
// The PIN is only included when includePIN is true; it is handed out
// once when the session is created and never echoed afterwards.
func (s TableSession) JSON(includePIN bool) map[string]any {
	m := map[string]any{
		"id":             s.ID,
		"table_id":       s.TableID,
		"status":         s.Status,
		"customer_count": s.CustomerCount,
		"cover_charge":   s.CoverChargeCents,
		"opened_at":      s.OpenedAt.UTC().Format(time.RFC3339),
	}
	if s.AycePriceCents > 0 {
		m["ayce_price_cents"] = s.AycePriceCents
	}
	if s.ClosedAt != nil {
		m["closed_at"] = s.ClosedAt.UTC().Format(time.RFC3339)
	}
	if includePIN {
		m["pin"] = s.PIN
	}
	return WithMirrors(m)
}
