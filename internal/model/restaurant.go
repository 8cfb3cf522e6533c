package model

import "time"

// Restaurant represents a tenant on the platform.  Each restaurant
// belongs to one owner and contains tables, categories and dishes.
// This struct corresponds to a row in the `restaurants` table.
//
// Fields:
//  ID               – primary key identifier.
//  OwnerID          – user ID of the restaurant owner.
//  Name             – unique name of the restaurant per owner.
//  LogoPath         – storage path of the uploaded logo (nil when unset).
//  CoverChargeCents – per-person cover charge (coperto) in cents.
//  AllYouCanEat     – whether the AYCE fixed-price mode is offered.
//  IsActive         – whether the restaurant is visible to customers.
//  CreatedAt        – timestamp when the restaurant was created.
//  UpdatedAt        – timestamp of last update.
type Restaurant struct {
	ID               uint64    // restaurants.id
	OwnerID          uint64    // restaurants.owner_id
	Name             string    // restaurants.name
	LogoPath         *string   // restaurants.logo_path (nullable)
	CoverChargeCents uint32    // restaurants.cover_charge_cents
	AllYouCanEat     bool      // restaurants.all_you_can_eat
	IsActive         bool      // restaurants.is_active
	CreatedAt        time.Time // restaurants.created_at
	UpdatedAt        time.Time // restaurants.updated_at
}

// JSON returns the wire representation of the restaurant with the
// legacy camelCase mirror keys added next to their snake_case
// originals.  Stored clients read either spelling.
func (r Restaurant) JSON() map[string]any {
	m := map[string]any{
		"id":                 r.ID,
		"owner_id":           r.OwnerID,
		"name":               r.Name,
		"cover_charge":       r.CoverChargeCents,
		"all_you_can_eat":    r.AllYouCanEat,
		"is_active":          r.IsActive,
		"created_at":         r.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":         r.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if r.LogoPath != nil {
		m["logo_path"] = *r.LogoPath
	}
	return WithMirrors(m)
}
