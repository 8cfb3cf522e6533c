package model

import "time"

// Category groups dishes on a restaurant's menu.  Categories are
// ordered by SortOrder when the menu is rendered.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – owning restaurant.
//  Name         – unique category name per restaurant.
//  SortOrder    – position of the category on the menu.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Category struct {
	ID           uint64    // categories.id
	RestaurantID uint64    // categories.restaurant_id
	Name         string    // categories.name
	SortOrder    uint32    // categories.sort_order
	CreatedAt    time.Time // categories.created_at
	UpdatedAt    time.Time // categories.updated_at
}

// Dish is a menu catalog entry.  Dishes are referenced, never owned,
// by cart and order lines; the ordering flow treats them as
// read-only.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – owning restaurant.
//  CategoryID   – category the dish is listed under.
//  Name         – dish name.
//  Description  – optional free-text description.
//  PriceCents   – price in cents.
//  IsActive     – whether the dish is currently orderable.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Dish struct {
	ID           uint64    // dishes.id
	RestaurantID uint64    // dishes.restaurant_id
	CategoryID   uint64    // dishes.category_id
	Name         string    // dishes.name
	Description  *string   // dishes.description (nullable)
	PriceCents   uint32    // dishes.price_cents
	IsActive     bool      // dishes.is_active
	CreatedAt    time.Time // dishes.created_at
	UpdatedAt    time.Time // dishes.updated_at
}

// JSON returns the wire representation with camelCase mirror keys.
func (d Dish) JSON() map[string]any {
	m := map[string]any{
		"id":            d.ID,
		"restaurant_id": d.RestaurantID,
		"category_id":   d.CategoryID,
		"name":          d.Name,
		"price_cents":   d.PriceCents,
		"is_active":     d.IsActive,
		"created_at":    d.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":    d.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if d.Description != nil {
		m["description"] = *d.Description
	}
	return WithMirrors(m)
}
