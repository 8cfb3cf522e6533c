// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for restaurant tenants. A restaurant
// is the unit of multi-tenancy: tables, categories, dishes, sessions and
// bookings all hang off a restaurant row.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fedeguidottii/easyfood/internal/model"
)

// ErrRestaurantNotFound is returned when a restaurant cannot be found in the DB.
var ErrRestaurantNotFound = errors.New("restaurant not found")

// RestaurantRepo encapsulates all database queries related to restaurants.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo constructs a RestaurantRepo with the provided DB handle.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo {
	return &RestaurantRepo{db: db}
}

const restaurantCols = "id, owner_id, name, logo_path, cover_charge_cents, all_you_can_eat, is_active, created_at, updated_at"

func scanRestaurant(row interface{ Scan(...any) error }) (*model.Restaurant, error) {
	var r model.Restaurant
	if err := row.Scan(&r.ID, &r.OwnerID, &r.Name, &r.LogoPath, &r.CoverChargeCents,
		&r.AllYouCanEat, &r.IsActive, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a new restaurant.  On success the ID and timestamp
// fields are populated from the stored row.
func (r *RestaurantRepo) Create(ctx context.Context, rest *model.Restaurant) error {
	const qInsert = "INSERT INTO restaurants (owner_id, name, cover_charge_cents, all_you_can_eat) VALUES (?, ?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, rest.OwnerID, rest.Name, rest.CoverChargeCents, rest.AllYouCanEat)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rest.ID = uint64(id)

	stored, err := r.GetByID(ctx, rest.ID)
	if err != nil {
		return err
	}
	*rest = *stored
	return nil
}

// GetByID fetches a restaurant by its ID regardless of owner.  It
// returns ErrRestaurantNotFound if no row is found.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	rest, err := scanRestaurant(r.db.QueryRowContext(ctx,
		"SELECT "+restaurantCols+" FROM restaurants WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	return rest, err
}

// GetByIDAndOwner fetches a restaurant by id but only if it belongs to
// the specified owner.  If the restaurant doesn't exist or is owned by
// someone else, ErrRestaurantNotFound is returned.
func (r *RestaurantRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Restaurant, error) {
	rest, err := scanRestaurant(r.db.QueryRowContext(ctx,
		"SELECT "+restaurantCols+" FROM restaurants WHERE id = ? AND owner_id = ?", id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRestaurantNotFound
	}
	return rest, err
}

// ListByOwner returns all restaurants for a specific owner ordered by id.
func (r *RestaurantRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+restaurantCols+" FROM restaurants WHERE owner_id = ? ORDER BY id", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}

// ListAll returns every restaurant tenant, newest first.  Used by the
// admin panel.
func (r *RestaurantRepo) ListAll(ctx context.Context) ([]*model.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+restaurantCols+" FROM restaurants ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Restaurant
	for rows.Next() {
		rest, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}

// UpdateProfile updates the mutable restaurant fields if the row
// belongs to the provided owner.  It returns sql.ErrNoRows when no
// row is affected (not found / not owned).
func (r *RestaurantRepo) UpdateProfile(ctx context.Context, id, ownerID uint64, name string, coverChargeCents uint32, allYouCanEat, isActive bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE restaurants SET name=?, cover_charge_cents=?, all_you_can_eat=?, is_active=?
		 WHERE id=? AND owner_id=?`,
		name, coverChargeCents, allYouCanEat, isActive, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetLogoPath records the storage path of an uploaded logo.
func (r *RestaurantRepo) SetLogoPath(ctx context.Context, id, ownerID uint64, path string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE restaurants SET logo_path=? WHERE id=? AND owner_id=?", path, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteCascadeTx removes a restaurant and all dependent rows inside
// the given transaction.  The dependent deletes run leaf-first so no
// foreign key is left dangling.  Owner account handling is NOT part
// of this transaction; the caller deactivates the owner best-effort
// afterwards.
func (r *RestaurantRepo) DeleteCascadeTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	statements := []string{
		`DELETE oi FROM order_items oi
		   JOIN orders o ON o.id = oi.order_id
		   JOIN table_sessions ts ON ts.id = o.session_id
		   JOIN tables t ON t.id = ts.table_id
		  WHERE t.restaurant_id = ?`,
		`DELETE o FROM orders o
		   JOIN table_sessions ts ON ts.id = o.session_id
		   JOIN tables t ON t.id = ts.table_id
		  WHERE t.restaurant_id = ?`,
		`DELETE ci FROM cart_items ci
		   JOIN table_sessions ts ON ts.id = ci.session_id
		   JOIN tables t ON t.id = ts.table_id
		  WHERE t.restaurant_id = ?`,
		`DELETE ts FROM table_sessions ts
		   JOIN tables t ON t.id = ts.table_id
		  WHERE t.restaurant_id = ?`,
		`DELETE FROM bookings WHERE restaurant_id = ?`,
		`DELETE FROM price_schedules WHERE restaurant_id = ?`,
		`DELETE FROM dishes WHERE restaurant_id = ?`,
		`DELETE FROM categories WHERE restaurant_id = ?`,
		`DELETE FROM tables WHERE restaurant_id = ?`,
		`DELETE FROM restaurants WHERE id = ?`,
	}
	for _, q := range statements {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return nil
}

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *RestaurantRepo) DB() *sql.DB { return r.db }
