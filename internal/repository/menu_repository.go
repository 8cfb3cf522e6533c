package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fedeguidottii/easyfood/internal/model"
)

// ErrCategoryNotFound is returned when a category cannot be found.
var ErrCategoryNotFound = errors.New("category not found")

// ErrDishNotFound is returned when a dish cannot be found.
var ErrDishNotFound = errors.New("dish not found")

// MenuRepo encapsulates database queries for the menu catalog:
// categories and dishes.  The ordering flow treats the catalog as
// read-only; only owner endpoints mutate it.
type MenuRepo struct {
	db *sql.DB
}

// NewMenuRepo constructs a MenuRepo with the provided DB handle.
func NewMenuRepo(db *sql.DB) *MenuRepo {
	return &MenuRepo{db: db}
}

const categoryCols = "id, restaurant_id, name, sort_order, created_at, updated_at"
const dishCols = "id, restaurant_id, category_id, name, description, price_cents, is_active, created_at, updated_at"

func scanCategory(row interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	if err := row.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanDish(row interface{ Scan(...any) error }) (*model.Dish, error) {
	var d model.Dish
	if err := row.Scan(&d.ID, &d.RestaurantID, &d.CategoryID, &d.Name, &d.Description,
		&d.PriceCents, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// ---- Categories ----

// CreateCategory inserts a category and populates generated fields.
func (r *MenuRepo) CreateCategory(ctx context.Context, c *model.Category) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (restaurant_id, name, sort_order) VALUES (?, ?, ?)",
		c.RestaurantID, c.Name, c.SortOrder)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	stored, err := scanCategory(r.db.QueryRowContext(ctx,
		"SELECT "+categoryCols+" FROM categories WHERE id = ?", c.ID))
	if err != nil {
		return err
	}
	*c = *stored
	return nil
}

// UpdateCategory renames/reorders a category within its restaurant.
func (r *MenuRepo) UpdateCategory(ctx context.Context, id, restaurantID uint64, name string, sortOrder uint32) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name=?, sort_order=? WHERE id=? AND restaurant_id=?",
		name, sortOrder, id, restaurantID)
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

// DeleteCategory removes a category.  ErrConflict is returned while
// dishes are still listed under it.
func (r *MenuRepo) DeleteCategory(ctx context.Context, id, restaurantID uint64) error {
	var dishes int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM dishes WHERE category_id = ?", id).Scan(&dishes); err != nil {
		return err
	}
	if dishes > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM categories WHERE id=? AND restaurant_id=?", id, restaurantID)
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

// ListCategories returns all categories of a restaurant in menu order.
func (r *MenuRepo) ListCategories(ctx context.Context, restaurantID uint64) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+categoryCols+" FROM categories WHERE restaurant_id = ? ORDER BY sort_order, id",
		restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ---- Dishes ----

// CreateDish inserts a dish and populates generated fields.
func (r *MenuRepo) CreateDish(ctx context.Context, d *model.Dish) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO dishes (restaurant_id, category_id, name, description, price_cents, is_active) VALUES (?, ?, ?, ?, ?, ?)",
		d.RestaurantID, d.CategoryID, d.Name, d.Description, d.PriceCents, d.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	stored, err := r.GetDishByID(ctx, d.ID)
	if err != nil {
		return err
	}
	*d = *stored
	return nil
}

// GetDishByID fetches a dish by id.  Returns ErrDishNotFound when absent.
func (r *MenuRepo) GetDishByID(ctx context.Context, id uint64) (*model.Dish, error) {
	d, err := scanDish(r.db.QueryRowContext(ctx,
		"SELECT "+dishCols+" FROM dishes WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDishNotFound
	}
	return d, err
}

// UpdateDish changes a dish's mutable fields within its restaurant.
func (r *MenuRepo) UpdateDish(ctx context.Context, d *model.Dish) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE dishes SET category_id=?, name=?, description=?, price_cents=?, is_active=?
		 WHERE id=? AND restaurant_id=?`,
		d.CategoryID, d.Name, d.Description, d.PriceCents, d.IsActive, d.ID, d.RestaurantID)
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

// DeleteDish removes a dish.  ErrConflict is returned while order
// lines still reference it; order history keeps its dish references.
func (r *MenuRepo) DeleteDish(ctx context.Context, id, restaurantID uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM order_items WHERE dish_id = ?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM dishes WHERE id=? AND restaurant_id=?", id, restaurantID)
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

// ListDishes returns all dishes of a restaurant, optionally only
// active ones, ordered by category then name.
func (r *MenuRepo) ListDishes(ctx context.Context, restaurantID uint64, activeOnly bool) ([]*model.Dish, error) {
	q := "SELECT " + dishCols + " FROM dishes WHERE restaurant_id = ?"
	if activeOnly {
		q += " AND is_active = 1"
	}
	q += " ORDER BY category_id, name"
	rows, err := r.db.QueryContext(ctx, q, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// PricesByDishIDs returns the current catalog price of each given
// dish belonging to the restaurant.  Dishes of other restaurants are
// silently absent from the result, which makes cross-tenant
// references fail the total computation upstream.
func (r *MenuRepo) PricesByDishIDs(ctx context.Context, restaurantID uint64, dishIDs []uint64) (map[uint64]uint32, error) {
	prices := make(map[uint64]uint32, len(dishIDs))
	if len(dishIDs) == 0 {
		return prices, nil
	}
	q := "SELECT id, price_cents FROM dishes WHERE restaurant_id = ? AND id IN ("
	args := make([]any, 0, len(dishIDs)+1)
	args = append(args, restaurantID)
	for i, id := range dishIDs {
		if i > 0 {
			q += ","
		}
		q += "?"
		args = append(args, id)
	}
	q += ")"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		var price uint32
		if err := rows.Scan(&id, &price); err != nil {
			return nil, err
		}
		prices[id] = price
	}
	return prices, rows.Err()
}
