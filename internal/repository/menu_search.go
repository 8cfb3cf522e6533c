package repository

import (
	"context"
	"strings"
)

// DishSearchQuery defines filters & pagination for the public dish search.
type DishSearchQuery struct {
	Name       string
	Restaurant string
	Category   string
	MaxCents   uint32
	Page       int
	PageSize   int
}

type PublicDishRow struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	CategoryID     uint64  `json:"category_id"`
	CategoryName   string  `json:"category_name"`
	RestaurantID   uint64  `json:"restaurant_id"`
	RestaurantName string  `json:"restaurant"`
	PriceCents     uint32  `json:"price_cents"`
	Price          float64 `json:"price"`
}

// SearchDishes runs the public dish search over active dishes of
// active restaurants.  Results are paginated; the second return
// value is the total row count before pagination.
func (r *MenuRepo) SearchDishes(ctx context.Context, q DishSearchQuery) ([]PublicDishRow, int64, error) {
	where := []string{"d.is_active = 1", "rst.is_active = 1"}
	args := []any{}

	if q.Name != "" {
		where = append(where, "LOWER(d.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Name)+"%")
	}
	if q.Restaurant != "" {
		where = append(where, "LOWER(rst.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Restaurant)+"%")
	}
	if q.Category != "" {
		where = append(where, "LOWER(c.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(q.Category)+"%")
	}
	if q.MaxCents > 0 {
		where = append(where, "d.price_cents <= ?")
		args = append(args, q.MaxCents)
	}
	cond := strings.Join(where, " AND ")

	const base = `FROM dishes d
	              JOIN categories c ON c.id = d.category_id
	              JOIN restaurants rst ON rst.id = d.restaurant_id
	              WHERE `

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) "+base+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := `SELECT d.id, d.name, c.id, c.name, rst.id, rst.name, d.price_cents ` +
		base + cond + " ORDER BY rst.name, c.sort_order, d.name LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, size, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PublicDishRow, 0)
	for rows.Next() {
		var d PublicDishRow
		if err := rows.Scan(&d.ID, &d.Name, &d.CategoryID, &d.CategoryName,
			&d.RestaurantID, &d.RestaurantName, &d.PriceCents); err != nil {
			return nil, 0, err
		}
		d.Price = float64(d.PriceCents) / 100.0
		out = append(out, d)
	}
	return out, total, rows.Err()
}
