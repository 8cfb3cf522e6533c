package repository

import (
	"context"
	"database/sql"

	"github.com/fedeguidottii/easyfood/internal/model"
)

// ScheduleRepo stores the weekly AYCE price grid of a restaurant.
// The grid is replaced wholesale on writes; individual cell updates
// never happen in practice.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo constructs a ScheduleRepo with the provided DB handle.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

// Replace swaps a restaurant's whole schedule grid in one
// transaction: delete then bulk insert.
func (r *ScheduleRepo) Replace(ctx context.Context, restaurantID uint64, entries []model.PriceSchedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM price_schedules WHERE restaurant_id = ?", restaurantID); err != nil {
		return err
	}
	if len(entries) > 0 {
		q := "INSERT INTO price_schedules (restaurant_id, weekday, meal, price_cents, enabled) VALUES "
		args := make([]any, 0, len(entries)*5)
		for i, e := range entries {
			if i > 0 {
				q += ","
			}
			q += "(?, ?, ?, ?, ?)"
			args = append(args, restaurantID, e.Weekday, e.Meal, e.PriceCents, e.Enabled)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByRestaurant returns the schedule grid ordered by weekday then meal.
func (r *ScheduleRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.PriceSchedule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, restaurant_id, weekday, meal, price_cents, enabled
		 FROM price_schedules WHERE restaurant_id = ? ORDER BY weekday, meal`,
		restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.PriceSchedule, 0)
	for rows.Next() {
		var e model.PriceSchedule
		if err := rows.Scan(&e.ID, &e.RestaurantID, &e.Weekday, &e.Meal, &e.PriceCents, &e.Enabled); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
