package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fedeguidottii/easyfood/internal/model"
)

// ErrBookingNotFound is returned when a booking cannot be found.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo stores advance table reservations.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the provided DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

const bookingCols = "id, restaurant_id, table_id, name, phone, guests, booked_for, note, created_at"

// Create inserts a booking and populates generated fields.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO bookings (restaurant_id, table_id, name, phone, guests, booked_for, note) VALUES (?, ?, ?, ?, ?, ?, ?)",
		b.RestaurantID, b.TableID, b.Name, b.Phone, b.Guests, b.BookedFor, b.Note)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id = ?", b.ID).Scan(
		&b.ID, &b.RestaurantID, &b.TableID, &b.Name, &b.Phone, &b.Guests, &b.BookedFor, &b.Note, &b.CreatedAt)
}

// ListByRestaurant returns a restaurant's bookings ordered by the
// reserved time, soonest first.
func (r *BookingRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE restaurant_id = ? ORDER BY booked_for", restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.RestaurantID, &b.TableID, &b.Name, &b.Phone,
			&b.Guests, &b.BookedFor, &b.Note, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

// Delete removes a booking within its restaurant.  Returns
// ErrBookingNotFound when absent.
func (r *BookingRepo) Delete(ctx context.Context, id, restaurantID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM bookings WHERE id = ? AND restaurant_id = ?", id, restaurantID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}
