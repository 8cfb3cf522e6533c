package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fedeguidottii/easyfood/internal/model"
	"github.com/fedeguidottii/easyfood/internal/utils"
)

// ErrTableNotFound is returned when a table cannot be found in the DB.
var ErrTableNotFound = errors.New("table not found")

// TableRepo encapsulates all database queries related to restaurant
// tables.  Each table carries a rotatable qr_token that customers
// scan to reach the table's menu and session.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the provided DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

const tableCols = "id, restaurant_id, table_number, seats, qr_token, is_active, created_at, updated_at"

func scanTable(row interface{ Scan(...any) error }) (*model.Table, error) {
	var t model.Table
	if err := row.Scan(&t.ID, &t.RestaurantID, &t.Number, &t.Seats, &t.QRToken,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new table with a freshly generated QR token.  On
// success the ID, token and timestamp fields are populated.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	token, err := utils.RandomHex(16)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tables (restaurant_id, table_number, seats, qr_token) VALUES (?, ?, ?, ?)",
		t.RestaurantID, t.Number, t.Seats, token)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	stored, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *stored
	return nil
}

// CreateBulk inserts count numbered tables ("1".."count") for a
// restaurant in a single transaction and returns the created rows.
// Table numbers continue after the highest existing numeric name so
// repeated bulk calls do not collide.
func (r *TableRepo) CreateBulk(ctx context.Context, restaurantID uint64, count int, seats uint32) ([]*model.Table, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var existing int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tables WHERE restaurant_id = ?", restaurantID).Scan(&existing); err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, count)
	for i := 0; i < count; i++ {
		token, err := utils.RandomHex(16)
		if err != nil {
			return nil, err
		}
		number := fmt.Sprintf("%d", existing+i+1)
		res, err := tx.ExecContext(ctx,
			"INSERT INTO tables (restaurant_id, table_number, seats, qr_token) VALUES (?, ?, ?, ?)",
			restaurantID, number, seats, token)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint64(id))
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	out := make([]*model.Table, 0, len(ids))
	for _, id := range ids {
		t, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// GetByID fetches a table by id.  Returns ErrTableNotFound when absent.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx,
		"SELECT "+tableCols+" FROM tables WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	return t, err
}

// GetByQRToken resolves the table encoded in a scanned QR code.
// Inactive tables are not resolvable.
func (r *TableRepo) GetByQRToken(ctx context.Context, token string) (*model.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx,
		"SELECT "+tableCols+" FROM tables WHERE qr_token = ? AND is_active = 1", token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	return t, err
}

// ListByRestaurant returns all tables of a restaurant ordered by id.
func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]*model.Table, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+tableCols+" FROM tables WHERE restaurant_id = ? ORDER BY id", restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update changes a table's number, seat count and active flag.
// Returns sql.ErrNoRows when the table is absent.
func (r *TableRepo) Update(ctx context.Context, id uint64, number string, seats uint32, isActive bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tables SET table_number=?, seats=?, is_active=? WHERE id=?",
		number, seats, isActive, id)
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

// RotateQRToken replaces the table's QR token, invalidating printed
// codes, and returns the new token.
func (r *TableRepo) RotateQRToken(ctx context.Context, id uint64) (string, error) {
	token, err := utils.RandomHex(16)
	if err != nil {
		return "", err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE tables SET qr_token=? WHERE id=?", token, id)
	if err != nil {
		return "", err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", sql.ErrNoRows
	}
	return token, nil
}

// Delete removes a table.  Deletion is refused with ErrConflict while
// the table still has sessions, open or closed; billing history must
// be kept.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	var sessions int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM table_sessions WHERE table_id = ?", id).Scan(&sessions); err != nil {
		return err
	}
	if sessions > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM tables WHERE id = ?", id)
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
