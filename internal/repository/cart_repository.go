package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fedeguidottii/easyfood/internal/model"
)

// CartRepo holds the draft order lines of a session.  Lines are
// mutable until submission: identical (dish, notes) pairs merge by
// quantity, updates to a non-positive quantity delete the line, and
// removing an absent line is a no-op rather than an error.
type CartRepo struct {
	db *sql.DB
}

// NewCartRepo constructs a CartRepo with the provided DB handle.
func NewCartRepo(db *sql.DB) *CartRepo {
	return &CartRepo{db: db}
}

const cartCols = "id, session_id, dish_id, quantity, notes, created_at, updated_at"

func scanCartItem(row interface{ Scan(...any) error }) (*model.CartItem, error) {
	var ci model.CartItem
	if err := row.Scan(&ci.ID, &ci.SessionID, &ci.DishID, &ci.Quantity, &ci.Notes,
		&ci.CreatedAt, &ci.UpdatedAt); err != nil {
		return nil, err
	}
	return &ci, nil
}

// RequireOpenSessionTx locks the session row and verifies it is
// OPEN.  Writing cart lines against a missing or closed session
// would orphan them, so every cart mutation goes through this check.
// Order submission uses it too, under its own transaction.
func RequireOpenSessionTx(ctx context.Context, tx *sql.Tx, sessionID uint64) error {
	var status string
	err := tx.QueryRowContext(ctx,
		"SELECT status FROM table_sessions WHERE id = ? FOR UPDATE", sessionID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoOpenSession
	}
	if err != nil {
		return err
	}
	if status != model.SessionOpen {
		return ErrNoOpenSession
	}
	return nil
}

// AddItem inserts a draft line or, when a line with identical dish
// and identical notes already exists, increments its quantity.  The
// merged or created line is returned.
func (r *CartRepo) AddItem(ctx context.Context, sessionID, dishID uint64, quantity uint32, notes string) (*model.CartItem, error) {
	notes = strings.TrimSpace(notes)
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

	if err := RequireOpenSessionTx(ctx, tx, sessionID); err != nil {
		return nil, err
	}

	var lineID uint64
	var existing uint32
	err = tx.QueryRowContext(ctx,
		"SELECT id, quantity FROM cart_items WHERE session_id = ? AND dish_id = ? AND notes = ? LIMIT 1 FOR UPDATE",
		sessionID, dishID, notes).Scan(&lineID, &existing)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx,
			"UPDATE cart_items SET quantity = quantity + ? WHERE id = ?",
			quantity, lineID); err != nil {
			return nil, err
		}
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx,
			"INSERT INTO cart_items (session_id, dish_id, quantity, notes) VALUES (?, ?, ?, ?)",
			sessionID, dishID, quantity, notes)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		lineID = uint64(id)
	default:
		return nil, err
	}

	item, err := scanCartItem(tx.QueryRowContext(ctx,
		"SELECT "+cartCols+" FROM cart_items WHERE id = ?", lineID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return item, nil
}

// UpdateQuantity sets a line's quantity.  A quantity of zero or less
// deletes the line instead of writing a non-positive value; deleting
// an already-absent line is a no-op.  Raising the quantity of an
// absent line returns sql.ErrNoRows.
func (r *CartRepo) UpdateQuantity(ctx context.Context, sessionID, itemID uint64, quantity int32) error {
	if quantity <= 0 {
		_, err := r.db.ExecContext(ctx,
			"DELETE FROM cart_items WHERE id = ? AND session_id = ?", itemID, sessionID)
		return err
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = ? WHERE id = ? AND session_id = ?",
		quantity, itemID, sessionID)
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

// Remove deletes a line unconditionally.  Removing an absent line is
// a no-op, not an error.
func (r *CartRepo) Remove(ctx context.Context, sessionID, itemID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE id = ? AND session_id = ?", itemID, sessionID)
	return err
}

// CartLine is the customer-facing view of a draft line, joined with
// its dish.
type CartLine struct {
	ID         uint64 `json:"id"`
	DishID     uint64 `json:"dish_id"`
	DishName   string `json:"dish_name"`
	PriceCents uint32 `json:"price_cents"`
	Quantity   uint32 `json:"quantity"`
	Notes      string `json:"notes,omitempty"`
}

// ListBySession returns the session's draft lines joined with dish
// names and current prices, oldest line first.
func (r *CartRepo) ListBySession(ctx context.Context, sessionID uint64) ([]CartLine, error) {
	const q = `SELECT ci.id, ci.dish_id, d.name, d.price_cents, ci.quantity, ci.notes
			   FROM cart_items ci
			   JOIN dishes d ON d.id = ci.dish_id
			   WHERE ci.session_id = ?
			   ORDER BY ci.id`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CartLine, 0)
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.ID, &l.DishID, &l.DishName, &l.PriceCents, &l.Quantity, &l.Notes); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ListBySessionTx loads the session's raw lines with row locks held,
// for use inside the order submission transaction.
func (r *CartRepo) ListBySessionTx(ctx context.Context, tx *sql.Tx, sessionID uint64) ([]model.CartItem, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT "+cartCols+" FROM cart_items WHERE session_id = ? ORDER BY id FOR UPDATE", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.CartItem, 0)
	for rows.Next() {
		ci, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ci)
	}
	return out, rows.Err()
}

// ClearTx deletes all lines of a session inside the given
// transaction.  Called immediately after successful order creation.
func (r *CartRepo) ClearTx(ctx context.Context, tx *sql.Tx, sessionID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE session_id = ?", sessionID)
	return err
}

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *CartRepo) DB() *sql.DB { return r.db }
