package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fedeguidottii/easyfood/internal/model"
)

// ErrOrderNotFound is returned when an order or order item cannot be
// found in the DB.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepo provides CRUD operations for orders and their items.
// Orders group together the lines submitted from a session's cart.
// Status strings are normalized at this boundary: legacy rows with
// lowercase statuses are mapped onto the closed uppercase set when
// scanned and never written back in lowercase.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

// OrderRecord mirrors the schema of the orders table.  It is used
// internally by the repository when constructing or scanning rows.
type OrderRecord struct {
	ID               uint64
	SessionID        uint64
	Status           string
	TotalAmountCents uint32
	CreatedAt        time.Time
	ClosedAt         *time.Time
}

// OrderItemRecord mirrors the order_items table.  Only fields needed
// for insertion are exposed.
type OrderItemRecord struct {
	OrderID  uint64
	DishID   uint64
	Quantity uint32
	Note     string
	Status   string
}

// CreateTx inserts a new order within the scope of an existing
// transaction.  It populates the generated ID and timestamps on the
// provided record.  The caller must commit or rollback the
// transaction.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *OrderRecord) error {
	const q = `INSERT INTO orders (session_id, status, total_amount_cents) VALUES (?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, rec.SessionID, rec.Status, rec.TotalAmountCents)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	const sel = `SELECT id, session_id, status, total_amount_cents, created_at, closed_at FROM orders WHERE id = ?`
	var closedAt sql.NullTime
	if err := tx.QueryRowContext(ctx, sel, rec.ID).Scan(
		&rec.ID, &rec.SessionID, &rec.Status, &rec.TotalAmountCents, &rec.CreatedAt, &closedAt,
	); err != nil {
		return err
	}
	if closedAt.Valid {
		t := closedAt.Time
		rec.ClosedAt = &t
	}
	return nil
}

// CreateItemsBulkTx inserts multiple order_items rows in a single
// statement.  The caller must supply the order ID in each record.
// Passing an empty slice has no effect and returns nil.
func (r *OrderRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, items []OrderItemRecord) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO order_items (order_id, dish_id, quantity, note, status) VALUES `
	args := make([]interface{}, 0, len(items)*5)
	for i, it := range items {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, it.OrderID, it.DishID, it.Quantity, it.Note, it.Status)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// OrderDetail encapsulates an order along with its items and the
// table it was placed from.  It is returned to customers and staff.
type OrderDetail struct {
	ID               uint64  `json:"id"`
	SessionID        uint64  `json:"session_id"`
	Status           string  `json:"status"`
	TotalAmountCents uint32  `json:"total_amount_cents"`
	TableNumber      string  `json:"table_number"`
	CreatedAt        string  `json:"created_at"`
	ClosedAt         *string `json:"closed_at,omitempty"`
	Items            []OrderItemDetail `json:"items"`
}

// OrderItemDetail is one dish line of an OrderDetail.
type OrderItemDetail struct {
	ID       uint64 `json:"id"`
	DishID   uint64 `json:"dish_id"`
	DishName string `json:"dish_name"`
	Quantity uint32 `json:"quantity"`
	Note     string `json:"note,omitempty"`
	Status   string `json:"status"`
}

func scanOrderHeader(rows interface{ Scan(...any) error }) (OrderDetail, error) {
	var d OrderDetail
	var rawStatus string
	var createdAt time.Time
	var closedAt sql.NullTime
	if err := rows.Scan(&d.ID, &d.SessionID, &rawStatus, &d.TotalAmountCents,
		&d.TableNumber, &createdAt, &closedAt); err != nil {
		return d, err
	}
	status, err := model.NormalizeOrderStatus(rawStatus)
	if err != nil {
		return d, err
	}
	d.Status = status
	d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	if closedAt.Valid {
		iso := closedAt.Time.UTC().Format(time.RFC3339)
		d.ClosedAt = &iso
	}
	d.Items = []OrderItemDetail{}
	return d, nil
}

// attachItems populates the items of all given orders in a single
// query, matching them back by order ID.
func (r *OrderRepo) attachItems(ctx context.Context, details []OrderDetail) ([]OrderDetail, error) {
	if len(details) == 0 {
		return details, nil
	}
	index := make(map[uint64]int, len(details))
	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for i, d := range details {
		index[d.ID] = i
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT oi.order_id, oi.id, oi.dish_id, d.name, oi.quantity, oi.note, oi.status
		  FROM order_items oi
		  JOIN dishes d ON d.id = oi.dish_id
		  WHERE oi.order_id IN (` + strings.Join(placeholders, ",") + `)
		  ORDER BY oi.order_id, oi.id`
	rows, err := r.db.QueryContext(ctx, q, ids...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var orderID uint64
		var it OrderItemDetail
		var rawStatus string
		if err := rows.Scan(&orderID, &it.ID, &it.DishID, &it.DishName, &it.Quantity, &it.Note, &rawStatus); err != nil {
			return nil, err
		}
		status, err := model.NormalizeItemStatus(rawStatus)
		if err != nil {
			return nil, err
		}
		it.Status = status
		idx, ok := index[orderID]
		if !ok {
			continue
		}
		details[idx].Items = append(details[idx].Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

const orderHeaderQ = `SELECT o.id, o.session_id, o.status, o.total_amount_cents, t.table_number, o.created_at, o.closed_at
					  FROM orders o
					  JOIN table_sessions ts ON ts.id = o.session_id
					  JOIN tables t ON t.id = ts.table_id`

// ListBySession returns all orders of a session with their items,
// newest first.  When no orders exist, an empty slice is returned.
func (r *OrderRepo) ListBySession(ctx context.Context, sessionID uint64) ([]OrderDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		orderHeaderQ+" WHERE o.session_id = ? ORDER BY o.created_at DESC", sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]OrderDetail, 0)
	for rows.Next() {
		d, err := scanOrderHeader(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachItems(ctx, details)
}

// ListByRestaurant returns orders across all sessions of a
// restaurant, optionally filtered to one status, newest first.  Used
// by kitchen and waiter views.
func (r *OrderRepo) ListByRestaurant(ctx context.Context, restaurantID uint64, status string) ([]OrderDetail, error) {
	q := orderHeaderQ + " WHERE t.restaurant_id = ?"
	args := []any{restaurantID}
	if status != "" {
		normalized, err := model.NormalizeOrderStatus(status)
		if err != nil {
			return nil, err
		}
		// legacy rows may still carry the lowercase spelling
		q += " AND (o.status = ? OR o.status = ?)"
		args = append(args, normalized, strings.ToLower(normalized))
	}
	q += " ORDER BY o.created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]OrderDetail, 0)
	for rows.Next() {
		d, err := scanOrderHeader(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.attachItems(ctx, details)
}

// UpdateItemStatus moves one order item through its fulfillment
// lifecycle.  The transition is validated against the current
// (normalized) status inside a transaction; invalid moves return
// ErrConflict.  The restaurant scope is enforced through the join.
func (r *OrderRepo) UpdateItemStatus(ctx context.Context, itemID, restaurantID uint64, to string) error {
	to, err := model.NormalizeItemStatus(to)
	if err != nil {
		return err
	}
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

	var rawStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT oi.status FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 JOIN table_sessions ts ON ts.id = o.session_id
		 JOIN tables t ON t.id = ts.table_id
		 WHERE oi.id = ? AND t.restaurant_id = ? FOR UPDATE`,
		itemID, restaurantID).Scan(&rawStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	from, err := model.NormalizeItemStatus(rawStatus)
	if err != nil {
		return err
	}
	if !model.CanTransitionItem(from, to) {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE order_items SET status = ? WHERE id = ?", to, itemID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// UpdateOrderStatus moves an order from OPEN to a terminal state and
// stamps closed_at.  Invalid transitions return ErrConflict.
func (r *OrderRepo) UpdateOrderStatus(ctx context.Context, orderID, restaurantID uint64, to string) error {
	to, err := model.NormalizeOrderStatus(to)
	if err != nil {
		return err
	}
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

	var rawStatus string
	err = tx.QueryRowContext(ctx,
		`SELECT o.status FROM orders o
		 JOIN table_sessions ts ON ts.id = o.session_id
		 JOIN tables t ON t.id = ts.table_id
		 WHERE o.id = ? AND t.restaurant_id = ? FOR UPDATE`,
		orderID, restaurantID).Scan(&rawStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	from, err := model.NormalizeOrderStatus(rawStatus)
	if err != nil {
		return err
	}
	if !model.CanTransitionOrder(from, to) {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = ?, closed_at = NOW() WHERE id = ?", to, orderID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CancelForSession cancels an order on behalf of its customers.  The
// cancellation is only allowed while the order is OPEN and every
// item is still PENDING; once the kitchen has picked anything up the
// request is refused with ErrConflict.  Items and order flip to
// CANCELLED in one transaction.
func (r *OrderRepo) CancelForSession(ctx context.Context, orderID, sessionID uint64) error {
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

	var rawStatus string
	err = tx.QueryRowContext(ctx,
		"SELECT status FROM orders WHERE id = ? AND session_id = ? FOR UPDATE",
		orderID, sessionID).Scan(&rawStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	status, err := model.NormalizeOrderStatus(rawStatus)
	if err != nil {
		return err
	}
	if status != model.OrderOpen {
		return ErrConflict
	}

	var started int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM order_items WHERE order_id = ? AND UPPER(status) <> ?",
		orderID, model.ItemPending).Scan(&started); err != nil {
		return err
	}
	if started > 0 {
		return ErrConflict
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE order_items SET status = ? WHERE order_id = ?", model.ItemCancelled, orderID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE orders SET status = ?, closed_at = NOW() WHERE id = ?", model.OrderCancelled, orderID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *OrderRepo) DB() *sql.DB { return r.db }
