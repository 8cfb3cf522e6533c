package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/fedeguidottii/easyfood/internal/model"
	"github.com/fedeguidottii/easyfood/internal/utils"
)

// SessionRepo resolves and manages table sessions.  The invariant it
// guards: at most one OPEN session per table at any time.  Opening
// runs inside a transaction that locks the table's open session row;
// concurrent first-opens that deadlock on the gap lock are retried,
// so two staff members opening the same table concurrently converge
// on a single session instead of creating two.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo constructs a SessionRepo with the provided DB handle.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

const sessionCols = "id, table_id, status, customer_count, cover_charge_cents, ayce_price_cents, pin, opened_at, closed_at"

func scanSession(row interface{ Scan(...any) error }) (*model.TableSession, error) {
	var s model.TableSession
	if err := row.Scan(&s.ID, &s.TableID, &s.Status, &s.CustomerCount, &s.CoverChargeCents,
		&s.AycePriceCents, &s.PIN, &s.OpenedAt, &s.ClosedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindOpenByTable returns the single OPEN session for a table, or
// ErrNoOpenSession when the table is empty.
func (r *SessionRepo) FindOpenByTable(ctx context.Context, tableID uint64) (*model.TableSession, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx,
		"SELECT "+sessionCols+" FROM table_sessions WHERE table_id = ? AND status = ? LIMIT 1",
		tableID, model.SessionOpen))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoOpenSession
	}
	return s, err
}

// GetByID fetches a session by id.  Returns ErrNoOpenSession for
// missing rows so callers have a single "no data" sentinel.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.TableSession, error) {
	s, err := scanSession(r.db.QueryRowContext(ctx,
		"SELECT "+sessionCols+" FROM table_sessions WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoOpenSession
	}
	return s, err
}

// Open finds or creates the OPEN session for a table.  The returned
// bool is true when a new session was created.  The open-session row
// is locked FOR UPDATE inside the transaction, so opens against an
// already-seated table serialize on the row lock.  When no session
// exists yet, two simultaneous creators can deadlock on the gap lock
// instead; the loser's transaction is rolled back and retried once,
// at which point it finds the winner's row.  Either way the
// one-OPEN-per-table invariant holds.
func (r *SessionRepo) Open(ctx context.Context, tableID uint64, customerCount, coverChargeCents, aycePriceCents uint32) (*model.TableSession, bool, error) {
	s, created, err := r.open(ctx, tableID, customerCount, coverChargeCents, aycePriceCents)
	if isDeadlock(err) {
		return r.open(ctx, tableID, customerCount, coverChargeCents, aycePriceCents)
	}
	return s, created, err
}

// isDeadlock reports whether err is MySQL error 1213 (deadlock
// found; transaction rolled back).
func isDeadlock(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1213
}

func (r *SessionRepo) open(ctx context.Context, tableID uint64, customerCount, coverChargeCents, aycePriceCents uint32) (*model.TableSession, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var existingID uint64
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM table_sessions WHERE table_id = ? AND status = ? LIMIT 1 FOR UPDATE",
		tableID, model.SessionOpen).Scan(&existingID)
	switch {
	case err == nil:
		s, err := scanSession(tx.QueryRowContext(ctx,
			"SELECT "+sessionCols+" FROM table_sessions WHERE id = ?", existingID))
		if err != nil {
			return nil, false, err
		}
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		committed = true
		return s, false, nil
	case errors.Is(err, sql.ErrNoRows):
		// fall through to creation
	default:
		return nil, false, err
	}

	pin, err := utils.GeneratePIN()
	if err != nil {
		return nil, false, err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO table_sessions (table_id, status, customer_count, cover_charge_cents, ayce_price_cents, pin)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		tableID, model.SessionOpen, customerCount, coverChargeCents, aycePriceCents, pin)
	if err != nil {
		return nil, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, err
	}
	s, err := scanSession(tx.QueryRowContext(ctx,
		"SELECT "+sessionCols+" FROM table_sessions WHERE id = ?", uint64(id)))
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	committed = true
	return s, true, nil
}

// Close ends an OPEN session: status flips to CLOSED, closed_at is
// stamped and the draft cart is emptied.  Submitted orders remain
// for billing history.  Returns ErrNoOpenSession when the session is
// absent or already closed.
func (r *SessionRepo) Close(ctx context.Context, sessionID uint64) error {
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

	res, err := tx.ExecContext(ctx,
		"UPDATE table_sessions SET status=?, closed_at=NOW() WHERE id=? AND status=?",
		model.SessionClosed, sessionID, model.SessionOpen)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoOpenSession
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM cart_items WHERE session_id = ?", sessionID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// OpenSessionRow is the staff-facing view of a running session,
// joined with its table.
type OpenSessionRow struct {
	ID               uint64 `json:"id"`
	TableID          uint64 `json:"table_id"`
	TableNumber      string `json:"table_number"`
	CustomerCount    uint32 `json:"customer_count"`
	CoverChargeCents uint32 `json:"cover_charge"`
	OpenedAt         string `json:"opened_at"`
}

// ListOpenByRestaurant returns all running sessions of a restaurant,
// oldest first, joined with their table numbers.
func (r *SessionRepo) ListOpenByRestaurant(ctx context.Context, restaurantID uint64) ([]OpenSessionRow, error) {
	const q = `SELECT ts.id, ts.table_id, t.table_number, ts.customer_count, ts.cover_charge_cents, ts.opened_at
			   FROM table_sessions ts
			   JOIN tables t ON t.id = ts.table_id
			   WHERE t.restaurant_id = ? AND ts.status = ?
			   ORDER BY ts.opened_at`
	rows, err := r.db.QueryContext(ctx, q, restaurantID, model.SessionOpen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OpenSessionRow, 0)
	for rows.Next() {
		var row OpenSessionRow
		var openedAt sql.NullTime
		if err := rows.Scan(&row.ID, &row.TableID, &row.TableNumber, &row.CustomerCount,
			&row.CoverChargeCents, &openedAt); err != nil {
			return nil, err
		}
		if openedAt.Valid {
			row.OpenedAt = openedAt.Time.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// RestaurantIDForSession resolves the restaurant a session belongs
// to, for ownership checks.  Returns ErrNoOpenSession when the
// session does not exist.
func (r *SessionRepo) RestaurantIDForSession(ctx context.Context, sessionID uint64) (uint64, error) {
	var restaurantID uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT t.restaurant_id FROM table_sessions ts
		 JOIN tables t ON t.id = ts.table_id
		 WHERE ts.id = ?`, sessionID).Scan(&restaurantID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoOpenSession
	}
	return restaurantID, err
}

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *SessionRepo) DB() *sql.DB { return r.db }
