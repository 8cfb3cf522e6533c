package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/repository"
)

const sessionByIDQuery = "SELECT id, table_id, status, customer_count, cover_charge_cents, ayce_price_cents, pin, opened_at, closed_at FROM table_sessions WHERE id = ? LIMIT 1"

func sessionRow(status, pin string) *sqlmock.Rows {
	var closedAt any
	if status == "CLOSED" {
		closedAt = time.Now()
	}
	return sqlmock.NewRows([]string{
		"id", "table_id", "status", "customer_count", "cover_charge_cents",
		"ayce_price_cents", "pin", "opened_at", "closed_at",
	}).AddRow(7, 3, status, 2, 200, 0, pin, time.Now(), closedAt)
}

// callSessionPIN runs one request through the middleware and reports
// the response code plus whether the inner handler ran.
func callSessionPIN(t *testing.T, mock sqlmock.Sqlmock, repo *repository.SessionRepo, headerPIN string) (int, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/7/cart", nil)
	if headerPIN != "" {
		req.Header.Set("X-Session-PIN", headerPIN)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7")

	reached := false
	h := SessionPIN(repo)(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
	return rec.Code, reached
}

func TestSessionPINAllowsOpenSession(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery(sessionByIDQuery).WithArgs(uint64(7)).WillReturnRows(sessionRow("OPEN", "0042"))

	code, reached := callSessionPIN(t, mock, repository.NewSessionRepo(db), " 0042 ")
	if code != http.StatusOK || !reached {
		t.Fatalf("open session with matching pin: code=%d reached=%v, want 200 and handler run", code, reached)
	}
}

func TestSessionPINRejectsClosedSession(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	// the PIN is correct; the session being CLOSED must still reject
	mock.ExpectQuery(sessionByIDQuery).WithArgs(uint64(7)).WillReturnRows(sessionRow("CLOSED", "0042"))

	code, reached := callSessionPIN(t, mock, repository.NewSessionRepo(db), "0042")
	if code != http.StatusUnauthorized || reached {
		t.Fatalf("closed session: code=%d reached=%v, want 401 and handler not run", code, reached)
	}
}

func TestSessionPINRejectsWrongPIN(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery(sessionByIDQuery).WithArgs(uint64(7)).WillReturnRows(sessionRow("OPEN", "0042"))

	code, reached := callSessionPIN(t, mock, repository.NewSessionRepo(db), "9999")
	if code != http.StatusUnauthorized || reached {
		t.Fatalf("wrong pin: code=%d reached=%v, want 401 and handler not run", code, reached)
	}
}

func TestSessionPINRequiresHeader(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	// no query expected: the request is rejected before touching the DB

	code, reached := callSessionPIN(t, mock, repository.NewSessionRepo(db), "")
	if code != http.StatusUnauthorized || reached {
		t.Fatalf("missing header: code=%d reached=%v, want 401 and handler not run", code, reached)
	}
}
