package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/repository"
)

const (
	tableByTokenQuery = "SELECT id, restaurant_id, table_number, seats, qr_token, is_active, created_at, updated_at FROM tables WHERE qr_token = ? AND is_active = 1"
	restaurantQuery   = "SELECT id, owner_id, name, logo_path, cover_charge_cents, all_you_can_eat, is_active, created_at, updated_at FROM restaurants WHERE id = ?"
	openSessionQuery  = "SELECT id FROM table_sessions WHERE table_id = ? AND status = ? LIMIT 1 FOR UPDATE"
	sessionQuery      = "SELECT id, table_id, status, customer_count, cover_charge_cents, ayce_price_cents, pin, opened_at, closed_at FROM table_sessions WHERE id = ?"
)

func publicHandlerWithMock(t *testing.T) (*PublicHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	h := NewPublicHandler(
		repository.NewRestaurantRepo(db),
		repository.NewTableRepo(db),
		repository.NewMenuRepo(db),
		repository.NewScheduleRepo(db),
		repository.NewSessionRepo(db),
	)
	return h, mock
}

func expectResolveTable(mock sqlmock.Sqlmock, token string) {
	now := time.Now()
	mock.ExpectQuery(tableByTokenQuery).WithArgs(token).WillReturnRows(
		sqlmock.NewRows([]string{
			"id", "restaurant_id", "table_number", "seats", "qr_token", "is_active", "created_at", "updated_at",
		}).AddRow(3, 9, "12", 4, token, true, now, now))
	mock.ExpectQuery(restaurantQuery).WithArgs(uint64(9)).WillReturnRows(
		sqlmock.NewRows([]string{
			"id", "owner_id", "name", "logo_path", "cover_charge_cents", "all_you_can_eat", "is_active", "created_at", "updated_at",
		}).AddRow(9, 1, "Trattoria", nil, 200, false, true, now, now))
}

func joinSessionRequest(t *testing.T, h *PublicHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/t/tok123/session", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("token")
	c.SetParamValues("tok123")
	if err := h.JoinSession(c); err != nil {
		t.Fatalf("JoinSession returned error: %v", err)
	}
	return rec
}

func TestJoinSessionRejectsMalformedBody(t *testing.T) {
	h, mock := publicHandlerWithMock(t)
	expectResolveTable(mock, "tok123")

	rec := joinSessionRequest(t, h, `{"customer_count":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body: code=%d, want 400", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestJoinSessionAcceptsEmptyBody(t *testing.T) {
	h, mock := publicHandlerWithMock(t)
	expectResolveTable(mock, "tok123")

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(openSessionQuery).WithArgs(uint64(3), "OPEN").WillReturnRows(
		sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery(sessionQuery).WithArgs(uint64(7)).WillReturnRows(
		sqlmock.NewRows([]string{
			"id", "table_id", "status", "customer_count", "cover_charge_cents",
			"ayce_price_cents", "pin", "opened_at", "closed_at",
		}).AddRow(7, 3, "OPEN", 2, 200, 0, "0042", now, nil))
	mock.ExpectCommit()

	rec := joinSessionRequest(t, h, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("empty body: code=%d, want 200 (existing session returned)", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
