package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func sessionMockRow(id uint64, status, pin string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "table_id", "status", "customer_count", "cover_charge_cents",
		"ayce_price_cents", "pin", "opened_at", "closed_at",
	}).AddRow(id, 5, status, 2, 200, 0, pin, time.Now(), nil)
}

func TestOpenReturnsExistingSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM table_sessions WHERE table_id").
		WithArgs(uint64(5), "OPEN").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("FROM table_sessions WHERE id = ").
		WithArgs(uint64(7)).
		WillReturnRows(sessionMockRow(7, "OPEN", "0042"))
	mock.ExpectCommit()

	s, created, err := NewSessionRepo(db).Open(context.Background(), 5, 2, 200, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if created || s.ID != 7 {
		t.Fatalf("Open = (id=%d, created=%v), want existing session 7", s.ID, created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOpenRetriesAfterDeadlock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	// first attempt: table looks empty, then the insert loses the
	// race and MySQL kills the transaction with a deadlock
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM table_sessions WHERE table_id").
		WithArgs(uint64(5), "OPEN").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO table_sessions").
		WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock; try restarting transaction"})
	mock.ExpectRollback()

	// retry: the winner's row is now visible and gets returned
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM table_sessions WHERE table_id").
		WithArgs(uint64(5), "OPEN").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery("FROM table_sessions WHERE id = ").
		WithArgs(uint64(11)).
		WillReturnRows(sessionMockRow(11, "OPEN", "7311"))
	mock.ExpectCommit()

	s, created, err := NewSessionRepo(db).Open(context.Background(), 5, 2, 200, 0)
	if err != nil {
		t.Fatalf("Open after deadlock: %v", err)
	}
	if created || s.ID != 11 {
		t.Fatalf("Open = (id=%d, created=%v), want the winner's session 11", s.ID, created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOpenGivesUpAfterSecondDeadlock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT id FROM table_sessions WHERE table_id").
			WithArgs(uint64(5), "OPEN").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO table_sessions").
			WillReturnError(&mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock; try restarting transaction"})
		mock.ExpectRollback()
	}

	_, _, err = NewSessionRepo(db).Open(context.Background(), 5, 2, 200, 0)
	if !isDeadlock(err) {
		t.Fatalf("Open error = %v, want the deadlock error surfaced after one retry", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
