package services

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return gdb, mock
}

func expectSum(mock sqlmock.Sqlmock, pattern string, value int64) {
	rows := sqlmock.NewRows([]string{"coalesce"}).AddRow(value)
	mock.ExpectQuery(pattern).WillReturnRows(rows)
}

func TestSummarizeComputesFigures(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewLedgerService(gdb)

	expectSum(mock, `SELECT COALESCE\(SUM\(quantity\), 0\) FROM "purchases"`, 40)
	expectSum(mock, `SELECT COALESCE\(SUM\(quantity\), 0\) FROM "transfers"`, 10)
	expectSum(mock, `SELECT COALESCE\(SUM\(quantity\), 0\) FROM "transfers"`, 5)
	expectSum(mock, `SELECT COALESCE\(SUM\(quantity\), 0\) FROM "assignments"`, 7)
	expectSum(mock, `SELECT COALESCE\(SUM\(quantity\), 0\) FROM "assignments"`, 3)

	summary, err := svc.Summarize(context.Background(), LedgerScope{BaseID: "base-1"})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.Purchases != 40 || summary.TransfersIn != 10 || summary.TransfersOut != 5 {
		t.Fatalf("unexpected movement figures: %+v", summary)
	}
	if summary.NetMovement != 45 {
		t.Errorf("net movement = %d, want 45", summary.NetMovement)
	}
	if summary.OpeningBalance != 0 {
		t.Errorf("opening balance = %d, want 0 for unbounded window", summary.OpeningBalance)
	}
	if summary.Assigned != 7 || summary.Expended != 3 {
		t.Errorf("unexpected assignment figures: %+v", summary)
	}
	if summary.ClosingBalance != 42 {
		t.Errorf("closing balance = %d, want 42", summary.ClosingBalance)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSummarizeWindowedOpeningBalance(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewLedgerService(gdb)

	// In-window figures.
	expectSum(mock, `FROM "purchases"`, 20)
	expectSum(mock, `FROM "transfers"`, 0)
	expectSum(mock, `FROM "transfers"`, 10)
	expectSum(mock, `FROM "assignments"`, 0)
	expectSum(mock, `FROM "assignments"`, 4)
	// Prior-to-window figures feeding the opening balance.
	expectSum(mock, `FROM "purchases"`, 100)
	expectSum(mock, `FROM "transfers"`, 30)
	expectSum(mock, `FROM "transfers"`, 25)
	expectSum(mock, `FROM "assignments"`, 6)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	summary, err := svc.Summarize(context.Background(), LedgerScope{BaseID: "base-1", Start: &start})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.OpeningBalance != 99 {
		t.Errorf("opening balance = %d, want 99", summary.OpeningBalance)
	}
	if summary.NetMovement != 10 {
		t.Errorf("net movement = %d, want 10", summary.NetMovement)
	}
	if summary.ClosingBalance != 105 {
		t.Errorf("closing balance = %d, want 105", summary.ClosingBalance)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

// Closing balance of one window must equal the opening balance of the
// window that starts where it ended.
func TestWindowedBalancesChain(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewLedgerService(gdb)

	// First window: [unbounded, end): purchases 50, in 10, out 5, assigned
	// 2, expended 8.
	expectSum(mock, `FROM "purchases"`, 50)
	expectSum(mock, `FROM "transfers"`, 10)
	expectSum(mock, `FROM "transfers"`, 5)
	expectSum(mock, `FROM "assignments"`, 2)
	expectSum(mock, `FROM "assignments"`, 8)

	boundary := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	first, err := svc.Summarize(context.Background(), LedgerScope{BaseID: "base-1", End: &boundary})
	if err != nil {
		t.Fatalf("Summarize first window failed: %v", err)
	}

	// Second window starts at the boundary: empty in-window movement, the
	// prior sums repeat the first window's totals.
	expectSum(mock, `FROM "purchases"`, 0)
	expectSum(mock, `FROM "transfers"`, 0)
	expectSum(mock, `FROM "transfers"`, 0)
	expectSum(mock, `FROM "assignments"`, 0)
	expectSum(mock, `FROM "assignments"`, 0)
	expectSum(mock, `FROM "purchases"`, 50)
	expectSum(mock, `FROM "transfers"`, 10)
	expectSum(mock, `FROM "transfers"`, 5)
	expectSum(mock, `FROM "assignments"`, 8)

	second, err := svc.Summarize(context.Background(), LedgerScope{BaseID: "base-1", Start: &boundary})
	if err != nil {
		t.Fatalf("Summarize second window failed: %v", err)
	}

	if second.OpeningBalance != first.ClosingBalance {
		t.Errorf("opening balance %d does not chain from closing balance %d",
			second.OpeningBalance, first.ClosingBalance)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
