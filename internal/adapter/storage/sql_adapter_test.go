package storage

import (
	"context"
	"errors"
	"os"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/stockroom/internal/core/domain"
)

func newMockAdapter(t *testing.T, dialect string) (*SQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	a, err := NewSQLAdapter(sqlx.NewDb(db, dialect))
	require.NoError(t, err)
	return a, mock
}

func TestSQLAdapter_SaveCatalog(t *testing.T) {
	a, mock := newMockAdapter(t, DialectMySQL)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM catalog_products").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO catalog_products")).
		WithArgs(0, "P1", "Milk", 45.5, 10, 2, "Beverages").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO catalog_products")).
		WithArgs(1, "P2", "Bread", 30.25, 5, 1, "Produce").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, a.SaveCatalog(context.Background(), sampleRecords))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLAdapter_SaveCatalog_RollsBack(t *testing.T) {
	a, mock := newMockAdapter(t, DialectMySQL)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM catalog_products").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO catalog_products")).
		WillReturnError(errors.New("duplicate entry"))
	mock.ExpectRollback()

	err := a.SaveCatalog(context.Background(), sampleRecords)
	assert.ErrorContains(t, err, "insert product P1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLAdapter_PostgresPlaceholders(t *testing.T) {
	a, mock := newMockAdapter(t, DialectPostgres)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM catalog_products").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("VALUES ($1, $2, $3, $4, $5, $6, $7)")).
		WithArgs(0, "P1", "Milk", 45.5, 10, 2, "Beverages").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, a.SaveCatalog(context.Background(), sampleRecords[:1]))

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value")).
		WithArgs("current_view", "card").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, a.SaveView(context.Background(), domain.ViewCard))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLAdapter_LoadCatalog(t *testing.T) {
	a, mock := newMockAdapter(t, DialectMySQL)

	rows := sqlmock.NewRows([]string{"position", "code", "name", "price", "stock", "restock", "category"}).
		AddRow(0, "P1", "Milk", 45.5, 10, 2, "Beverages").
		AddRow(1, "P2", "Bread", 30.25, 5, 1, "Produce")
	mock.ExpectQuery("SELECT position, code, name, price, stock, restock, category").WillReturnRows(rows)

	records, err := a.LoadCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleRecords, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLAdapter_View(t *testing.T) {
	a, mock := newMockAdapter(t, DialectMySQL)
	ctx := context.Background()

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs("current_view").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	view, err := a.LoadView(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ViewTable, view)

	mock.ExpectExec("ON DUPLICATE KEY UPDATE").
		WithArgs("current_view", "card").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, a.SaveView(ctx, domain.ViewCard))

	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs("current_view").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("card"))
	view, err = a.LoadView(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ViewCard, view)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSQLAdapter_UnknownDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQLAdapter(sqlx.NewDb(db, "sqlite3"))
	assert.Error(t, err)
}

func TestSQLAdapter_MySQL(t *testing.T) {
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(localhost:3306)/stockroom?parseTime=true"
	}

	ctx := context.Background()
	a, err := OpenSQL(ctx, DialectMySQL, dsn)
	if err != nil {
		t.Skipf("MySQL not available: %v", err)
	}
	defer a.Close()

	// Setup
	a.db.ExecContext(ctx, `DELETE FROM catalog_products`)
	a.db.ExecContext(ctx, `DELETE FROM settings`)

	testRepository(t, a)
}
