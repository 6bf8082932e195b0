package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// Dialect names double as database/sql driver names.
const (
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
)

const viewSetting = "current_view"

var schemas = map[string][]string{
	DialectMySQL: {
		`CREATE TABLE IF NOT EXISTS catalog_products (
			position INT NOT NULL,
			code     VARCHAR(64) NOT NULL PRIMARY KEY,
			name     VARCHAR(255) NOT NULL,
			price    DOUBLE NOT NULL,
			stock    INT NOT NULL,
			restock  INT NOT NULL,
			category VARCHAR(64) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			name  VARCHAR(64) NOT NULL PRIMARY KEY,
			value VARCHAR(255) NOT NULL
		)`,
	},
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS catalog_products (
			position INTEGER NOT NULL,
			code     VARCHAR(64) PRIMARY KEY,
			name     VARCHAR(255) NOT NULL,
			price    DOUBLE PRECISION NOT NULL,
			stock    INTEGER NOT NULL,
			restock  INTEGER NOT NULL,
			category VARCHAR(64) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			name  VARCHAR(64) PRIMARY KEY,
			value VARCHAR(255) NOT NULL
		)`,
	},
}

var upsertSetting = map[string]string{
	DialectMySQL: `INSERT INTO settings (name, value) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value)`,
	DialectPostgres: `INSERT INTO settings (name, value) VALUES (?, ?)
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value`,
}

type productRow struct {
	Position int     `db:"position"`
	Code     string  `db:"code"`
	Name     string  `db:"name"`
	Price    float64 `db:"price"`
	Stock    int     `db:"stock"`
	Restock  int     `db:"restock"`
	Category string  `db:"category"`
}

// SQLAdapter keeps the catalog as rows of a relational database. Saving
// replaces every row in one transaction.
type SQLAdapter struct {
	db *sqlx.DB
}

// NewSQLAdapter wraps an open handle. The driver name of db selects the
// dialect.
func NewSQLAdapter(db *sqlx.DB) (*SQLAdapter, error) {
	if _, ok := schemas[db.DriverName()]; !ok {
		return nil, fmt.Errorf("unsupported sql dialect %q", db.DriverName())
	}
	return &SQLAdapter{db: db}, nil
}

// OpenSQL connects with the driver for dialect and creates the tables.
func OpenSQL(ctx context.Context, dialect, dsn string) (*SQLAdapter, error) {
	db, err := sqlx.ConnectContext(ctx, dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", dialect, err)
	}
	a, err := NewSQLAdapter(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := a.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func (a *SQLAdapter) Migrate(ctx context.Context) error {
	for _, stmt := range schemas[a.db.DriverName()] {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (a *SQLAdapter) Close() error {
	return a.db.Close()
}

func (a *SQLAdapter) LoadCatalog(ctx context.Context) ([]domain.ProductRecord, error) {
	var rows []productRow
	err := a.db.SelectContext(ctx, &rows, `
		SELECT position, code, name, price, stock, restock, category
		FROM catalog_products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}

	records := make([]domain.ProductRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, domain.ProductRecord{
			Name:     r.Name,
			Code:     r.Code,
			Price:    domain.Number(r.Price),
			Stock:    domain.Number(r.Stock),
			Restock:  domain.Number(r.Restock),
			Category: r.Category,
		})
	}
	return records, nil
}

func (a *SQLAdapter) SaveCatalog(ctx context.Context, records []domain.ProductRecord) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM catalog_products`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	insert := tx.Rebind(`
		INSERT INTO catalog_products (position, code, name, price, stock, restock, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	for i, r := range records {
		_, err := tx.ExecContext(ctx, insert,
			i, r.Code, r.Name, r.Price.Float64(), r.Stock.Int(), r.Restock.Int(), r.Category,
		)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", r.Code, err)
		}
	}

	return tx.Commit()
}

func (a *SQLAdapter) LoadView(ctx context.Context) (domain.ViewMode, error) {
	var value string
	err := a.db.GetContext(ctx, &value, a.db.Rebind(`SELECT value FROM settings WHERE name = ?`), viewSetting)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ViewTable, nil
	}
	if err != nil {
		return "", fmt.Errorf("query view: %w", err)
	}
	return domain.ViewOrDefault(value), nil
}

func (a *SQLAdapter) SaveView(ctx context.Context, view domain.ViewMode) error {
	query := a.db.Rebind(upsertSetting[a.db.DriverName()])
	if _, err := a.db.ExecContext(ctx, query, viewSetting, string(view)); err != nil {
		return fmt.Errorf("save view: %w", err)
	}
	return nil
}
