package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/log"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Options selects and tunes the backing database.
type Options struct {
	Driver Driver
	// DSN is the SQLite file path, or a Postgres connection URL for DriverPgx.
	DSN          string
	MaxOpenConns int
	// Logger receives store events; nil discards them.
	Logger *log.Logger
}

// Repository is the ledger store. It owns the expenses table and is safe
// for concurrent use; every call borrows a pooled connection for its own
// duration only.
type Repository struct {
	db      *sql.DB
	queries *Queries
	driver  Driver
	logger  *log.Logger
}

func NewRepository(ctx context.Context, opts Options) (*Repository, error) {
	if !opts.Driver.IsValid() {
		return nil, fmt.Errorf("unsupported driver %q", opts.Driver)
	}
	if opts.DSN == "" {
		return nil, fmt.Errorf("empty data source for driver %s", opts.Driver)
	}

	dsn := opts.DSN
	if opts.Driver == DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(opts.DSN), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = sqliteDSN(opts.DSN)
	}

	db, err := sql.Open(opts.Driver.sqlName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", opts.Driver, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen == 0 && opts.Driver == DriverSQLite {
		// SQLite has a single writer; one connection avoids lock contention.
		maxOpen = 1
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(maxOpen)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := RunMigrations(opts.Driver, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}

	return &Repository{
		db:      db,
		queries: New(db, opts.Driver),
		driver:  opts.Driver,
		logger:  logger.WithComponent(log.ComponentStorage),
	}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return core.NewStorageError("ping", err)
	}
	return nil
}

// Insert persists a validated expense in its own transaction and returns
// the id assigned by the database.
func (r *Repository) Insert(ctx context.Context, e core.Expense) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, core.NewStorageError("begin insert", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := r.queries.WithTx(tx).CreateExpense(ctx, CreateExpenseParams{
		Date:        e.Date,
		Amount:      e.Amount,
		Category:    e.Category,
		Subcategory: nullString(e.Subcategory),
		Note:        nullString(e.Note),
	})
	if err != nil {
		return 0, core.NewStorageError("insert expense", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, core.NewStorageError("commit insert", err)
	}

	r.logger.InfoContext(ctx, "Expense saved",
		log.FieldExpenseID, id,
		log.FieldDate, e.Date,
		log.FieldAmount, e.Amount,
		log.FieldCategory, e.Category,
		"driver", r.driver)

	return id, nil
}

// QueryRange returns every expense dated within [startDate, endDate],
// newest first. Dates compare as strings.
func (r *Repository) QueryRange(ctx context.Context, startDate, endDate string) ([]core.Expense, error) {
	rows, err := r.queries.ListExpensesByDateRange(ctx, startDate, endDate)
	if err != nil {
		return nil, core.NewStorageError("list expenses", err)
	}

	expenses := make([]core.Expense, len(rows))
	for i, row := range rows {
		expenses[i] = core.Expense{
			ID:          row.ID,
			Date:        row.Date,
			Amount:      row.Amount,
			Category:    row.Category,
			Subcategory: stringPtr(row.Subcategory),
			Note:        stringPtr(row.Note),
		}
	}

	return expenses, nil
}

// AggregateRange groups the expenses within [startDate, endDate] by
// category, largest total first. A non-empty category filters the rows
// before grouping.
func (r *Repository) AggregateRange(ctx context.Context, startDate, endDate, category string) ([]core.CategoryTotal, error) {
	rows, err := r.queries.SumExpensesByCategory(ctx, SumExpensesByCategoryParams{
		StartDate: startDate,
		EndDate:   endDate,
		Category:  category,
	})
	if err != nil {
		return nil, core.NewStorageError("summarize expenses", err)
	}

	totals := make([]core.CategoryTotal, len(rows))
	for i, row := range rows {
		totals[i] = core.CategoryTotal{
			Category:    row.Category,
			TotalAmount: row.TotalAmount,
			Count:       row.Count,
		}
	}

	return totals, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
