// Package storage persists the ledger in SQLite. Amounts are stored as decimal
// text so they round-trip exactly, and a position column keeps insertion order
// stable for consumers that break ties by discovery order.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/ports"

	_ "modernc.org/sqlite"
)

var _ ports.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if _, err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer connection avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadTransactions implements ports.TransactionStore.
func (r *SQLiteRepository) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount, description, date, category, type, created_at
		FROM transactions
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		var (
			t         core.Transaction
			amount    string
			typ       string
			createdAt string
		)
		if err := rows.Scan(&t.ID, &amount, &t.Description, &t.Date, &t.Category, &typ, &createdAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount of transaction %s: %w", t.ID, err)
		}
		t.Type = core.TransactionType(typ)
		if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at of transaction %s: %w", t.ID, err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// SaveTransactions implements ports.TransactionStore. The whole collection is
// replaced inside one database transaction.
func (r *SQLiteRepository) SaveTransactions(ctx context.Context, transactions []core.Transaction) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
			return fmt.Errorf("clear transactions: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO transactions (id, position, amount, description, date, category, type, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert transaction: %w", err)
		}
		defer stmt.Close()

		for i, t := range transactions {
			if _, err := stmt.ExecContext(ctx, t.ID, i, t.Amount.String(), t.Description, t.Date,
				t.Category, string(t.Type), t.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
				return fmt.Errorf("insert transaction %s: %w", t.ID, err)
			}
		}

		if err := bumpVersion(ctx, tx); err != nil {
			return err
		}

		slog.DebugContext(ctx, "Transactions saved to SQLite", "count", len(transactions))
		return nil
	})
}

// LoadBudgets implements ports.BudgetStore.
func (r *SQLiteRepository) LoadBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category_id, amount, month
		FROM budgets
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	out := make([]core.Budget, 0)
	for rows.Next() {
		var (
			b      core.Budget
			amount string
		)
		if err := rows.Scan(&b.ID, &b.CategoryID, &amount, &b.Month); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount of budget %s: %w", b.ID, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return out, nil
}

// SaveBudgets implements ports.BudgetStore.
func (r *SQLiteRepository) SaveBudgets(ctx context.Context, budgets []core.Budget) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM budgets`); err != nil {
			return fmt.Errorf("clear budgets: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO budgets (id, position, category_id, amount, month)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert budget: %w", err)
		}
		defer stmt.Close()

		for i, b := range budgets {
			if _, err := stmt.ExecContext(ctx, b.ID, i, b.CategoryID, b.Amount.String(), b.Month); err != nil {
				return fmt.Errorf("insert budget %s: %w", b.ID, err)
			}
		}

		if err := bumpVersion(ctx, tx); err != nil {
			return err
		}

		slog.DebugContext(ctx, "Budgets saved to SQLite", "count", len(budgets))
		return nil
	})
}

// Version implements ports.Store. The counter lives in the database, so every
// process opening the same file sees writes made by the others.
func (r *SQLiteRepository) Version(ctx context.Context) (uint64, error) {
	var v int64
	if err := r.db.QueryRowContext(ctx, `SELECT version FROM ledger_meta WHERE id = 1`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read ledger version: %w", err)
	}
	return uint64(v), nil
}

func bumpVersion(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `UPDATE ledger_meta SET version = version + 1 WHERE id = 1`); err != nil {
		return fmt.Errorf("bump ledger version: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
