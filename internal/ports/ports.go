// Package ports defines the storage contract the ledger is persisted through.
// Implementations hand out snapshots; callers own the returned slices.
package ports

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateBudget = errors.New("a budget for this category and month already exists")
)

type (
	TransactionStore interface {
		// LoadTransactions returns every stored transaction in insertion order.
		LoadTransactions(ctx context.Context) ([]core.Transaction, error)
		// SaveTransactions replaces the stored collection with transactions.
		SaveTransactions(ctx context.Context, transactions []core.Transaction) error
	}

	BudgetStore interface {
		LoadBudgets(ctx context.Context) ([]core.Budget, error)
		SaveBudgets(ctx context.Context, budgets []core.Budget) error
	}

	// Store is everything a ledger backend provides.
	Store interface {
		TransactionStore
		BudgetStore
		// Version changes whenever the stored contents do, including writes
		// made through another process sharing the backend.
		Version(ctx context.Context) (uint64, error)
		Close() error
	}
)
