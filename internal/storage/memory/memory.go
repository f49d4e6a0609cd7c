// Package memory keeps the ledger in process memory, optionally mirrored to a
// JSON file so a restart does not lose data.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/ports"
)

var _ ports.Store = (*Store)(nil)

type snapshot struct {
	Transactions []core.Transaction `json:"transactions"`
	Budgets      []core.Budget      `json:"budgets"`
}

type Store struct {
	mu      sync.Mutex
	path    string
	txs     []core.Transaction
	budgets []core.Budget
	version uint64
}

// New returns a purely in-memory store.
func New() *Store {
	return &Store{txs: []core.Transaction{}, budgets: []core.Budget{}, version: 1}
}

// NewFromFile loads path when it exists and writes every save back to it.
// A missing file yields an empty store.
func NewFromFile(path string) (*Store, error) {
	s := New()
	s.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode ledger file %s: %w", path, err)
	}
	if snap.Transactions != nil {
		s.txs = snap.Transactions
	}
	if snap.Budgets != nil {
		s.budgets = snap.Budgets
	}
	slog.Debug("Loaded ledger file", "path", path,
		"transactions", len(s.txs), "budgets", len(s.budgets))
	return s, nil
}

func (s *Store) LoadTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction{}, s.txs...), nil
}

func (s *Store) SaveTransactions(_ context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.txs
	s.txs = append([]core.Transaction{}, txs...)
	if err := s.flushLocked(); err != nil {
		s.txs = prev
		return err
	}
	s.version++
	return nil
}

func (s *Store) LoadBudgets(_ context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Budget{}, s.budgets...), nil
}

func (s *Store) SaveBudgets(_ context.Context, budgets []core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.budgets
	s.budgets = append([]core.Budget{}, budgets...)
	if err := s.flushLocked(); err != nil {
		s.budgets = prev
		return err
	}
	s.version++
	return nil
}

// Version counts saves made through this Store. A JSON file is not watched,
// so writes from another process are not observed.
func (s *Store) Version(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, nil
}

func (s *Store) Close() error { return nil }

// flushLocked writes the current state through a temp file and rename so a
// crash never leaves a half-written ledger behind.
func (s *Store) flushLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(snapshot{Transactions: s.txs, Budgets: s.budgets}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp ledger file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
