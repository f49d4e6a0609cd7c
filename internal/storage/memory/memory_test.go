package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func TestStoreSaveAndLoadCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	in := []core.Transaction{{ID: "1", Amount: decimal.NewFromInt(5), Description: "x", Date: "2024-01-01", Category: "food", Type: core.Expense}}
	if err := s.SaveTransactions(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	in[0].Description = "mutated"

	out, err := s.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 1 || out[0].Description != "x" {
		t.Fatalf("store should keep its own copy, got %+v", out)
	}

	out[0].Description = "mutated again"
	again, _ := s.LoadTransactions(ctx)
	if again[0].Description != "x" {
		t.Fatalf("load should return a copy, got %q", again[0].Description)
	}
}

func TestNewFromFileMissingIsEmpty(t *testing.T) {
	s, err := NewFromFile(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	txs, _ := s.LoadTransactions(context.Background())
	budgets, _ := s.LoadBudgets(context.Background())
	if txs == nil || budgets == nil || len(txs) != 0 || len(budgets) != 0 {
		t.Fatalf("expected empty non-nil collections, got %v %v", txs, budgets)
	}
}

func TestNewFromFilePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "ledger.json")
	ctx := context.Background()

	s, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.SaveBudgets(ctx, []core.Budget{{ID: "b1", CategoryID: "food", Amount: decimal.RequireFromString("250.50"), Month: "2024-05"}}); err != nil {
		t.Fatalf("save budgets: %v", err)
	}
	if err := s.SaveTransactions(ctx, []core.Transaction{{ID: "t1", Amount: decimal.RequireFromString("19.99"), Description: "Pizza", Date: "2024-05-02", Category: "food", Type: core.Expense}}); err != nil {
		t.Fatalf("save transactions: %v", err)
	}

	reopened, err := NewFromFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	budgets, _ := reopened.LoadBudgets(ctx)
	if len(budgets) != 1 || !budgets[0].Amount.Equal(decimal.RequireFromString("250.5")) {
		t.Fatalf("unexpected budgets after reopen: %+v", budgets)
	}
	txs, _ := reopened.LoadTransactions(ctx)
	if len(txs) != 1 || txs[0].Description != "Pizza" {
		t.Fatalf("unexpected transactions after reopen: %+v", txs)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestNewFromFileRejectsCorruptData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFromFile(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestStoreVersionAdvancesOnSave(t *testing.T) {
	s := New()
	ctx := context.Background()

	v1, _ := s.Version(ctx)
	if err := s.SaveBudgets(ctx, []core.Budget{{ID: "b", CategoryID: "food", Amount: decimal.NewFromInt(10), Month: "2024-01"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	v2, _ := s.Version(ctx)
	if v2 <= v1 {
		t.Fatalf("version should advance after a save, got %d then %d", v1, v2)
	}
}
