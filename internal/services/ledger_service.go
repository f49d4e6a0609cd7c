package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/categories"
	"fintrack/internal/core"
	flog "fintrack/internal/log"
	"fintrack/internal/ports"
)

// EventPublisher announces ledger mutations to other processes.
type EventPublisher interface {
	PublishLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error
}

// Snapshot is a consistent copy of the ledger at one revision.
type Snapshot struct {
	Transactions []core.Transaction
	Budgets      []core.Budget
	Revision     uint64
}

// LedgerService validates and applies every change to the ledger. Mutations
// are serialized within the process; each successful one advances the store
// version and publishes an event. Publishing is best effort.
type LedgerService struct {
	store     ports.Store
	publisher EventPublisher
	log       *flog.StructuredLogger

	mu sync.Mutex

	now   func() time.Time
	newID func() string
}

type Option func(*LedgerService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

// WithIDGenerator replaces the UUID generator, for tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *LedgerService) { s.newID = newID }
}

func WithLogger(logger *flog.Logger) Option {
	return func(s *LedgerService) { s.log = flog.NewStructuredLogger(logger) }
}

// NewLedgerService wires the service to its store. publisher may be nil.
func NewLedgerService(store ports.Store, publisher EventPublisher, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:     store,
		publisher: publisher,
		log:       flog.NewStructuredLogger(flog.New(flog.Config{Handler: slog.Default().Handler(), Component: flog.ComponentLedger})),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Revision changes whenever the stored ledger does, whichever process wrote it.
func (s *LedgerService) Revision(ctx context.Context) (uint64, error) {
	rev, err := s.store.Version(ctx)
	if err != nil {
		return 0, fmt.Errorf("read ledger revision: %w", err)
	}
	return rev, nil
}

// Snapshot loads transactions and budgets together.
func (s *LedgerService) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(ctx)
}

func (s *LedgerService) snapshotLocked(ctx context.Context) (Snapshot, error) {
	// The version is read first: a concurrent external write can only make the
	// contents newer than the revision they are tagged with, never older.
	rev, err := s.Revision(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Revision: rev}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := s.store.LoadTransactions(gctx)
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		snap.Transactions = txs
		return nil
	})
	g.Go(func() error {
		budgets, err := s.store.LoadBudgets(gctx)
		if err != nil {
			return fmt.Errorf("load budgets: %w", err)
		}
		snap.Budgets = budgets
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// ListTransactions returns transactions in insertion order. limit <= 0
// returns all of them.
func (s *LedgerService) ListTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	txs, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	txs, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load transactions: %w", err)
	}
	i := indexOfTransaction(txs, id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ports.ErrNotFound)
	}
	return txs[i], nil
}

// AddTransaction validates tx, assigns it an id and creation time and
// appends it to the ledger.
func (s *LedgerService) AddTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx = normalizeTransaction(tx)
	if err := validateTransaction(tx); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load transactions: %w", err)
	}
	tx.ID = s.newID()
	tx.CreatedAt = s.now().UTC()
	if err := s.store.SaveTransactions(ctx, append(txs, tx)); err != nil {
		return core.Transaction{}, fmt.Errorf("save transactions: %w", err)
	}

	s.changed(ctx, flog.OpCreate, amqp.KindTransaction, tx.ID, core.MonthOf(tx.Date))
	return tx, nil
}

// UpdateTransaction replaces the editable fields of transaction id. The id
// and creation time are kept.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, tx core.Transaction) (core.Transaction, error) {
	tx = normalizeTransaction(tx)
	if err := validateTransaction(tx); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load transactions: %w", err)
	}
	i := indexOfTransaction(txs, id)
	if i < 0 {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, ports.ErrNotFound)
	}
	tx.ID = id
	tx.CreatedAt = txs[i].CreatedAt
	txs[i] = tx
	if err := s.store.SaveTransactions(ctx, txs); err != nil {
		return core.Transaction{}, fmt.Errorf("save transactions: %w", err)
	}

	s.changed(ctx, flog.OpUpdate, amqp.KindTransaction, id, core.MonthOf(tx.Date))
	return tx, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	i := indexOfTransaction(txs, id)
	if i < 0 {
		return fmt.Errorf("transaction %s: %w", id, ports.ErrNotFound)
	}
	month := core.MonthOf(txs[i].Date)
	txs = append(txs[:i], txs[i+1:]...)
	if err := s.store.SaveTransactions(ctx, txs); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}

	s.changed(ctx, flog.OpDelete, amqp.KindTransaction, id, month)
	return nil
}

// ListBudgets returns budgets in insertion order, restricted to month when
// month is not empty.
func (s *LedgerService) ListBudgets(ctx context.Context, month string) ([]core.Budget, error) {
	if month != "" {
		if _, err := core.ParseMonth(month); err != nil {
			return nil, core.ValidationError{}.Add("month", err)
		}
	}
	budgets, err := s.store.LoadBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	if month == "" {
		return budgets, nil
	}
	out := make([]core.Budget, 0, len(budgets))
	for _, b := range budgets {
		if b.Month == month {
			out = append(out, b)
		}
	}
	return out, nil
}

// AddBudget validates b and rejects a second budget for the same category
// and month with ports.ErrDuplicateBudget.
func (s *LedgerService) AddBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	b.CategoryID = strings.TrimSpace(b.CategoryID)
	if err := validateBudget(b); err != nil {
		return core.Budget{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	budgets, err := s.store.LoadBudgets(ctx)
	if err != nil {
		return core.Budget{}, fmt.Errorf("load budgets: %w", err)
	}
	if conflictingBudget(budgets, b, "") {
		return core.Budget{}, fmt.Errorf("%s in %s: %w", b.CategoryID, b.Month, ports.ErrDuplicateBudget)
	}
	b.ID = s.newID()
	if err := s.store.SaveBudgets(ctx, append(budgets, b)); err != nil {
		return core.Budget{}, fmt.Errorf("save budgets: %w", err)
	}

	s.changed(ctx, flog.OpCreate, amqp.KindBudget, b.ID, b.Month)
	return b, nil
}

func (s *LedgerService) UpdateBudget(ctx context.Context, id string, b core.Budget) (core.Budget, error) {
	b.CategoryID = strings.TrimSpace(b.CategoryID)
	if err := validateBudget(b); err != nil {
		return core.Budget{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	budgets, err := s.store.LoadBudgets(ctx)
	if err != nil {
		return core.Budget{}, fmt.Errorf("load budgets: %w", err)
	}
	i := indexOfBudget(budgets, id)
	if i < 0 {
		return core.Budget{}, fmt.Errorf("budget %s: %w", id, ports.ErrNotFound)
	}
	if conflictingBudget(budgets, b, id) {
		return core.Budget{}, fmt.Errorf("%s in %s: %w", b.CategoryID, b.Month, ports.ErrDuplicateBudget)
	}
	b.ID = id
	budgets[i] = b
	if err := s.store.SaveBudgets(ctx, budgets); err != nil {
		return core.Budget{}, fmt.Errorf("save budgets: %w", err)
	}

	s.changed(ctx, flog.OpUpdate, amqp.KindBudget, id, b.Month)
	return b, nil
}

func (s *LedgerService) DeleteBudget(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	budgets, err := s.store.LoadBudgets(ctx)
	if err != nil {
		return fmt.Errorf("load budgets: %w", err)
	}
	i := indexOfBudget(budgets, id)
	if i < 0 {
		return fmt.Errorf("budget %s: %w", id, ports.ErrNotFound)
	}
	month := budgets[i].Month
	budgets = append(budgets[:i], budgets[i+1:]...)
	if err := s.store.SaveBudgets(ctx, budgets); err != nil {
		return fmt.Errorf("save budgets: %w", err)
	}

	s.changed(ctx, flog.OpDelete, amqp.KindBudget, id, month)
	return nil
}

// sampleTransactions are dated by day within the seeding month.
var sampleTransactions = []struct {
	day         int
	amount      string
	description string
	category    string
	typ         core.TransactionType
}{
	{15, "3500", "Monthly Salary", "salary", core.Income},
	{10, "45.50", "Grocery Store", "food", core.Expense},
	{8, "120.00", "Gas Bill", "bills", core.Expense},
	{12, "25.00", "Movie Tickets", "entertainment", core.Expense},
	{20, "800.00", "Freelance Project", "freelance", core.Income},
}

// SeedSampleData fills an empty ledger with a handful of transactions in the
// current month and reports how many were added. A ledger that already has
// transactions is left alone.
func (s *LedgerService) SeedSampleData(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("load transactions: %w", err)
	}
	if len(txs) > 0 {
		return 0, nil
	}

	now := s.now().UTC()
	month := core.CurrentMonth(now)
	seeded := make([]core.Transaction, 0, len(sampleTransactions))
	for _, st := range sampleTransactions {
		seeded = append(seeded, core.Transaction{
			ID:          s.newID(),
			Amount:      decimal.RequireFromString(st.amount),
			Description: st.description,
			Date:        fmt.Sprintf("%s-%02d", month, st.day),
			Category:    st.category,
			Type:        st.typ,
			CreatedAt:   now,
		})
	}
	if err := s.store.SaveTransactions(ctx, seeded); err != nil {
		return 0, fmt.Errorf("save sample transactions: %w", err)
	}

	s.changed(ctx, flog.OpSeed, amqp.KindTransaction, "", month)
	return len(seeded), nil
}

// Close closes the store and, when it can be closed, the publisher.
func (s *LedgerService) Close() error {
	var errs []error
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if c, ok := s.publisher.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}

// changed must be called with s.mu held, after the store accepted the write.
func (s *LedgerService) changed(ctx context.Context, op, kind, id, month string) {
	rev, err := s.Revision(ctx)
	if err != nil {
		s.log.LogError(ctx, "Failed to read ledger revision", err, flog.OpRead, nil)
	}
	s.log.LogLedgerChange(ctx, op, kind, id, month, rev)

	if s.publisher == nil {
		return
	}
	msg := amqp.NewLedgerChangedMessage(kind, op, id, month, rev)
	if err := s.publisher.PublishLedgerChanged(ctx, msg); err != nil {
		s.log.LogError(ctx, "Failed to publish ledger event", err, flog.OpPublish,
			flog.NewFields().WithLedgerChange(kind, id, month, rev))
	}
}

func normalizeTransaction(tx core.Transaction) core.Transaction {
	tx.Description = strings.TrimSpace(tx.Description)
	tx.Category = strings.TrimSpace(tx.Category)
	tx.Date = strings.TrimSpace(tx.Date)
	return tx
}

// validateTransaction adds the registry checks to the field checks.
func validateTransaction(tx core.Transaction) error {
	var errs core.ValidationError
	if err := tx.Validate(); err != nil {
		errors.As(err, &errs)
	}
	if tx.Category != "" {
		cat, ok := categories.Lookup(tx.Category)
		switch {
		case !ok:
			errs = errs.Add("category", core.ErrUnknownCategory)
		case tx.Type.Valid() && cat.Type != tx.Type:
			errs = errs.Add("category", core.ErrCategoryTypeMismatch)
		}
	}
	return errs.OrNil()
}

// validateBudget only accepts expense categories; income cannot be budgeted.
func validateBudget(b core.Budget) error {
	var errs core.ValidationError
	if err := b.Validate(); err != nil {
		errors.As(err, &errs)
	}
	if b.CategoryID != "" {
		cat, ok := categories.Lookup(b.CategoryID)
		switch {
		case !ok:
			errs = errs.Add("categoryId", core.ErrUnknownCategory)
		case cat.Type != core.Expense:
			errs = errs.Add("categoryId", core.ErrCategoryTypeMismatch)
		}
	}
	return errs.OrNil()
}

func conflictingBudget(budgets []core.Budget, b core.Budget, exceptID string) bool {
	for _, existing := range budgets {
		if existing.ID != exceptID && existing.CategoryID == b.CategoryID && existing.Month == b.Month {
			return true
		}
	}
	return false
}

func indexOfTransaction(txs []core.Transaction, id string) int {
	for i, t := range txs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func indexOfBudget(budgets []core.Budget, id string) int {
	for i, b := range budgets {
		if b.ID == id {
			return i
		}
	}
	return -1
}
