package http

import (
	"net/http"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/finance"
	"fintrack/internal/insights"
	flog "fintrack/internal/log"
	"fintrack/internal/services"
)

const recentTransactions = 5

// cachedView serves a derived view from the cache when the stored ledger has
// not changed since it was computed. Values are stored under the revision of
// the snapshot they were computed from.
func (s *Server) cachedView(r *http.Request, view string, compute func(services.Snapshot) (any, error), params ...string) (any, error) {
	rev, err := s.ledger.Revision(r.Context())
	if err != nil {
		return nil, err
	}
	if v, ok := s.views.Get(cache.ViewKey(view, rev, params...)); ok {
		return v, nil
	}
	snap, err := s.ledger.Snapshot(r.Context())
	if err != nil {
		return nil, err
	}
	v, err := compute(snap)
	if err != nil {
		return nil, err
	}
	s.views.Set(cache.ViewKey(view, snap.Revision, params...), v)
	return v, nil
}

func (s *Server) serveView(w http.ResponseWriter, r *http.Request, view string, compute func(services.Snapshot) (any, error), params ...string) {
	v, err := s.cachedView(r, view, compute, params...)
	if err != nil {
		writeError(w, r, flog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	s.serveView(w, r, "monthly", func(snap services.Snapshot) (any, error) {
		return finance.AggregateMonthly(snap.Transactions), nil
	})
}

// handleCategoryReport totals one transaction type per category, over the
// whole ledger or a single month. The type defaults to expense.
func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	typ, err := parseType(r, core.Expense)
	if err != nil {
		writeError(w, r, flog.OpRead, err)
		return
	}
	month, err := parseMonth(r, "")
	if err != nil {
		writeError(w, r, flog.OpRead, err)
		return
	}
	s.serveView(w, r, "categories", func(snap services.Snapshot) (any, error) {
		txs := snap.Transactions
		if month != "" {
			txs = finance.FilterMonth(txs, month)
		}
		return finance.AggregateByCategory(txs, typ), nil
	}, string(typ), month)
}

func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r, "")
	if err != nil {
		writeError(w, r, flog.OpRead, err)
		return
	}
	s.serveView(w, r, "budgets", func(snap services.Snapshot) (any, error) {
		budgets := snap.Budgets
		if month != "" {
			budgets = finance.BudgetsForMonth(budgets, month)
		}
		return finance.BudgetProgress(budgets, snap.Transactions), nil
	}, month)
}

type summaryResponse struct {
	finance.MonthSummary
	Budgets []finance.BudgetView `json:"budgets"`
	Recent  []core.Transaction   `json:"recentTransactions"`
}

// handleSummaryReport is the dashboard view of one month, the current one
// by default.
func (s *Server) handleSummaryReport(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r, currentMonth(s.now))
	if err != nil {
		writeError(w, r, flog.OpRead, err)
		return
	}
	s.serveView(w, r, "summary", func(snap services.Snapshot) (any, error) {
		return summaryResponse{
			MonthSummary: finance.SummarizeMonth(snap.Transactions, snap.Budgets, month),
			Budgets:      finance.BudgetProgress(finance.BudgetsForMonth(snap.Budgets, month), snap.Transactions),
			Recent:       finance.SortByDateDesc(snap.Transactions, recentTransactions),
		}, nil
	}, month)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r, currentMonth(s.now))
	if err != nil {
		writeError(w, r, flog.OpRead, err)
		return
	}
	s.serveView(w, r, "insights", func(snap services.Snapshot) (any, error) {
		return insights.GenerateForMonth(snap.Transactions, snap.Budgets, month)
	}, month)
}
