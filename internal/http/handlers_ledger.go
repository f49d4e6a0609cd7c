package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/categories"
	"fintrack/internal/core"
	"fintrack/internal/finance"
	flog "fintrack/internal/log"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("type") == "" {
		writeJSON(w, http.StatusOK, categories.All())
		return
	}
	typ, err := parseType(r, "")
	if err != nil {
		writeError(w, r, flog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, categories.ListByType(typ))
}

// handleListTransactions supports ?month=YYYY-MM, ?sort=date (newest first)
// and ?limit=N. Without sort the ledger order is kept.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r, "")
	if err != nil {
		writeError(w, r, flog.OpList, err)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, r, flog.OpList, err)
		return
	}
	sortBy := r.URL.Query().Get("sort")
	if sortBy != "" && sortBy != "date" {
		writeError(w, r, flog.OpList, core.ValidationError{}.Add("sort", errors.New("sort must be date")))
		return
	}

	txs, err := s.ledger.ListTransactions(r.Context(), 0)
	if err != nil {
		writeError(w, r, flog.OpList, err)
		return
	}
	if month != "" {
		txs = finance.FilterMonth(txs, month)
	}
	if sortBy == "date" {
		txs = finance.SortByDateDesc(txs, limit)
	} else if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := s.ledger.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, flog.OpRead, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := s.ledger.AddTransaction(r.Context(), req.toTransaction())
	if err != nil {
		writeError(w, r, flog.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := s.ledger.UpdateTransaction(r.Context(), chi.URLParam(r, "id"), req.toTransaction())
	if err != nil {
		writeError(w, r, flog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, flog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.ledger.ListBudgets(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, r, flog.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := s.ledger.AddBudget(r.Context(), req.toBudget())
	if err != nil {
		writeError(w, r, flog.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := s.ledger.UpdateBudget(r.Context(), chi.URLParam(r, "id"), req.toBudget())
	if err != nil {
		writeError(w, r, flog.OpUpdate, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteBudget(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, flog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
