package http

import (
	"log/slog"
	"net/http"
	"strings"

	"billbook/internal/core"
	"billbook/internal/filter"
	"billbook/internal/stats"
)

func (s *Server) handleBills(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listBills(w, r)
	case http.MethodPost:
		s.createBill(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listBills(w http.ResponseWriter, r *http.Request) {
	opts, err := parseFilterOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bills, err := s.bills.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, filter.Apply(bills, opts))
}

func (s *Server) createBill(w http.ResponseWriter, r *http.Request) {
	var payload billPayload
	if err := readJSON(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	bill, err := s.bills.Create(r.Context(), payload.toInput())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateStats()
	slog.InfoContext(r.Context(), "Bill created",
		"id", bill.ID,
		"title", bill.Title,
		"amount", bill.Amount)
	writeJSON(w, http.StatusCreated, bill)
}

func (s *Server) handleBillByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/bills/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "bill not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		bill, err := s.bills.Get(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, bill)

	case http.MethodPut, http.MethodPatch:
		var payload patchPayload
		if err := readJSON(w, r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		bill, err := s.bills.Update(r.Context(), id, payload.toPatch())
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		s.invalidateStats()
		writeJSON(w, http.StatusOK, bill)

	case http.MethodDelete:
		if err := s.bills.Delete(r.Context(), id); err != nil {
			writeStoreError(w, r, err)
			return
		}
		s.invalidateStats()
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, "GET, PUT, PATCH, DELETE")
	}
}

// handleGroupedBills returns the filtered list grouped by calendar date
// with display labels, most recent group first.
func (s *Server) handleGroupedBills(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	opts, err := parseFilterOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bills, err := s.bills.List(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	groups := stats.GroupByDate(filter.Apply(bills, opts), core.DateOf(s.now()))
	writeJSON(w, http.StatusOK, groups)
}
