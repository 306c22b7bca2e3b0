package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/ledger"
	"github.com/rustyeddy/tradejournal/summary"
)

// EntryRequest is the body of POST and PUT /api/v1/entries.
type EntryRequest struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Direction string  `json:"direction"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Date      string  `json:"date,omitempty"` // YYYY-MM-DD, today when empty
	Reason    string  `json:"reason,omitempty"`
}

func (req EntryRequest) entry() (ledger.Entry, error) {
	dir, err := ledger.ParseDirection(req.Direction)
	if err != nil {
		return ledger.Entry{}, fmt.Errorf("%w: %v", journal.ErrInvalidEntry, err)
	}
	e := ledger.Entry{
		Code:      req.Code,
		Name:      req.Name,
		Direction: dir,
		Quantity:  req.Quantity,
		Price:     req.Price,
		Reason:    strings.TrimSpace(req.Reason),
	}
	if strings.TrimSpace(req.Date) != "" {
		if e.Date, err = journal.ParseDay(req.Date); err != nil {
			return ledger.Entry{}, fmt.Errorf("%w: %v", journal.ErrInvalidEntry, err)
		}
	}
	return e, nil
}

func decodeEntry(r *http.Request) (ledger.Entry, error) {
	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ledger.Entry{}, fmt.Errorf("%w: invalid request body", journal.ErrInvalidEntry)
	}
	return req.entry()
}

func rangeParam(r *http.Request) (summary.Range, error) {
	return summary.ParseRange(r.URL.Query().Get("range"))
}

// ListEntries handles GET /api/v1/entries?range=&q=
func (s *Server) ListEntries(w http.ResponseWriter, r *http.Request) {
	rng, err := rangeParam(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	entries, err := s.journal.History(r.Context(), s.user(r), rng, r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// CreateEntry handles POST /api/v1/entries
func (s *Server) CreateEntry(w http.ResponseWriter, r *http.Request) {
	e, err := decodeEntry(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	e, err = s.journal.Add(r.Context(), s.user(r), e)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// GetEntry handles GET /api/v1/entries/{entryID}
func (s *Server) GetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.journal.Get(r.Context(), s.user(r), chi.URLParam(r, "entryID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// UpdateEntry handles PUT /api/v1/entries/{entryID}
func (s *Server) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	e, err := decodeEntry(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	e, err = s.journal.Update(r.Context(), s.user(r), chi.URLParam(r, "entryID"), e)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// DeleteEntry handles DELETE /api/v1/entries/{entryID}
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.journal.Delete(r.Context(), s.user(r), chi.URLParam(r, "entryID")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSummary handles GET /api/v1/summary?range=&q=
//
// Rows are filtered by q and ordered by open exposure. Portfolio totals
// always cover every instrument.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := rangeParam(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := s.journal.Summary(r.Context(), s.user(r), rng)
	if err != nil {
		s.fail(w, err)
		return
	}
	p.Instruments = summary.FilterInstruments(p.Instruments, r.URL.Query().Get("q"))
	summary.SortByExposure(p.Instruments)
	writeJSON(w, http.StatusOK, p)
}

// ListLots handles GET /api/v1/lots?code=&range=
func (s *Server) ListLots(w http.ResponseWriter, r *http.Request) {
	rng, err := rangeParam(r)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	lots, err := s.journal.Lots(r.Context(), s.user(r), code, rng)
	if err != nil {
		s.fail(w, err)
		return
	}
	if lots == nil {
		lots = []ledger.ClosedLot{}
	}
	writeJSON(w, http.StatusOK, lots)
}
