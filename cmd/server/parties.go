package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/glassworks/internal/documents"
)

func listHandler[T any](s *server, list func(ctx context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := list(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func getHandler[T any](s *server, get func(ctx context.Context, id string) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// saveHandler decodes T, forces the id from the URL on PUT and stores it.
// POST answers 201, PUT answers 200.
func saveHandler[T any](s *server, setID func(*T, string), save func(ctx context.Context, v T) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := decodeBody[T](w, r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		status := http.StatusCreated
		if id := chi.URLParam(r, "id"); id != "" {
			setID(&v, id)
			status = http.StatusOK
		}
		saved, err := save(r.Context(), v)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, status, saved)
	}
}

// withNow adapts a store save that takes a timestamp.
func withNow[T any](s *server, save func(ctx context.Context, v T, now time.Time) (T, error)) func(ctx context.Context, v T) (T, error) {
	return func(ctx context.Context, v T) (T, error) {
		return save(ctx, v, s.now())
	}
}

func (s *server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	listHandler(s, s.store.ListCustomers)(w, r)
}

func (s *server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	getHandler(s, s.store.GetCustomer)(w, r)
}

func (s *server) handleSaveCustomer(w http.ResponseWriter, r *http.Request) {
	saveHandler(s, func(c *documents.Customer, id string) { c.ID = id }, s.store.SaveCustomer)(w, r)
}

// handleLookupCustomer resolves free text typed into the customer box.
func (s *server) handleLookupCustomer(w http.ResponseWriter, r *http.Request) {
	customers, err := s.store.ListCustomers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, ok := documents.FindCustomer(customers, r.URL.Query().Get("q"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "customer not found"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *server) handleListAgencies(w http.ResponseWriter, r *http.Request) {
	listHandler(s, s.store.ListAgencies)(w, r)
}

func (s *server) handleGetAgency(w http.ResponseWriter, r *http.Request) {
	getHandler(s, s.store.GetAgency)(w, r)
}

func (s *server) handleSaveAgency(w http.ResponseWriter, r *http.Request) {
	saveHandler(s, func(a *documents.Agency, id string) { a.ID = id }, s.store.SaveAgency)(w, r)
}

func (s *server) handleListProcessingUnits(w http.ResponseWriter, r *http.Request) {
	listHandler(s, s.store.ListProcessingUnits)(w, r)
}

func (s *server) handleGetProcessingUnit(w http.ResponseWriter, r *http.Request) {
	getHandler(s, s.store.GetProcessingUnit)(w, r)
}

func (s *server) handleSaveProcessingUnit(w http.ResponseWriter, r *http.Request) {
	saveHandler(s, func(u *documents.ProcessingUnit, id string) { u.ID = id }, s.store.SaveProcessingUnit)(w, r)
}

func (s *server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	listHandler(s, s.store.ListProducts)(w, r)
}

func (s *server) handleSaveProduct(w http.ResponseWriter, r *http.Request) {
	saveHandler(s, func(p *documents.Product, id string) { p.ID = id }, s.store.SaveProduct)(w, r)
}

func (s *server) handleListDebtSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.ListDebtSummaries(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

type summaryRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (s *server) handleGenerateDebtSummary(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[summaryRequest](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Year < 1 || req.Month < 1 || req.Month > 12 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid period", Details: "year and month 1-12 are required"})
		return
	}
	summary, err := s.store.GenerateDebtSummary(r.Context(), chi.URLParam(r, "id"), req.Year, time.Month(req.Month), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (s *server) handleDeleteDebtSummary(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteDebtSummary(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "summaryID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
