package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/glassworks/internal/pricing"
)

func (s *server) handleListGrindingTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.store.ListGrindingTypes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *server) handleReplaceGrindingTypes(w http.ResponseWriter, r *http.Request) {
	types, err := decodeBody[[]pricing.GrindingType](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.ReplaceGrindingTypes(r.Context(), types); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.handleListGrindingTypes(w, r)
}

func (s *server) handleListPriceRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.store.ListPriceRules(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *server) handleReplacePriceRules(w http.ResponseWriter, r *http.Request) {
	rules, err := decodeBody[[]pricing.PriceRule](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.ReplacePriceRules(r.Context(), chi.URLParam(r, "key"), rules); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.handleListPriceRules(w, r)
}
