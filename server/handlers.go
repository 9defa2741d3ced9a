package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"phone-analytics/models"
	"phone-analytics/services"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type advancedRequest struct {
	models.SpecInput
	ModelType string `json:"modelType"`
	Currency  string `json:"currency"`
}

type compareRequest struct {
	ModelNames []string `json:"modelNames"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var in models.SpecInput
	if !s.decode(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %w", services.ErrInvalidSpec, err))
		return
	}

	result := s.predictor.Predict(r.Context(), in.Resolve(s.referenceYear))
	result.RequestID = uuid.NewString()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAdvanced(w http.ResponseWriter, r *http.Request) {
	var req advancedRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %w", services.ErrInvalidSpec, err))
		return
	}
	modelType := req.ModelType
	if modelType == "" {
		modelType = s.modelType
	}
	currency := req.Currency
	if currency == "" {
		currency = s.currency
	}

	writeJSON(w, http.StatusOK, s.predictor.PredictAdvanced(r.Context(), req.Resolve(s.referenceYear), modelType, currency))
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.recommender.Recommend(r.Context(), criteria))
}

func (s *Server) handleCatalogSummary(w http.ResponseWriter, r *http.Request) {
	products, source, err := s.recommender.LoadCatalog(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("catalog %s: %w", source, err))
		return
	}
	w.Header().Set("X-Catalog-Source", source)
	writeJSON(w, http.StatusOK, s.insights.Generate(products))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.ModelNames) < 2 {
		writeError(w, http.StatusBadRequest, errors.New("modelNames needs at least two entries"))
		return
	}

	result, err := s.comparer.CompareModels(r.Context(), req.ModelNames)
	if err != nil {
		s.logger.Error("[server] Compare failed: %v", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return false
	}
	return true
}

func parseCriteria(r *http.Request) (services.Criteria, error) {
	q := r.URL.Query()
	var c services.Criteria
	var err error

	floats := []struct {
		key string
		dst *float64
	}{
		{"max_budget", &c.MaxBudget},
		{"min_ram", &c.MinRAM},
		{"min_battery", &c.MinBattery},
	}
	for _, f := range floats {
		if v := q.Get(f.key); v != "" {
			if *f.dst, err = strconv.ParseFloat(v, 64); err != nil || *f.dst < 0 {
				return c, fmt.Errorf("%s must be a non-negative number", f.key)
			}
		}
	}
	if v := q.Get("limit"); v != "" {
		if c.Limit, err = strconv.Atoi(v); err != nil || c.Limit < 0 {
			return c, errors.New("limit must be a non-negative integer")
		}
	}
	for _, v := range q["brands"] {
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				c.Brands = append(c.Brands, b)
			}
		}
	}
	return c, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
