package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"phone-analytics/models"
	"phone-analytics/services"
	"phone-analytics/utils"
)

type stubSource struct {
	products []models.RawProduct
	err      error
}

func (s stubSource) ListProducts(ctx context.Context, limit int) ([]models.RawProduct, error) {
	return s.products, s.err
}

type stubComparer struct {
	err error
}

func (s stubComparer) CompareModels(ctx context.Context, names []string) (models.Comparison, error) {
	if s.err != nil {
		return nil, s.err
	}
	return models.Comparison{"models": names, "winner": names[0]}, nil
}

func newTestServer(source services.ProductSource, comparer Comparer) *Server {
	logger := utils.NewDiscardLogger()
	return New(
		services.NewPredictor(nil, logger, 4, 0),
		services.NewRecommender(source, nil, logger, 50, 2024),
		services.NewCatalogInsightService(logger, 2024),
		comparer,
		logger,
		Options{ReferenceYear: 2024, DefaultModelType: "random_forest", DefaultCurrency: "USD"},
	)
}

func serve(s *Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func catalog() []models.RawProduct {
	return []models.RawProduct{
		{"name": "iPhone 15", "brand": "apple", "price": 799.0, "ram": 6.0, "battery": 3349.0, "year": 2023.0},
		{"name": "Redmi Note 13", "brand": "xiaomi", "price": 249.0, "ram": 8.0, "battery": 5000.0, "year": 2024.0},
	}
}

func TestHealth(t *testing.T) {
	rec := serve(newTestServer(stubSource{}, stubComparer{}), "GET", "/health", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "OK" {
		t.Errorf("health: got %d %q", rec.Code, rec.Body.String())
	}
}

func TestEstimateEndpoint(t *testing.T) {
	s := newTestServer(stubSource{}, stubComparer{})
	rec := serve(s, "POST", "/api/estimate",
		`{"ram": 12, "battery": 5000, "screen": 6.7, "company": "apple", "processor": "a17pro", "back_camera": 48}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	var got models.EstimationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Price != 1254 || got.PerformanceScore != 100 || got.MarketPosition != models.TierFlagship {
		t.Errorf("got price=%v score=%d tier=%s", got.Price, got.PerformanceScore, got.MarketPosition)
	}
	if got.RequestID == "" || got.ModelUsed != models.FallbackModel {
		t.Errorf("request id / model: got %q / %q", got.RequestID, got.ModelUsed)
	}
}

func TestEstimateRejectsInvalidInput(t *testing.T) {
	s := newTestServer(stubSource{}, stubComparer{})
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"ram": `},
		{"missing brand", `{"ram": 8}`},
		{"negative battery", `{"company": "nokia", "battery": -1}`},
	}
	for _, tt := range tests {
		if rec := serve(s, "POST", "/api/estimate", tt.body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: got %d, want 400", tt.name, rec.Code)
		}
	}
}

func TestAdvancedEndpointDefaults(t *testing.T) {
	s := newTestServer(stubSource{}, stubComparer{})
	rec := serve(s, "POST", "/api/estimate/advanced", `{"company": "google", "currency": "eur"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var got models.AdvancedEstimate
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Currency != "EUR" || got.ModelType != "random_forest" || got.Source != models.SourceFallback {
		t.Errorf("got %+v", got)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	s := newTestServer(stubSource{products: catalog()}, stubComparer{})
	rec := serve(s, "GET", "/api/recommendations?max_budget=500&brands=xiaomi,apple", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var got models.RecommendationReport
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Source != "gateway" || len(got.Items) != 1 || got.Items[0].Product.Name != "Redmi Note 13" {
		t.Errorf("got %+v", got)
	}

	if rec := serve(s, "GET", "/api/recommendations?min_ram=lots", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad query: got %d, want 400", rec.Code)
	}
}

func TestCatalogSummaryEndpoint(t *testing.T) {
	rec := serve(newTestServer(stubSource{products: catalog()}, stubComparer{}), "GET", "/api/catalog/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if rec.Header().Get("X-Catalog-Source") != "gateway" {
		t.Errorf("source header: got %q", rec.Header().Get("X-Catalog-Source"))
	}
	var got models.CatalogReport
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalProducts != 2 || got.MaxPrice != 799 {
		t.Errorf("got %+v", got)
	}

	down := newTestServer(stubSource{err: errors.New("gateway down")}, stubComparer{})
	if rec := serve(down, "GET", "/api/catalog/summary", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unavailable catalog: got %d, want 503", rec.Code)
	}
}

func TestCompareEndpoint(t *testing.T) {
	s := newTestServer(stubSource{}, stubComparer{})
	rec := serve(s, "POST", "/api/compare", `{"modelNames": ["Pixel 8", "iPhone 15"]}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"winner":"Pixel 8"`) {
		t.Errorf("compare: got %d %s", rec.Code, rec.Body.String())
	}

	if rec := serve(s, "POST", "/api/compare", `{"modelNames": ["Pixel 8"]}`); rec.Code != http.StatusBadRequest {
		t.Errorf("single model: got %d, want 400", rec.Code)
	}

	failing := newTestServer(stubSource{}, stubComparer{err: errors.New("502 from gateway")})
	if rec := serve(failing, "POST", "/api/compare", `{"modelNames": ["a", "b"]}`); rec.Code != http.StatusBadGateway {
		t.Errorf("gateway failure: got %d, want 502", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	if rec := serve(newTestServer(stubSource{}, stubComparer{}), "GET", "/api/estimate", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/estimate: got %d, want 405", rec.Code)
	}
}
