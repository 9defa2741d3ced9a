package services

import (
	"context"
	"errors"
	"testing"

	"phone-analytics/models"
)

type fakeSource struct {
	products []models.RawProduct
	err      error
	limit    int
}

func (f *fakeSource) ListProducts(ctx context.Context, limit int) ([]models.RawProduct, error) {
	f.limit = limit
	return f.products, f.err
}

type memoryCache struct {
	stored  []*models.Product
	readErr error
	writes  int
}

func (m *memoryCache) Write(ctx context.Context, products []*models.Product) error {
	m.writes++
	m.stored = products
	return nil
}

func (m *memoryCache) FetchAll(ctx context.Context) ([]*models.Product, error) {
	return m.stored, m.readErr
}

func catalog() []models.RawProduct {
	return []models.RawProduct{
		{"name": "iPhone 15", "brand": "Apple", "price": 1200.0, "ram": 8.0, "battery": 4000.0, "year": 2024.0},
		{"name": "Redmi Note 13", "brand": "Xiaomi", "price": 300.0, "ram": 8.0, "battery": 5000.0, "year": 2024.0},
		{"name": "Galaxy A55", "brand": "Samsung", "price": 400.0, "ram": 8.0, "battery": 5000.0, "year": 2024.0},
		{"name": "Alpha", "brand": "Motorola", "price": "$400", "ram": "8GB", "battery": "5000 mAh", "year": 2024.0},
	}
}

func names(items []*models.Recommendation) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Product.Name
	}
	return out
}

func TestRecommendRanksByValue(t *testing.T) {
	src := &fakeSource{products: catalog()}
	r := NewRecommender(src, nil, newTestLogger(), 50, 2024)

	report := r.Recommend(context.Background(), Criteria{})
	if report.Source != SourceGateway {
		t.Errorf("source: got %q, want gateway", report.Source)
	}
	want := []string{"Redmi Note 13", "Alpha", "Galaxy A55", "iPhone 15"}
	got := names(report.Items)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
	if report.Items[0].ValueScore != 9.5 {
		t.Errorf("top value score: got %v, want 9.5", report.Items[0].ValueScore)
	}
	if src.limit != 50 {
		t.Errorf("product limit: got %d, want 50", src.limit)
	}
}

func TestRecommendFilters(t *testing.T) {
	r := NewRecommender(&fakeSource{products: catalog()}, nil, newTestLogger(), 50, 2024)

	tests := []struct {
		name     string
		criteria Criteria
		want     int
	}{
		{"budget", Criteria{MaxBudget: 400}, 3},
		{"min battery", Criteria{MinBattery: 4500}, 3},
		{"min ram", Criteria{MinRAM: 12}, 0},
		{"brands", Criteria{Brands: []string{" apple ", "SAMSUNG"}}, 2},
		{"limit", Criteria{Limit: 1}, 1},
		{"combined", Criteria{MaxBudget: 350, Brands: []string{"xiaomi", "apple"}}, 1},
	}
	for _, tt := range tests {
		if got := len(r.Recommend(context.Background(), tt.criteria).Items); got != tt.want {
			t.Errorf("%s: got %d items, want %d", tt.name, got, tt.want)
		}
	}
}

func TestRecommendRefreshesCache(t *testing.T) {
	cache := &memoryCache{}
	r := NewRecommender(&fakeSource{products: catalog()}, cache, newTestLogger(), 50, 2024)

	r.Recommend(context.Background(), Criteria{})
	if cache.writes != 1 || len(cache.stored) != 4 {
		t.Errorf("cache: writes=%d stored=%d", cache.writes, len(cache.stored))
	}
}

func TestRecommendFallsBackToCache(t *testing.T) {
	cache := &memoryCache{stored: []*models.Product{
		{ID: "1", Name: "Pixel 8", Brand: "google", Price: 699, RAM: 8, Battery: 4575, ScreenSize: 6.2, LaunchYear: 2023},
	}}
	r := NewRecommender(&fakeSource{err: errors.New("gateway down")}, cache, newTestLogger(), 50, 2024)

	report := r.Recommend(context.Background(), Criteria{})
	if report.Source != SourceCache || len(report.Items) != 1 {
		t.Errorf("got source=%q items=%d, want cache/1", report.Source, len(report.Items))
	}
}

func TestRecommendUnavailable(t *testing.T) {
	tests := []struct {
		name  string
		cache CatalogCache
	}{
		{"no cache", nil},
		{"cache fails", &memoryCache{readErr: errors.New("connection refused")}},
	}
	for _, tt := range tests {
		r := NewRecommender(&fakeSource{err: errors.New("gateway down")}, tt.cache, newTestLogger(), 50, 2024)
		report := r.Recommend(context.Background(), Criteria{})
		if report.Source != SourceUnavailable {
			t.Errorf("%s: source: got %q", tt.name, report.Source)
		}
		if report.Items == nil || len(report.Items) != 0 {
			t.Errorf("%s: expected an empty, non-nil item list", tt.name)
		}
	}
}

func TestFilterDropsUnpricedProducts(t *testing.T) {
	products := []*models.Product{
		{Name: "Priced Good", Brand: "xiaomi", Price: 300, RAM: 12, Battery: 5000, ScreenSize: 6.5, LaunchYear: 2024},
		{Name: "No Price", Brand: "xiaomi", Price: 0, RAM: 12, Battery: 5000, ScreenSize: 6.5, LaunchYear: 2024},
	}

	items := Rank(Filter(products, Criteria{MaxBudget: 400}), 2024)
	if len(items) != 1 {
		t.Fatalf("got %v, want only the priced product", names(items))
	}
	if items[0].Product.Name != "Priced Good" {
		t.Errorf("top item: got %q, want Priced Good", items[0].Product.Name)
	}
}

func TestRecommendSkipsRecordsWithoutPrice(t *testing.T) {
	raw := append(catalog(), models.RawProduct{"name": "Mystery", "brand": "Nokia", "price": "TBA", "ram": 12.0, "battery": 6000.0, "year": 2024.0})
	r := NewRecommender(&fakeSource{products: raw}, nil, newTestLogger(), 50, 2024)

	report := r.Recommend(context.Background(), Criteria{})
	for _, name := range names(report.Items) {
		if name == "Mystery" {
			t.Errorf("unpriced product should not be recommended, got %v", names(report.Items))
		}
	}
	if len(report.Items) != 4 {
		t.Errorf("got %d items, want 4", len(report.Items))
	}
}

func TestLoadCatalogEmptyListingFallsBackToCache(t *testing.T) {
	cached := []*models.Product{{ID: "1", Name: "Pixel 8", Brand: "google", Price: 699, RAM: 8, Battery: 4575}}

	tests := []struct {
		name string
		raw  []models.RawProduct
	}{
		{"empty listing", []models.RawProduct{}},
		{"all records dropped", []models.RawProduct{{"brand": "Apple", "price": 999.0}}},
	}
	for _, tt := range tests {
		cache := &memoryCache{stored: cached}
		r := NewRecommender(&fakeSource{products: tt.raw}, cache, newTestLogger(), 50, 2024)

		products, source, err := r.LoadCatalog(context.Background())
		if err != nil || source != SourceCache || len(products) != 1 {
			t.Errorf("%s: got source=%q products=%d err=%v, want cache/1", tt.name, source, len(products), err)
		}
		if cache.writes != 0 {
			t.Errorf("%s: an empty listing must not overwrite the cache", tt.name)
		}
	}
}

func TestLoadCatalogEmptyEverywhere(t *testing.T) {
	tests := []struct {
		name  string
		cache CatalogCache
	}{
		{"no cache", nil},
		{"empty cache", &memoryCache{}},
	}
	for _, tt := range tests {
		r := NewRecommender(&fakeSource{products: []models.RawProduct{}}, tt.cache, newTestLogger(), 50, 2024)
		_, source, err := r.LoadCatalog(context.Background())
		if source != SourceUnavailable || !errors.Is(err, ErrEmptyCatalog) {
			t.Errorf("%s: got source=%q err=%v, want unavailable/ErrEmptyCatalog", tt.name, source, err)
		}
	}
}
