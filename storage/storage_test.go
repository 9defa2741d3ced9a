package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"phone-analytics/models"
)

func sampleReport() models.RecommendationReport {
	return models.RecommendationReport{
		Source: "gateway",
		Items: []*models.Recommendation{
			{
				Product:    &models.Product{Name: "Redmi Note 13", Brand: "xiaomi", Price: 299.5, RAM: 8, Battery: 5000},
				ValueScore: 9.5, PerformanceScore: 72, MarketPosition: models.TierBudget,
			},
			{
				Product:    &models.Product{Name: "Pixel 8, 128GB", Brand: "google", Price: 699, RAM: 8, Battery: 4575},
				ValueScore: 7, PerformanceScore: 88, MarketPosition: models.TierPremium,
			},
		},
	}
}

func TestCSVWriterWritesRecommendations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "recs.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	if err := w.WriteRecommendations(sampleReport()); err != nil {
		t.Fatalf("WriteRecommendations: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want header + 2", len(rows))
	}
	if rows[0][0] != "rank" || len(rows[0]) != len(recommendationHeader) {
		t.Errorf("header: got %v", rows[0])
	}
	want := []string{"1", "Redmi Note 13", "xiaomi", "299.50", "8", "5000", "9.5", "72", "Budget", "gateway"}
	for i := range want {
		if rows[1][i] != want[i] {
			t.Errorf("row 1 col %d: got %q, want %q", i, rows[1][i], want[i])
		}
	}
	if rows[2][1] != "Pixel 8, 128GB" {
		t.Errorf("quoted name: got %q", rows[2][1])
	}
}

func TestBatches(t *testing.T) {
	products := make([]*models.Product, 120)
	for i := range products {
		products[i] = &models.Product{}
	}
	got := batches(products, 50)
	if len(got) != 3 || len(got[0]) != 50 || len(got[2]) != 20 {
		t.Errorf("batches: got %d batches", len(got))
	}
	if batches(nil, 50) != nil {
		t.Error("no products should yield no batches")
	}
}

// TestCatalogStoreRoundTrip needs a live database: set CATALOG_TEST_DSN.
func TestCatalogStoreRoundTrip(t *testing.T) {
	dsn := os.Getenv("CATALOG_TEST_DSN")
	if dsn == "" {
		t.Skip("CATALOG_TEST_DSN not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := NewCatalogStore(ctx, dsn)
	if err != nil {
		t.Fatalf("NewCatalogStore: %v", err)
	}
	defer store.Close()

	now := time.Now().UTC().Truncate(time.Second)
	products := []*models.Product{
		{ID: "2", Name: "Galaxy S24", Brand: "samsung", Price: 799, RAM: 8, Battery: 4000, ScreenSize: 6.2, FetchedAt: now},
		{ID: "1", Name: "iPhone 15", Brand: "apple", Price: 799, RAM: 6, Battery: 3349, ScreenSize: 6.1, FetchedAt: now},
	}
	if err := store.Write(ctx, products); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := store.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("FetchAll: got %d products, want 2", len(got))
	}
	if got[0].Brand != "apple" {
		t.Errorf("ordering: got %+v first", got[0])
	}
}
