package services

import (
	"bytes"
	"strings"
	"testing"

	"phone-analytics/models"
)

func sampleProducts() []*models.Product {
	return []*models.Product{
		{Name: "iPhone 15 Pro", Brand: "apple", Price: 999, RAM: 8, Battery: 3274, LaunchYear: 2023},
		{Name: "Galaxy S24", Brand: "samsung", Price: 799, RAM: 8, Battery: 4000, LaunchYear: 2024},
		{Name: "Galaxy A15", Brand: "samsung", Price: 199, RAM: 4, Battery: 5000, LaunchYear: 2024},
		{Name: "Redmi 13C", Brand: "xiaomi", Price: 0, RAM: 4, Battery: 5000, LaunchYear: 2023},
		{Name: "Mystery", Price: 1500, RAM: 12, Battery: 5000, LaunchYear: 2024},
	}
}

func TestCatalogInsightCounts(t *testing.T) {
	r := NewCatalogInsightService(newTestLogger(), 2024).Generate(sampleProducts())
	if r.TotalProducts != 5 {
		t.Errorf("TotalProducts: got %d, want 5", r.TotalProducts)
	}
	if r.ProductsByBrand["samsung"] != 2 || r.ProductsByBrand["unknown"] != 1 {
		t.Errorf("ProductsByBrand: got %v", r.ProductsByBrand)
	}
}

func TestCatalogInsightPrices(t *testing.T) {
	r := NewCatalogInsightService(newTestLogger(), 2024).Generate(sampleProducts())
	if r.AveragePrice != 874.25 {
		t.Errorf("AveragePrice: got %.2f, want 874.25", r.AveragePrice)
	}
	if r.MinPrice != 199 || r.MaxPrice != 1500 {
		t.Errorf("Min/Max: got %.2f/%.2f, want 199/1500", r.MinPrice, r.MaxPrice)
	}
	if r.MostExpensive == nil || r.MostExpensive.Name != "Mystery" {
		t.Errorf("MostExpensive: got %+v", r.MostExpensive)
	}
}

func TestCatalogInsightMostExpensiveFirst(t *testing.T) {
	products := []*models.Product{
		{Name: "First", Brand: "apple", Price: 1200},
		{Name: "Second", Brand: "apple", Price: 300},
	}
	r := NewCatalogInsightService(newTestLogger(), 2024).Generate(products)
	if r.MostExpensive == nil || r.MostExpensive.Name != "First" {
		t.Errorf("MostExpensive: got %+v", r.MostExpensive)
	}
}

func TestCatalogInsightTopValue(t *testing.T) {
	r := NewCatalogInsightService(newTestLogger(), 2024).Generate(sampleProducts())
	if len(r.TopValue) != 4 {
		t.Fatalf("TopValue: got %d, want 4 priced products", len(r.TopValue))
	}
	for i := 1; i < len(r.TopValue); i++ {
		if r.TopValue[i].ValueScore > r.TopValue[i-1].ValueScore {
			t.Errorf("TopValue not sorted at %d", i)
		}
	}
}

func TestCatalogInsightEmpty(t *testing.T) {
	r := NewCatalogInsightService(newTestLogger(), 2024).Generate(nil)
	if r.TotalProducts != 0 || r.MostExpensive != nil || len(r.TopValue) != 0 {
		t.Errorf("empty catalog: got %+v", r)
	}
}

func TestCatalogInsightPrint(t *testing.T) {
	svc := NewCatalogInsightService(newTestLogger(), 2024)
	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(sampleProducts()))

	out := buf.String()
	for _, want := range []string{"PHONE CATALOG INSIGHTS", "Total products : \033[1m5", "Mystery", "samsung"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Galaxy Z Fold 5 Ultra Edition", 10); got != "Galaxy ..." {
		t.Errorf("truncate: got %q", got)
	}
	if got := truncate("Pixel", 10); got != "Pixel" {
		t.Errorf("truncate: got %q", got)
	}
}
