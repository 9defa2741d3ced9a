package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"phone-analytics/models"
)

var recommendationHeader = []string{
	"rank", "name", "brand", "price", "ram", "battery", "value_score",
	"performance_score", "market_position", "source",
}

// CSVWriter exports recommendation reports to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(recommendationHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRecommendations appends one row per ranked item.
func (c *CSVWriter) WriteRecommendations(report models.RecommendationReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, rec := range report.Items {
		p := rec.Product
		row := []string{
			strconv.Itoa(i + 1),
			p.Name,
			p.Brand,
			formatFloat(p.Price, 2),
			formatFloat(p.RAM, -1),
			formatFloat(p.Battery, -1),
			formatFloat(rec.ValueScore, 1),
			strconv.Itoa(rec.PerformanceScore),
			string(rec.MarketPosition),
			report.Source,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
