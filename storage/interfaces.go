package storage

import (
	"context"

	"phone-analytics/models"
)

// ProductWriter is the interface any catalog backend must satisfy.
type ProductWriter interface {
	Write(ctx context.Context, products []*models.Product) error
	Close() error
}

// ProductReader returns the stored catalog.
type ProductReader interface {
	FetchAll(ctx context.Context) ([]*models.Product, error)
}

// RecommendationWriter exports ranked recommendations.
type RecommendationWriter interface {
	WriteRecommendations(report models.RecommendationReport) error
	Close() error
}

var (
	_ ProductWriter        = (*CatalogStore)(nil)
	_ ProductReader        = (*CatalogStore)(nil)
	_ RecommendationWriter = (*CSVWriter)(nil)
)
