package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"phone-analytics/models"
	"phone-analytics/utils"
)

// Catalog sources reported in RecommendationReport.Source.
const (
	SourceGateway     = "gateway"
	SourceCache       = "cache"
	SourceUnavailable = "unavailable"
)

const defaultRecommendationLimit = 10

// ProductSource lists the raw product catalog.
type ProductSource interface {
	ListProducts(ctx context.Context, limit int) ([]models.RawProduct, error)
}

// CatalogCache keeps the last good catalog for when the gateway is down.
type CatalogCache interface {
	Write(ctx context.Context, products []*models.Product) error
	FetchAll(ctx context.Context) ([]*models.Product, error)
}

// Criteria filters and bounds a recommendation request. Zero values disable
// the corresponding filter.
type Criteria struct {
	MaxBudget  float64  `json:"max_budget"`
	MinRAM     float64  `json:"min_ram"`
	MinBattery float64  `json:"min_battery"`
	Brands     []string `json:"brands"`
	Limit      int      `json:"limit"`
}

// Recommender ranks catalog phones by value for money.
type Recommender struct {
	source        ProductSource
	cache         CatalogCache
	cleaner       *Cleaner
	logger        *utils.Logger
	productLimit  int
	referenceYear int
}

// NewRecommender creates a Recommender. cache may be nil.
func NewRecommender(source ProductSource, cache CatalogCache, logger *utils.Logger, productLimit, referenceYear int) *Recommender {
	return &Recommender{
		source:        source,
		cache:         cache,
		cleaner:       NewCleaner(logger),
		logger:        logger,
		productLimit:  productLimit,
		referenceYear: referenceYear,
	}
}

// ErrEmptyCatalog is returned by a listing that yields no usable products.
var ErrEmptyCatalog = errors.New("product listing is empty")

// LoadCatalog returns the cleaned catalog and where it came from. A fresh
// non-empty gateway listing refreshes the cache; an empty one is treated
// like a failed listing.
func (r *Recommender) LoadCatalog(ctx context.Context) ([]*models.Product, string, error) {
	raw, err := r.source.ListProducts(ctx, r.productLimit)
	if err == nil {
		products := r.cleaner.Clean(raw)
		if len(products) > 0 {
			if r.cache != nil {
				if cacheErr := r.cache.Write(ctx, products); cacheErr != nil {
					r.logger.Warn("[recommender] Catalog cache refresh failed: %v", cacheErr)
				}
			}
			return products, SourceGateway, nil
		}
		err = fmt.Errorf("%w (%d raw records)", ErrEmptyCatalog, len(raw))
	}
	r.logger.Warn("[recommender] Product listing failed: %v", err)

	if r.cache == nil {
		return nil, SourceUnavailable, err
	}
	products, cacheErr := r.cache.FetchAll(ctx)
	if cacheErr != nil {
		r.logger.Error("[recommender] Catalog cache read failed: %v", cacheErr)
		return nil, SourceUnavailable, errors.Join(err, cacheErr)
	}
	if len(products) == 0 {
		return nil, SourceUnavailable, errors.Join(err, ErrEmptyCatalog)
	}
	r.logger.Info("[recommender] Serving %d products from cache", len(products))
	return products, SourceCache, nil
}

// Recommend filters, scores and ranks the catalog. It never fails: without
// any catalog the report is empty with Source "unavailable".
func (r *Recommender) Recommend(ctx context.Context, c Criteria) models.RecommendationReport {
	products, source, err := r.LoadCatalog(ctx)
	if err != nil {
		return models.RecommendationReport{Source: source, Items: []*models.Recommendation{}}
	}

	items := Rank(Filter(products, c), r.referenceYear)
	limit := c.Limit
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	if len(items) > limit {
		items = items[:limit]
	}
	r.logger.Info("[recommender] %d of %d products match (source: %s)", len(items), len(products), source)
	return models.RecommendationReport{Source: source, Items: items}
}

// Filter keeps the priced products matching every active criterion.
// Products without a price have no value ratio and are never recommended.
func Filter(products []*models.Product, c Criteria) []*models.Product {
	brands := make(map[string]struct{}, len(c.Brands))
	for _, b := range c.Brands {
		if b = normalizeBrand(b); b != "" {
			brands[b] = struct{}{}
		}
	}

	out := make([]*models.Product, 0, len(products))
	for _, p := range products {
		if p.Price <= 0 {
			continue
		}
		if c.MaxBudget > 0 && p.Price > c.MaxBudget {
			continue
		}
		if p.RAM < c.MinRAM || p.Battery < c.MinBattery {
			continue
		}
		if len(brands) > 0 {
			if _, ok := brands[normalizeBrand(p.Brand)]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// Rank scores products and sorts them by value score, then price, then name.
func Rank(products []*models.Product, referenceYear int) []*models.Recommendation {
	items := make([]*models.Recommendation, 0, len(products))
	for _, p := range products {
		spec := p.Spec(referenceYear)
		score := EstimatePerformanceScore(spec)
		tier, _ := ClassifyMarketPosition(score)
		items = append(items, &models.Recommendation{
			Product:          p,
			ValueScore:       ComputeValueScore(spec, p.Price, referenceYear),
			PerformanceScore: score,
			MarketPosition:   tier,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ValueScore != b.ValueScore {
			return a.ValueScore > b.ValueScore
		}
		if a.Product.Price != b.Product.Price {
			return a.Product.Price < b.Product.Price
		}
		return strings.ToLower(a.Product.Name) < strings.ToLower(b.Product.Name)
	})
	return items
}
