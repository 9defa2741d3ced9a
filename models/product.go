package models

import "time"

// RawProduct is one loosely typed record of the /api/products listing.
type RawProduct map[string]any

// Product is a cleaned catalog entry.
type Product struct {
	ID           string    `json:"id"                  yaml:"id"                  db:"id"`
	Name         string    `json:"name"                yaml:"name"                db:"name"`
	Brand        string    `json:"brand"               yaml:"brand"               db:"brand"`
	Price        float64   `json:"price"               yaml:"price"               db:"price"`
	RAM          float64   `json:"ram"                 yaml:"ram"                 db:"ram"`
	Battery      float64   `json:"battery"             yaml:"battery"             db:"battery"`
	ScreenSize   float64   `json:"screen"              yaml:"screen"              db:"screen"`
	StorageGb    float64   `json:"storage,omitempty"   yaml:"storage,omitempty"   db:"storage"`
	MainCameraMp float64   `json:"camera,omitempty"    yaml:"camera,omitempty"    db:"camera"`
	ProcessorID  string    `json:"processor,omitempty" yaml:"processor,omitempty" db:"processor"`
	LaunchYear   int       `json:"year,omitempty"      yaml:"year,omitempty"      db:"year"`
	ImageURL     string    `json:"image,omitempty"     yaml:"image,omitempty"     db:"image_url"`
	FetchedAt    time.Time `json:"fetched_at"          yaml:"fetched_at"          db:"fetched_at"`
}

// Spec converts a product into an estimator input. Zero storage or camera
// values are treated as absent; a zero year becomes referenceYear.
func (p *Product) Spec(referenceYear int) PhoneSpecification {
	spec := PhoneSpecification{
		RAM:         p.RAM,
		Battery:     p.Battery,
		ScreenSize:  p.ScreenSize,
		Weight:      DefaultWeight,
		LaunchYear:  p.LaunchYear,
		Brand:       p.Brand,
		ProcessorID: p.ProcessorID,
	}
	if spec.LaunchYear == 0 {
		spec.LaunchYear = referenceYear
	}
	if p.StorageGb > 0 {
		spec.StorageGb = Float(p.StorageGb)
	}
	if p.MainCameraMp > 0 {
		spec.MainCameraMp = Float(p.MainCameraMp)
	}
	return spec
}

// Recommendation is a scored catalog entry.
type Recommendation struct {
	Product          *Product       `json:"product"           yaml:"product"`
	ValueScore       float64        `json:"value_score"       yaml:"value_score"`
	PerformanceScore int            `json:"performance_score" yaml:"performance_score"`
	MarketPosition   MarketPosition `json:"market_position"   yaml:"market_position"`
}

// RecommendationReport is the recommender output. Source is "gateway",
// "cache" or "unavailable".
type RecommendationReport struct {
	Source string            `json:"source" yaml:"source"`
	Items  []*Recommendation `json:"items"  yaml:"items"`
}

// CatalogReport holds dashboard statistics over the catalog.
type CatalogReport struct {
	TotalProducts   int               `json:"total_products"    yaml:"total_products"`
	AveragePrice    float64           `json:"average_price"     yaml:"average_price"`
	MinPrice        float64           `json:"min_price"         yaml:"min_price"`
	MaxPrice        float64           `json:"max_price"         yaml:"max_price"`
	MostExpensive   *Product          `json:"most_expensive"    yaml:"most_expensive"`
	TopValue        []*Recommendation `json:"top_value"         yaml:"top_value"`
	ProductsByBrand map[string]int    `json:"products_by_brand" yaml:"products_by_brand"`
}
