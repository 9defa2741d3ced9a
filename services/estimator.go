package services

import (
	"math"

	"phone-analytics/models"
)

const (
	basePrice        = 300.0
	minSimplePrice   = 200.0
	maxSimplePrice   = 2000.0
	defaultStorageGb = 128.0
	defaultCameraMp  = 50.0

	minPerformanceScore = 30.0
	maxPerformanceScore = 100.0

	maxInsights = 3
)

// Confidence percentages attached to predicted fields.
const (
	FallbackConfidence      = 75
	RemoteDefaultConfidence = 85
)

// EstimatePrice returns the heuristic USD price clamped to [200, 2000].
func EstimatePrice(spec models.PhoneSpecification) float64 {
	return roundCents(clamp(rawPrice(spec), minSimplePrice, maxSimplePrice))
}

// EstimateAdvancedPrice is the unclamped variant with battery and display
// terms. It never goes below zero.
func EstimateAdvancedPrice(spec models.PhoneSpecification) float64 {
	price := rawPrice(spec) +
		(spec.Battery-models.DefaultBattery)*0.02 +
		(spec.ScreenSize-models.DefaultScreenSize)*40
	return roundCents(math.Max(0, price))
}

func rawPrice(spec models.PhoneSpecification) float64 {
	storage := optional(spec.StorageGb, defaultStorageGb)
	camera := optional(spec.MainCameraMp, defaultCameraMp)

	return basePrice*brandMultiplier(spec.Brand) +
		(spec.RAM-4)*50 +
		(storage-64)*0.5 +
		(camera-12)*2
}

// EstimatePerformanceScore returns a 30–100 score from the processor table,
// RAM and storage.
func EstimatePerformanceScore(spec models.PhoneSpecification) int {
	storage := optional(spec.StorageGb, defaultStorageGb)

	score := float64(lookupProcessor(spec.ProcessorID).score) +
		math.Min(10, (spec.RAM-4)*2) +
		math.Min(5, (storage-64)/32)

	return int(math.Round(clamp(score, minPerformanceScore, maxPerformanceScore)))
}

// ClassifyMarketPosition maps a performance score to its tier and description.
func ClassifyMarketPosition(score int) (models.MarketPosition, string) {
	switch {
	case score >= 95:
		return models.TierFlagship, "Top-tier performance and features"
	case score >= 85:
		return models.TierPremium, "High-end specifications with premium features"
	case score >= 75:
		return models.TierMidRange, "Balanced performance and value"
	case score >= 65:
		return models.TierBudget, "Good value for everyday use"
	default:
		return models.TierEntryLevel, "Basic functionality at affordable price"
	}
}

type insightRule struct {
	message string
	matches func(models.PhoneSpecification) bool
}

// Rules fire in declaration order.
var insightRules = []insightRule{
	{"Excellent battery life for all-day usage", func(s models.PhoneSpecification) bool {
		return s.Battery >= 5000
	}},
	{"Ample RAM for heavy multitasking", func(s models.PhoneSpecification) bool {
		return s.RAM >= 12
	}},
	{"High-resolution main camera for detailed photos", func(s models.PhoneSpecification) bool {
		return s.MainCameraMp != nil && *s.MainCameraMp >= 50
	}},
	{"Flagship processor delivers top-tier performance", func(s models.PhoneSpecification) bool {
		return lookupProcessor(s.ProcessorID).flagship
	}},
	{"Large display ideal for media and gaming", func(s models.PhoneSpecification) bool {
		return s.ScreenSize >= 6.5
	}},
}

var defaultInsights = []string{
	"Balanced specifications for everyday use",
	"Competitive pricing within its segment",
	"Reliable performance for common apps",
}

// GenerateInsights returns at most three distinct observations: matched rules
// first, then defaults.
func GenerateInsights(spec models.PhoneSpecification) []string {
	insights := make([]string, 0, maxInsights)
	for _, rule := range insightRules {
		if rule.matches(spec) {
			insights = appendUnique(insights, rule.message)
		}
	}
	for _, d := range defaultInsights {
		if len(insights) >= maxInsights {
			break
		}
		insights = appendUnique(insights, d)
	}
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

// Estimate builds the complete offline result for spec. It is also the exact
// answer returned when every gateway call fails.
func Estimate(spec models.PhoneSpecification) models.EstimationResult {
	score := EstimatePerformanceScore(spec)
	tier, description := ClassifyMarketPosition(score)

	return models.EstimationResult{
		Price:             EstimatePrice(spec),
		PriceSource:       models.SourceFallback,
		PriceConfidence:   FallbackConfidence,
		OverallConfidence: FallbackConfidence,
		PerformanceScore:  score,
		MarketPosition:    tier,
		MarketDescription: description,
		Insights:          GenerateInsights(spec),
		ModelUsed:         models.FallbackModel,
		RAM:               fallbackNumeric(spec.RAM),
		Battery:           fallbackNumeric(spec.Battery),
		Brand: models.LabelPrediction{
			Value:      fallbackBrand(spec.Brand),
			Source:     models.SourceFallback,
			Confidence: FallbackConfidence,
		},
	}
}

func fallbackNumeric(v float64) models.NumericPrediction {
	return models.NumericPrediction{Value: v, Source: models.SourceFallback, Confidence: FallbackConfidence}
}

func fallbackBrand(brand string) string {
	if b := normalizeBrand(brand); b != "" {
		return b
	}
	return "unknown"
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

func optional(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
