package models

// MarketPosition is the market tier derived from a performance score.
type MarketPosition string

// Market tiers, lowest first.
const (
	TierEntryLevel MarketPosition = "Entry-Level"
	TierBudget     MarketPosition = "Budget"
	TierMidRange   MarketPosition = "Mid-Range"
	TierPremium    MarketPosition = "Premium"
	TierFlagship   MarketPosition = "Flagship"
)

// Rank orders tiers from 0 (Entry-Level) to 4 (Flagship). Unknown tiers rank -1.
func (m MarketPosition) Rank() int {
	switch m {
	case TierEntryLevel:
		return 0
	case TierBudget:
		return 1
	case TierMidRange:
		return 2
	case TierPremium:
		return 3
	case TierFlagship:
		return 4
	default:
		return -1
	}
}

// Source tells whether a value came from the remote gateway or the local estimator.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// FallbackModel is the ModelUsed value of locally estimated results.
const FallbackModel = "fallback"

// NumericPrediction is one numeric field of a prediction batch.
type NumericPrediction struct {
	Value      float64 `json:"value"      yaml:"value"`
	Source     Source  `json:"source"     yaml:"source"`
	Confidence int     `json:"confidence" yaml:"confidence"`
}

// LabelPrediction is one categorical field of a prediction batch.
type LabelPrediction struct {
	Value      string `json:"value"      yaml:"value"`
	Source     Source `json:"source"     yaml:"source"`
	Confidence int    `json:"confidence" yaml:"confidence"`
}

// EstimationResult is the merged answer for one submission.
type EstimationResult struct {
	RequestID         string            `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	Price             float64           `json:"price"                yaml:"price"`
	PriceSource       Source            `json:"price_source"         yaml:"price_source"`
	PriceConfidence   int               `json:"price_confidence"     yaml:"price_confidence"`
	OverallConfidence int               `json:"overall_confidence"   yaml:"overall_confidence"`
	PerformanceScore  int               `json:"performance_score"    yaml:"performance_score"`
	MarketPosition    MarketPosition    `json:"market_position"      yaml:"market_position"`
	MarketDescription string            `json:"market_description"   yaml:"market_description"`
	Insights          []string          `json:"insights"             yaml:"insights"`
	ModelUsed         string            `json:"model_used"           yaml:"model_used"`
	RAM               NumericPrediction `json:"ram"                  yaml:"ram"`
	Battery           NumericPrediction `json:"battery"              yaml:"battery"`
	Brand             LabelPrediction   `json:"brand"                yaml:"brand"`
}

// AdvancedEstimate is the answer of the currency-aware advanced predictor.
type AdvancedEstimate struct {
	Price          float64 `json:"price"           yaml:"price"`
	Currency       string  `json:"currency"        yaml:"currency"`
	CurrencySymbol string  `json:"currency_symbol" yaml:"currency_symbol"`
	ModelType      string  `json:"model_type"      yaml:"model_type"`
	ModelUsed      string  `json:"model_used"      yaml:"model_used"`
	Confidence     int     `json:"confidence"      yaml:"confidence"`
	Source         Source  `json:"source"          yaml:"source"`
}
