package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"phone-analytics/models"
	"phone-analytics/utils"
)

// ErrMalformedResponse marks a gateway answer that lacks the expected field.
var ErrMalformedResponse = errors.New("malformed gateway response")

// PredictionGateway is the remote prediction service.
type PredictionGateway interface {
	Predict(ctx context.Context, target models.PredictionTarget, spec models.PhoneSpecification) (*models.PredictResponse, error)
	AdvancedPredict(ctx context.Context, spec models.PhoneSpecification, modelType, currency string) (*models.AdvancedPredictResponse, error)
}

// Predictor asks the gateway for price, ram, battery and brand in parallel
// and keeps the heuristic value for every field the gateway cannot answer.
type Predictor struct {
	gateway        PredictionGateway
	logger         *utils.Logger
	maxConcurrency int
	rateLimitMs    int
}

// NewPredictor creates a Predictor. A nil gateway makes it purely local.
func NewPredictor(gateway PredictionGateway, logger *utils.Logger, maxConcurrency, rateLimitMs int) *Predictor {
	return &Predictor{
		gateway:        gateway,
		logger:         logger,
		maxConcurrency: maxConcurrency,
		rateLimitMs:    rateLimitMs,
	}
}

type remoteValue[T any] struct {
	value      T
	confidence int
	model      string
	err        error
}

// Predict returns the merged estimation for spec. It waits for every remote
// call to settle and never fails.
func (p *Predictor) Predict(ctx context.Context, spec models.PhoneSpecification) models.EstimationResult {
	result := Estimate(spec)
	if p.gateway == nil {
		return result
	}

	var (
		price   remoteValue[float64]
		ram     remoteValue[float64]
		battery remoteValue[float64]
		brand   remoteValue[string]
	)

	pool := utils.NewWorkerPool(p.maxConcurrency, p.rateLimitMs)
	pool.Submit(ctx, func() {
		price = p.remoteNumber(ctx, models.TargetPrice, spec, func(r *models.PredictResponse) models.OptionalFloat {
			if r.Price.Valid {
				return r.Price
			}
			return r.PredictedPrice
		})
	})
	pool.Submit(ctx, func() {
		ram = p.remoteNumber(ctx, models.TargetRAM, spec, func(r *models.PredictResponse) models.OptionalFloat {
			return r.RAM
		})
	})
	pool.Submit(ctx, func() {
		battery = p.remoteNumber(ctx, models.TargetBattery, spec, func(r *models.PredictResponse) models.OptionalFloat {
			return r.Battery
		})
	})
	pool.Submit(ctx, func() {
		brand = p.remoteBrand(ctx, spec)
	})
	pool.Wait()

	if price.err != nil {
		p.logger.Warn("[predictor] Price prediction unavailable, using heuristic estimate: %v", price.err)
	} else {
		result.Price = price.value
		result.PriceSource = models.SourceRemote
		result.PriceConfidence = price.confidence
		result.ModelUsed = price.model
		if result.ModelUsed == "" {
			result.ModelUsed = string(models.SourceRemote)
		}
	}

	mergeNumeric(p.logger, &result.RAM, models.TargetRAM, ram)
	mergeNumeric(p.logger, &result.Battery, models.TargetBattery, battery)

	if brand.err != nil {
		p.logger.Warn("[predictor] Brand prediction unavailable, keeping %q: %v", result.Brand.Value, brand.err)
	} else {
		result.Brand = models.LabelPrediction{Value: brand.value, Source: models.SourceRemote, Confidence: brand.confidence}
	}

	result.OverallConfidence = meanConfidence(
		result.PriceConfidence, result.RAM.Confidence, result.Battery.Confidence, result.Brand.Confidence,
	)
	return result
}

// PredictAdvanced asks /api/advanced/predict for a price in currency and
// falls back to the unclamped heuristic converted from USD.
func (p *Predictor) PredictAdvanced(ctx context.Context, spec models.PhoneSpecification, modelType, currency string) models.AdvancedEstimate {
	amount, cur := ConvertFromUSD(EstimateAdvancedPrice(spec), currency)
	estimate := models.AdvancedEstimate{
		Price:          amount.InexactFloat64(),
		Currency:       cur.Code,
		CurrencySymbol: cur.Symbol,
		ModelType:      modelType,
		ModelUsed:      models.FallbackModel,
		Confidence:     FallbackConfidence,
		Source:         models.SourceFallback,
	}
	if p.gateway == nil {
		return estimate
	}

	resp, err := p.gateway.AdvancedPredict(ctx, spec, modelType, cur.Code)
	if err == nil && !validAmount(resp.Price) {
		err = fmt.Errorf("advanced price: %w", ErrMalformedResponse)
	}
	if err != nil {
		p.logger.Warn("[predictor] Advanced prediction unavailable, using heuristic estimate: %v", err)
		return estimate
	}

	estimate.Price = resp.Price.Value
	estimate.Source = models.SourceRemote
	estimate.Confidence = confidenceFrom(resp.AccuracyInfo)
	estimate.ModelUsed = modelType
	if resp.ModelUsed.Valid {
		estimate.ModelUsed = resp.ModelUsed.Value
	}
	if resp.CurrencySymbol.Valid {
		estimate.CurrencySymbol = resp.CurrencySymbol.Value
	}
	return estimate
}

func (p *Predictor) remoteNumber(
	ctx context.Context,
	target models.PredictionTarget,
	spec models.PhoneSpecification,
	pick func(*models.PredictResponse) models.OptionalFloat,
) remoteValue[float64] {
	resp, err := p.gateway.Predict(ctx, target, spec)
	if err != nil {
		return remoteValue[float64]{err: err}
	}
	v := pick(resp)
	if !validAmount(v) {
		return remoteValue[float64]{err: fmt.Errorf("%s: %w", target, ErrMalformedResponse)}
	}
	return remoteValue[float64]{
		value:      v.Value,
		confidence: confidenceFrom(resp.AccuracyInfo),
		model:      resp.ModelUsed.Value,
	}
}

func (p *Predictor) remoteBrand(ctx context.Context, spec models.PhoneSpecification) remoteValue[string] {
	resp, err := p.gateway.Predict(ctx, models.TargetBrand, spec)
	if err != nil {
		return remoteValue[string]{err: err}
	}
	if !resp.Brand.Valid {
		return remoteValue[string]{err: fmt.Errorf("brand: %w", ErrMalformedResponse)}
	}
	return remoteValue[string]{
		value:      normalizeBrand(resp.Brand.Value),
		confidence: confidenceFrom(resp.AccuracyInfo),
		model:      resp.ModelUsed.Value,
	}
}

func mergeNumeric(logger *utils.Logger, field *models.NumericPrediction, target models.PredictionTarget, remote remoteValue[float64]) {
	if remote.err != nil {
		logger.Warn("[predictor] %s prediction unavailable, keeping %v: %v", target, field.Value, remote.err)
		return
	}
	*field = models.NumericPrediction{Value: remote.value, Source: models.SourceRemote, Confidence: remote.confidence}
}

func validAmount(v models.OptionalFloat) bool {
	return v.Valid && !math.IsNaN(v.Value) && !math.IsInf(v.Value, 0) && v.Value > 0
}

// confidenceFrom turns an r2 score into a 0–100 percentage.
func confidenceFrom(info *models.AccuracyInfo) int {
	if info == nil || !info.R2Score.Valid {
		return RemoteDefaultConfidence
	}
	return int(clamp(math.Round(info.R2Score.Value*100), 0, 100))
}

func meanConfidence(values ...int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}
