package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// PredictionTarget selects one of the /api/predict/* endpoints.
type PredictionTarget string

const (
	TargetPrice   PredictionTarget = "price"
	TargetRAM     PredictionTarget = "ram"
	TargetBattery PredictionTarget = "battery"
	TargetBrand   PredictionTarget = "brand"
)

// OptionalFloat decodes a JSON number or numeric string. Anything else,
// including null, leaves Valid false without failing the decode.
type OptionalFloat struct {
	Value float64
	Valid bool
}

func (f *OptionalFloat) UnmarshalJSON(data []byte) error {
	*f = OptionalFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil
	}
	f.Value, f.Valid = v, true
	return nil
}

// OptionalString decodes a JSON string. Non-string values leave Valid false.
type OptionalString struct {
	Value string
	Valid bool
}

func (s *OptionalString) UnmarshalJSON(data []byte) error {
	*s = OptionalString{}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	s.Value, s.Valid = v, true
	return nil
}

// AccuracyInfo carries model quality metrics reported by the gateway.
type AccuracyInfo struct {
	R2Score OptionalFloat `json:"r2_score"`
}

// PredictResponse is the union of /api/predict/* response bodies.
type PredictResponse struct {
	Price          OptionalFloat  `json:"price"`
	PredictedPrice OptionalFloat  `json:"predicted_price"`
	RAM            OptionalFloat  `json:"ram"`
	Battery        OptionalFloat  `json:"battery"`
	Brand          OptionalString `json:"brand"`
	AccuracyInfo   *AccuracyInfo  `json:"accuracy_info"`
	ModelUsed      OptionalString `json:"model_used"`
}

// AdvancedPredictResponse is the /api/advanced/predict response body.
type AdvancedPredictResponse struct {
	CurrencySymbol OptionalString `json:"currency_symbol"`
	Price          OptionalFloat  `json:"price"`
	ModelUsed      OptionalString `json:"model_used"`
	AccuracyInfo   *AccuracyInfo  `json:"accuracy_info"`
}

// Comparison is the structured payload of /api/dataset/compare.
type Comparison map[string]any
