package models

import (
	"errors"
	"fmt"
	"strings"
)

// Defaults applied to absent fields of a SpecInput.
const (
	DefaultRAM        = 8.0
	DefaultBattery    = 4000.0
	DefaultScreenSize = 6.1
	DefaultWeight     = 180.0
)

// SpecInput is a phone specification as submitted by a user or client.
// Nil fields are absent and resolve to defaults.
type SpecInput struct {
	RAM           *float64 `json:"ram,omitempty"           yaml:"ram,omitempty"`
	Battery       *float64 `json:"battery,omitempty"       yaml:"battery,omitempty"`
	ScreenSize    *float64 `json:"screen,omitempty"        yaml:"screen,omitempty"`
	Weight        *float64 `json:"weight,omitempty"        yaml:"weight,omitempty"`
	LaunchYear    *int     `json:"year,omitempty"          yaml:"year,omitempty"`
	Brand         string   `json:"company"                 yaml:"company"`
	MainCameraMp  *float64 `json:"back_camera,omitempty"   yaml:"back_camera,omitempty"`
	FrontCameraMp *float64 `json:"front_camera,omitempty"  yaml:"front_camera,omitempty"`
	StorageGb     *float64 `json:"storage,omitempty"       yaml:"storage,omitempty"`
	ProcessorID   string   `json:"processor,omitempty"     yaml:"processor,omitempty"`
}

// Validate reports a missing brand or any negative numeric field.
func (in SpecInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Brand) == "" {
		errs = append(errs, errors.New("company is required"))
	}
	checks := []struct {
		name string
		v    *float64
	}{
		{"ram", in.RAM},
		{"battery", in.Battery},
		{"screen", in.ScreenSize},
		{"weight", in.Weight},
		{"back_camera", in.MainCameraMp},
		{"front_camera", in.FrontCameraMp},
		{"storage", in.StorageGb},
	}
	for _, c := range checks {
		if c.v != nil && *c.v < 0 {
			errs = append(errs, fmt.Errorf("%s must be non-negative, got %v", c.name, *c.v))
		}
	}
	if in.LaunchYear != nil && *in.LaunchYear < 0 {
		errs = append(errs, fmt.Errorf("year must be non-negative, got %d", *in.LaunchYear))
	}
	return errors.Join(errs...)
}

// Resolve fills absent fields with defaults. referenceYear stands in for a
// missing launch year.
func (in SpecInput) Resolve(referenceYear int) PhoneSpecification {
	spec := PhoneSpecification{
		RAM:           valueOr(in.RAM, DefaultRAM),
		Battery:       valueOr(in.Battery, DefaultBattery),
		ScreenSize:    valueOr(in.ScreenSize, DefaultScreenSize),
		Weight:        valueOr(in.Weight, DefaultWeight),
		LaunchYear:    referenceYear,
		Brand:         strings.TrimSpace(in.Brand),
		MainCameraMp:  copyFloat(in.MainCameraMp),
		FrontCameraMp: copyFloat(in.FrontCameraMp),
		StorageGb:     copyFloat(in.StorageGb),
		ProcessorID:   strings.TrimSpace(in.ProcessorID),
	}
	if in.LaunchYear != nil {
		spec.LaunchYear = *in.LaunchYear
	}
	return spec
}

// PhoneSpecification is the normalized input of the estimator.
// Camera and storage stay optional: the estimator applies its own defaults.
type PhoneSpecification struct {
	RAM           float64  `json:"ram"                    yaml:"ram"`
	Battery       float64  `json:"battery"                yaml:"battery"`
	ScreenSize    float64  `json:"screen"                 yaml:"screen"`
	Weight        float64  `json:"weight"                 yaml:"weight"`
	LaunchYear    int      `json:"year"                   yaml:"year"`
	Brand         string   `json:"company"                yaml:"company"`
	MainCameraMp  *float64 `json:"back_camera,omitempty"  yaml:"back_camera,omitempty"`
	FrontCameraMp *float64 `json:"front_camera,omitempty" yaml:"front_camera,omitempty"`
	StorageGb     *float64 `json:"storage,omitempty"      yaml:"storage,omitempty"`
	ProcessorID   string   `json:"processor,omitempty"    yaml:"processor,omitempty"`
}

// Float returns a pointer to v, for building optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

func valueOr(p *float64, fallback float64) float64 {
	if p == nil {
		return fallback
	}
	return *p
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
