package services

import (
	"math"

	"phone-analytics/models"
)

// ComputeValueScore rates how much phone actualPrice buys, on a 1–10 scale
// with one decimal. referenceYear is the "current" year used for recency.
func ComputeValueScore(spec models.PhoneSpecification, actualPrice float64, referenceYear int) float64 {
	score := 5.0

	if spec.RAM > 0 {
		ratio := actualPrice / spec.RAM
		switch {
		case ratio < 50:
			score += 2
		case ratio < 80:
			score += 1
		case ratio > 150:
			score -= 1
		}
	}

	switch {
	case spec.Battery >= 5000:
		score += 1
	case spec.Battery >= 4000:
		score += 0.5
	case spec.Battery < 3000:
		score -= 1
	}

	switch {
	case spec.RAM >= 12:
		score += 1
	case spec.RAM >= 8:
		score += 0.5
	case spec.RAM < 4:
		score -= 1
	}

	age := referenceYear - spec.LaunchYear
	switch {
	case age <= 1:
		score += 1
	case age <= 2:
		score += 0.5
	case age > 5:
		score -= 1
	}

	return math.Round(clamp(score, 1, 10)*10) / 10
}
