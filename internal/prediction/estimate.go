package prediction

import (
	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/history"
)

// Estimate scores in with a points heuristic over age, resting blood
// pressure and cholesterol. It needs no prediction service and is only a
// rough screen.
func Estimate(in assessment.ClinicalInput) history.RiskLevel {
	points := 0

	switch {
	case in.Age > 60:
		points += 2
	case in.Age > 45:
		points++
	}

	switch {
	case in.RestingBloodPressure >= 140:
		points += 2
	case in.RestingBloodPressure >= 130:
		points++
	}

	switch {
	case in.SerumCholesterol >= 240:
		points += 2
	case in.SerumCholesterol >= 200:
		points++
	}

	switch {
	case points >= 4:
		return history.RiskHigh
	case points >= 2:
		return history.RiskModerate
	default:
		return history.RiskLow
	}
}
