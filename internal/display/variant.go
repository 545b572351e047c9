// Package display maps prediction outcomes and history tags to the visual
// state the pages render.
package display

import (
	"strconv"

	"github.com/Skufu/heartcheck/internal/history"
	"github.com/Skufu/heartcheck/internal/prediction"
)

// Variant is one visual state.
type Variant struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Color   string `json:"color"`
	Icon    string `json:"icon"`
	Message string `json:"message"`
}

var (
	HighRisk = Variant{
		Key:     "high-risk",
		Label:   "High Risk Detected",
		Color:   "red",
		Icon:    "warning",
		Message: "High risk detected! Please consult a healthcare provider immediately.",
	}
	NoRisk = Variant{
		Key:     "no-risk",
		Label:   "No Risk Detected",
		Color:   "green",
		Icon:    "check",
		Message: "Risk assessment completed successfully.",
	}
)

// ForResult picks the variant for a prediction result.
func ForResult(r prediction.Result) Variant {
	if r.HeartRiskDetected() {
		return HighRisk
	}
	return NoRisk
}

// Badge is the chip shown next to a history row.
type Badge struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// ForRiskLevel returns the badge for a history risk level.
func ForRiskLevel(level history.RiskLevel) Badge {
	switch level {
	case history.RiskHigh:
		return Badge{Label: "High Risk", Color: "red"}
	case history.RiskModerate:
		return Badge{Label: "Moderate Risk", Color: "amber"}
	case history.RiskLow:
		return Badge{Label: "Low Risk", Color: "green"}
	}
	return Badge{Label: "Unknown", Color: "gray"}
}

// Confidence formats a percentage with two decimals.
func Confidence(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 2, 64) + "%"
}
