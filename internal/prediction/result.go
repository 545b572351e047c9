package prediction

import (
	"encoding/json"

	"github.com/Skufu/heartcheck/internal/history"
)

// CategoryHeartRisk is the risk_category the prediction service reports for a
// positive prediction. Every other category counts as no risk detected.
const CategoryHeartRisk = "Heart Risk"

// Result is the response of POST /predict.
type Result struct {
	RiskScore    int               `json:"risk_score"`
	RiskCategory string            `json:"risk_category"`
	Confidence   float64           `json:"confidence"`
	Explanations []json.RawMessage `json:"explanations,omitempty"`
}

// HeartRiskDetected reports whether the service flagged heart risk.
func (r Result) HeartRiskDetected() bool {
	return r.RiskCategory == CategoryHeartRisk
}

// RiskLevel is the history tag stored for this result.
func (r Result) RiskLevel() history.RiskLevel {
	if r.HeartRiskDetected() {
		return history.RiskHigh
	}
	return history.RiskLow
}

// StoredPrediction is one entry of GET /predictions/predictions.
type StoredPrediction struct {
	ID any `json:"id"`
	Result
	CreatedAt string `json:"created_at,omitempty"`
}
