package history

import (
	"strings"
	"time"
)

// RiskLevel is the coarse risk tag stored with a past prediction.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// RiskLevels lists the levels in display order.
var RiskLevels = []RiskLevel{RiskLow, RiskModerate, RiskHigh}

// ParseRiskLevel accepts a level name in any case.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(strings.ToLower(strings.TrimSpace(s))) {
	case RiskLow:
		return RiskLow, true
	case RiskModerate:
		return RiskModerate, true
	case RiskHigh:
		return RiskHigh, true
	}
	return "", false
}

// Record is one past prediction.
type Record struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	RiskLevel    RiskLevel `json:"riskLevel"`
	Date         time.Time `json:"date"`
	HealthDataID string    `json:"healthDataId"`
}

// BloodPressure is a systolic/diastolic pair in mm Hg. Diastolic is zero when
// it was not measured.
type BloodPressure struct {
	Systolic  int `json:"systolic"`
	Diastolic int `json:"diastolic"`
}

// HealthData is the measurement set a Record was computed from.
type HealthData struct {
	ID            string        `json:"id"`
	UserID        string        `json:"userId"`
	Age           int           `json:"age"`
	Sex           string        `json:"sex"`
	BloodPressure BloodPressure `json:"bloodPressure"`
	Cholesterol   int           `json:"cholesterol"`
	HeartRate     int           `json:"heartRate"`
	BloodSugar    int           `json:"bloodSugar"`
	Date          time.Time     `json:"date"`
}
