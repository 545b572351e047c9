package history

import (
	"strings"
	"time"
	"unicode/utf8"
)

// SymptomType names a loggable symptom.
type SymptomType string

const (
	SymptomChestPain         SymptomType = "chestPain"
	SymptomShortnessOfBreath SymptomType = "shortnessOfBreath"
	SymptomFatigue           SymptomType = "fatigue"
	SymptomDizziness         SymptomType = "dizziness"
	SymptomSwelling          SymptomType = "swelling"
	SymptomOther             SymptomType = "other"
)

const (
	MinSeverity          = 1
	MaxSeverity          = 5
	MaxDescriptionLength = 500
)

// SymptomOption pairs a symptom type with its label.
type SymptomOption struct {
	Type  SymptomType
	Label string
}

// SymptomOptions lists the loggable symptoms in display order.
var SymptomOptions = []SymptomOption{
	{SymptomChestPain, "Chest Pain"},
	{SymptomShortnessOfBreath, "Shortness of Breath"},
	{SymptomFatigue, "Fatigue"},
	{SymptomDizziness, "Dizziness"},
	{SymptomSwelling, "Swelling in Legs/Ankles"},
	{SymptomOther, "Other"},
}

// Label returns the display label of t, or t itself when unknown.
func (t SymptomType) Label() string {
	for _, o := range SymptomOptions {
		if o.Type == t {
			return o.Label
		}
	}
	return string(t)
}

func (t SymptomType) known() bool {
	for _, o := range SymptomOptions {
		if o.Type == t {
			return true
		}
	}
	return false
}

// Symptom is one logged symptom.
type Symptom struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	Type        SymptomType `json:"type"`
	Severity    int         `json:"severity"`
	Description string      `json:"description,omitempty"`
	Date        time.Time   `json:"date"`
}

// ValidateSymptom checks the user-editable fields of a symptom entry and
// returns a field -> message map; empty means valid.
func ValidateSymptom(t SymptomType, severity int, description string) map[string]string {
	errs := map[string]string{}
	if !t.known() {
		errs["type"] = "Select a listed symptom"
	}
	if severity < MinSeverity || severity > MaxSeverity {
		errs["severity"] = "Severity must be between 1 and 5"
	}
	if utf8.RuneCountInString(strings.TrimSpace(description)) > MaxDescriptionLength {
		errs["description"] = "Description must be at most 500 characters"
	}
	return errs
}
