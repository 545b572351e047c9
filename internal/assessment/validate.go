package assessment

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValidationResult maps a field name to the message shown next to it. An
// empty result means the input may be submitted.
type ValidationResult map[string]string

// Valid reports whether no field failed.
func (v ValidationResult) Valid() bool {
	return len(v) == 0
}

// Fields returns the failing field names in sorted order.
func (v ValidationResult) Fields() []string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Merge returns a new result holding the entries of both; entries in o win.
func (v ValidationResult) Merge(o ValidationResult) ValidationResult {
	out := make(ValidationResult, len(v)+len(o))
	for k, msg := range v {
		out[k] = msg
	}
	for k, msg := range o {
		out[k] = msg
	}
	return out
}

// ValidationError is returned when a submission is attempted with an input
// that does not pass Validate.
type ValidationError struct {
	Fields ValidationResult
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid clinical input: %s", strings.Join(e.Fields.Fields(), ", "))
}

// Bound is an inclusive numeric range for one field.
type Bound struct {
	Field   string
	Min     float64
	Max     float64
	Message string
	value   func(ClinicalInput) float64
}

// Contains reports whether x lies inside the bound.
func (b Bound) Contains(x float64) bool {
	return x >= b.Min && x <= b.Max
}

// MinAttr and MaxAttr format the bound for HTML min/max attributes.
func (b Bound) MinAttr() string { return strconv.FormatFloat(b.Min, 'f', -1, 64) }
func (b Bound) MaxAttr() string { return strconv.FormatFloat(b.Max, 'f', -1, 64) }

// Bounds lists the range-checked fields.
var Bounds = []Bound{
	{Field: FieldAge, Min: 18, Max: 120, Message: "Age must be between 18 and 120",
		value: func(in ClinicalInput) float64 { return float64(in.Age) }},
	{Field: FieldRestingBloodPressure, Min: 80, Max: 220, Message: "Blood pressure must be between 80 and 220",
		value: func(in ClinicalInput) float64 { return float64(in.RestingBloodPressure) }},
	{Field: FieldSerumCholesterol, Min: 100, Max: 500, Message: "Cholesterol must be between 100 and 500",
		value: func(in ClinicalInput) float64 { return float64(in.SerumCholesterol) }},
	{Field: FieldMaxHeartRate, Min: 40, Max: 220, Message: "Heart rate must be between 40 and 220",
		value: func(in ClinicalInput) float64 { return float64(in.MaxHeartRate) }},
	{Field: FieldNumMajorVessels, Min: 0, Max: 3, Message: "Number of major vessels must be between 0 and 3",
		value: func(in ClinicalInput) float64 { return float64(in.NumMajorVessels) }},
	{Field: FieldSTDepression, Min: 0, Max: 6.2, Message: "ST depression must be between 0 and 6.2",
		value: func(in ClinicalInput) float64 { return in.STDepression }},
}

// BoundFor looks up the range of a field.
func BoundFor(field string) (Bound, bool) {
	for _, b := range Bounds {
		if b.Field == field {
			return b, true
		}
	}
	return Bound{}, false
}

type choice struct {
	field   string
	options []Option
	message string
	value   func(ClinicalInput) string
}

var choices = []choice{
	{field: FieldSex, options: SexOptions, message: "Select male or female",
		value: func(in ClinicalInput) string { return strconv.Itoa(in.Sex) }},
	{field: FieldChestPainType, options: ChestPainOptions, message: "Select a listed chest pain type",
		value: func(in ClinicalInput) string { return in.ChestPainType }},
	{field: FieldFastingBloodSugar, options: YesNoOptions, message: "Fasting blood sugar must be yes or no",
		value: func(in ClinicalInput) string { return strconv.Itoa(in.FastingBloodSugar) }},
	{field: FieldRestingECG, options: RestingECGOptions, message: "Select a listed resting ECG result",
		value: func(in ClinicalInput) string { return strconv.Itoa(in.RestingECG) }},
	{field: FieldExerciseInducedAngina, options: YesNoOptions, message: "Exercise induced angina must be yes or no",
		value: func(in ClinicalInput) string { return strconv.Itoa(in.ExerciseInducedAngina) }},
	{field: FieldSlopeSTSegment, options: SlopeOptions, message: "Select a listed ST segment slope",
		value: func(in ClinicalInput) string { return in.SlopeSTSegment }},
	{field: FieldThalassemia, options: ThalassemiaOptions, message: "Select a listed thalassemia result",
		value: func(in ClinicalInput) string { return in.Thalassemia }},
}

// Validate checks every field of in and returns the fields that fail. It has
// no side effects.
func Validate(in ClinicalInput) ValidationResult {
	errs := ValidationResult{}
	for _, b := range Bounds {
		if !b.Contains(b.value(in)) {
			errs[b.Field] = b.Message
		}
	}
	for _, c := range choices {
		if !hasOption(c.options, c.value(in)) {
			errs[c.field] = c.message
		}
	}
	return errs
}

func messageFor(field string) string {
	if b, ok := BoundFor(field); ok {
		return b.Message
	}
	for _, c := range choices {
		if c.field == field {
			return c.message
		}
	}
	return field + " is invalid"
}
