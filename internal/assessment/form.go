package assessment

import (
	"net/url"
	"strconv"
	"strings"
)

// ParseForm reads a submitted assessment form. Fields that are absent keep
// their default value; fields that cannot be parsed keep the default and are
// reported in the returned result.
func ParseForm(form url.Values) (ClinicalInput, ValidationResult) {
	in := DefaultInput()
	errs := ValidationResult{}

	ints := []struct {
		field string
		dst   *int
	}{
		{FieldAge, &in.Age},
		{FieldSex, &in.Sex},
		{FieldRestingBloodPressure, &in.RestingBloodPressure},
		{FieldSerumCholesterol, &in.SerumCholesterol},
		{FieldFastingBloodSugar, &in.FastingBloodSugar},
		{FieldRestingECG, &in.RestingECG},
		{FieldMaxHeartRate, &in.MaxHeartRate},
		{FieldExerciseInducedAngina, &in.ExerciseInducedAngina},
		{FieldNumMajorVessels, &in.NumMajorVessels},
	}
	for _, f := range ints {
		raw, ok := lookup(form, f.field)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs[f.field] = messageFor(f.field)
			continue
		}
		*f.dst = v
	}

	if raw, ok := lookup(form, FieldSTDepression); ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs[FieldSTDepression] = messageFor(FieldSTDepression)
		} else {
			in.STDepression = v
		}
	}

	if raw, ok := lookup(form, FieldChestPainType); ok {
		in.ChestPainType = raw
	}
	if raw, ok := lookup(form, FieldSlopeSTSegment); ok {
		in.SlopeSTSegment = raw
	}
	if raw, ok := lookup(form, FieldThalassemia); ok {
		in.Thalassemia = raw
	}

	return in, errs
}

func lookup(form url.Values, field string) (string, bool) {
	if _, ok := form[field]; !ok {
		return "", false
	}
	return strings.TrimSpace(form.Get(field)), true
}
