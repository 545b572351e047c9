package assessment

// Field names double as JSON keys on the /predict wire format, form input
// names, and ValidationResult keys.
const (
	FieldAge                   = "Age"
	FieldSex                   = "Sex"
	FieldChestPainType         = "ChestPainType"
	FieldRestingBloodPressure  = "RestingBloodPressure"
	FieldSerumCholesterol      = "SerumCholesterol"
	FieldFastingBloodSugar     = "FastingBloodSugar"
	FieldRestingECG            = "RestingECG"
	FieldMaxHeartRate          = "MaxHeartRate"
	FieldExerciseInducedAngina = "ExerciseInducedAngina"
	FieldSTDepression          = "STDepression"
	FieldSlopeSTSegment        = "SlopeSTSegment"
	FieldNumMajorVessels       = "NumMajorVessels"
	FieldThalassemia           = "Thalassemia"
)

const (
	ChestPainTypical      = "Typical Angina"
	ChestPainAtypical     = "Atypical Angina"
	ChestPainNonAnginal   = "Non-Anginal Pain"
	SlopeUpsloping        = "Upsloping"
	SlopeFlat             = "Flat"
	SlopeDownsloping      = "Downsloping"
	ThalassemiaNormal     = "Normal"
	ThalassemiaFixed      = "Fixed Defect"
	ThalassemiaReversible = "Reversible Defect"
)

// ClinicalInput holds the thirteen clinical measurements scored by the
// prediction service.
type ClinicalInput struct {
	Age                   int     `json:"Age"`
	Sex                   int     `json:"Sex"`
	ChestPainType         string  `json:"ChestPainType"`
	RestingBloodPressure  int     `json:"RestingBloodPressure"`
	SerumCholesterol      int     `json:"SerumCholesterol"`
	FastingBloodSugar     int     `json:"FastingBloodSugar"`
	RestingECG            int     `json:"RestingECG"`
	MaxHeartRate          int     `json:"MaxHeartRate"`
	ExerciseInducedAngina int     `json:"ExerciseInducedAngina"`
	STDepression          float64 `json:"STDepression"`
	SlopeSTSegment        string  `json:"SlopeSTSegment"`
	NumMajorVessels       int     `json:"NumMajorVessels"`
	Thalassemia           string  `json:"Thalassemia"`
}

// DefaultInput returns the values a fresh form session starts with.
func DefaultInput() ClinicalInput {
	return ClinicalInput{
		Age:                   40,
		Sex:                   1,
		ChestPainType:         ChestPainTypical,
		RestingBloodPressure:  120,
		SerumCholesterol:      180,
		FastingBloodSugar:     0,
		RestingECG:            0,
		MaxHeartRate:          72,
		ExerciseInducedAngina: 0,
		STDepression:          0,
		SlopeSTSegment:        SlopeUpsloping,
		NumMajorVessels:       0,
		Thalassemia:           ThalassemiaNormal,
	}
}

// Option is one entry of a closed-set select field.
type Option struct {
	Value string
	Label string
}

var (
	SexOptions = []Option{
		{Value: "1", Label: "Male"},
		{Value: "0", Label: "Female"},
	}
	ChestPainOptions = []Option{
		{Value: ChestPainTypical, Label: ChestPainTypical},
		{Value: ChestPainAtypical, Label: ChestPainAtypical},
		{Value: ChestPainNonAnginal, Label: ChestPainNonAnginal},
	}
	YesNoOptions = []Option{
		{Value: "0", Label: "No"},
		{Value: "1", Label: "Yes"},
	}
	RestingECGOptions = []Option{
		{Value: "0", Label: "Normal"},
		{Value: "1", Label: "ST-T Wave Abnormality"},
		{Value: "2", Label: "Left Ventricular Hypertrophy"},
	}
	SlopeOptions = []Option{
		{Value: SlopeUpsloping, Label: SlopeUpsloping},
		{Value: SlopeFlat, Label: SlopeFlat},
		{Value: SlopeDownsloping, Label: SlopeDownsloping},
	}
	ThalassemiaOptions = []Option{
		{Value: ThalassemiaNormal, Label: ThalassemiaNormal},
		{Value: ThalassemiaFixed, Label: ThalassemiaFixed},
		{Value: ThalassemiaReversible, Label: ThalassemiaReversible},
	}
)

func hasOption(opts []Option, value string) bool {
	for _, o := range opts {
		if o.Value == value {
			return true
		}
	}
	return false
}
