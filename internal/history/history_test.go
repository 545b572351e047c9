package history

import (
	"strings"
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleRecords() []Record {
	return []Record{
		{ID: "1", UserID: "1", RiskLevel: RiskModerate, Date: day("2023-09-15"), HealthDataID: "1"},
		{ID: "2", UserID: "1", RiskLevel: RiskHigh, Date: day("2023-10-20"), HealthDataID: "2"},
		{ID: "3", UserID: "2", RiskLevel: RiskLow, Date: day("2023-11-05"), HealthDataID: "3"},
	}
}

func ids(records []Record) string {
	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = r.ID
	}
	return strings.Join(parts, ",")
}

func TestSortByDateDesc(t *testing.T) {
	in := sampleRecords()
	out := SortByDateDesc(in)
	if got := ids(out); got != "3,2,1" {
		t.Fatalf("expected 3,2,1, got %s", got)
	}
	if got := ids(in); got != "1,2,3" {
		t.Fatalf("input was mutated: %s", got)
	}
}

func TestFilterByRisk(t *testing.T) {
	records := sampleRecords()
	tests := []struct {
		level string
		want  string
	}{
		{"", "1,2,3"},
		{"all", "1,2,3"},
		{"high", "2"},
		{"Moderate", "1"},
		{"low", "3"},
		{"critical", ""},
	}
	for _, tt := range tests {
		if got := ids(FilterByRisk(records, tt.level)); got != tt.want {
			t.Errorf("FilterByRisk(%q): expected %q, got %q", tt.level, tt.want, got)
		}
	}
}

func TestSearch(t *testing.T) {
	records := sampleRecords()
	if got := ids(Search(records, "2")); got != "2,3" {
		t.Fatalf("expected id or user match 2,3, got %s", got)
	}
	if got := ids(Search(records, "  ")); got != "1,2,3" {
		t.Fatalf("blank term should keep all, got %s", got)
	}
	if got := ids(Search(records, "zzz")); got != "" {
		t.Fatalf("expected no match, got %s", got)
	}
}

func TestLatest(t *testing.T) {
	if _, ok := Latest(nil); ok {
		t.Fatal("expected no latest record for empty input")
	}
	latest, ok := Latest(sampleRecords())
	if !ok || latest.ID != "3" {
		t.Fatalf("expected record 3, got %+v", latest)
	}
}

func TestCountByRisk(t *testing.T) {
	c := CountByRisk(sampleRecords())
	if c.Low != 1 || c.Moderate != 1 || c.High != 1 || c.Total() != 3 {
		t.Fatalf("unexpected counts %+v", c)
	}
}

func TestAggregate(t *testing.T) {
	base := Statistics{
		TotalScreened: 250,
		HighRiskCount: 45,
		WeeklyTrend: []TrendPoint{
			{Date: "2023-11-01", Count: 30},
			{Date: "2023-11-08", Count: 35},
		},
		RegionalDistribution: []RegionCount{{Region: "North", Count: 80}},
	}
	added := []Record{
		{ID: "a", RiskLevel: RiskHigh, Date: day("2023-11-03").Add(15 * time.Hour)},
		{ID: "b", RiskLevel: RiskLow, Date: day("2023-11-14")},
		{ID: "c", RiskLevel: RiskHigh, Date: day("2024-01-04")},
	}

	got := Aggregate(base, added)
	if got.TotalScreened != 253 {
		t.Fatalf("expected 253 screened, got %d", got.TotalScreened)
	}
	if got.HighRiskCount != 47 {
		t.Fatalf("expected 47 high risk, got %d", got.HighRiskCount)
	}
	want := []TrendPoint{
		{Date: "2023-11-01", Count: 31},
		{Date: "2023-11-08", Count: 36},
		{Date: "2024-01-01", Count: 1},
	}
	if len(got.WeeklyTrend) != len(want) {
		t.Fatalf("expected %d trend points, got %+v", len(want), got.WeeklyTrend)
	}
	for i := range want {
		if got.WeeklyTrend[i] != want[i] {
			t.Errorf("trend[%d]: expected %+v, got %+v", i, want[i], got.WeeklyTrend[i])
		}
	}
	if base.WeeklyTrend[0].Count != 30 {
		t.Fatal("baseline was mutated")
	}
}

func TestStoreAppend(t *testing.T) {
	s := NewStore(Seed{
		Records:    sampleRecords(),
		HealthData: []HealthData{{ID: "1", UserID: "1", Age: 45}},
		Statistics: Statistics{TotalScreened: 10},
	})

	hd := HealthData{ID: "hd-new", UserID: "1", Age: 52}
	s.Append(Record{ID: "4", UserID: "1", RiskLevel: RiskHigh, Date: day("2023-12-01")}, &hd)

	if got := len(s.Records()); got != 4 {
		t.Fatalf("expected 4 records, got %d", got)
	}
	mine := s.RecordsFor("1")
	if got := ids(mine); got != "1,2,4" {
		t.Fatalf("expected 1,2,4 for user 1, got %s", got)
	}
	if mine[2].HealthDataID != "hd-new" {
		t.Fatalf("expected record linked to health data, got %q", mine[2].HealthDataID)
	}
	if got, ok := s.HealthData("hd-new"); !ok || got.Age != 52 {
		t.Fatalf("expected stored health data, got %+v %v", got, ok)
	}
	stats := s.Statistics()
	if stats.TotalScreened != 11 || stats.HighRiskCount != 1 {
		t.Fatalf("unexpected statistics %+v", stats)
	}
}

func TestStoreRecordsSnapshot(t *testing.T) {
	s := NewStore(Seed{Records: sampleRecords()})
	snap := s.Records()
	snap[0].ID = "changed"
	if s.Records()[0].ID != "1" {
		t.Fatal("snapshot shares memory with the store")
	}
}

func TestStoreSymptoms(t *testing.T) {
	s := NewStore(Seed{})
	s.AppendSymptom(Symptom{ID: "s1", UserID: "1", Type: SymptomFatigue, Severity: 2})
	s.AppendSymptom(Symptom{ID: "s2", UserID: "2", Type: SymptomDizziness, Severity: 3})
	s.AppendSymptom(Symptom{ID: "s3", UserID: "1", Type: SymptomChestPain, Severity: 4})

	got := s.Symptoms("1")
	if len(got) != 2 || got[0].ID != "s3" || got[1].ID != "s1" {
		t.Fatalf("expected s3,s1 newest first, got %+v", got)
	}
}

func TestValidateSymptom(t *testing.T) {
	if errs := ValidateSymptom(SymptomSwelling, 3, "ankles"); len(errs) != 0 {
		t.Fatalf("expected valid symptom, got %v", errs)
	}
	errs := ValidateSymptom("nausea", 0, strings.Repeat("x", MaxDescriptionLength+1))
	for _, field := range []string{"type", "severity", "description"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected error for %s", field)
		}
	}
	if errs := ValidateSymptom(SymptomOther, 5, strings.Repeat("x", MaxDescriptionLength)); len(errs) != 0 {
		t.Fatalf("expected boundary values to pass, got %v", errs)
	}
}

func TestSymptomLabel(t *testing.T) {
	if got := SymptomSwelling.Label(); got != "Swelling in Legs/Ankles" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := SymptomType("other-thing").Label(); got != "other-thing" {
		t.Fatalf("unknown types should fall back to their value, got %q", got)
	}
}
