package content

import (
	"strings"
	"testing"

	"github.com/Skufu/heartcheck/internal/history"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Tips) != 6 {
		t.Errorf("expected 6 tips, got %d", len(c.Tips))
	}
	if len(c.FAQ) != 8 {
		t.Errorf("expected 8 FAQ entries, got %d", len(c.FAQ))
	}
	if len(c.Blog) != 4 || len(c.Hospitals) != 3 {
		t.Errorf("unexpected blog/hospital counts %d/%d", len(c.Blog), len(c.Hospitals))
	}
	if c.HealthCard.Name != "John Doe" || c.HealthCard.BloodType != "O+" {
		t.Errorf("unexpected health card %+v", c.HealthCard)
	}
	if !strings.HasPrefix(c.FunFact, "Laughing") {
		t.Errorf("unexpected fun fact %q", c.FunFact)
	}
}

func TestUsers(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	org, ok := c.FirstUser(RoleOrganization)
	if !ok || org.Name != "Heart Care Hospital" {
		t.Fatalf("unexpected organization %+v", org)
	}
	if u, ok := c.User("2"); !ok || u.Role != RolePatient {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, ok := c.User("99"); ok {
		t.Fatal("unknown user should not be found")
	}
}

func TestHistorySeed(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	seed, err := c.HistorySeed()
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(seed.Records) != 3 || len(seed.HealthData) != 3 || len(seed.Symptoms) != 3 {
		t.Fatalf("unexpected seed sizes %d/%d/%d", len(seed.Records), len(seed.HealthData), len(seed.Symptoms))
	}
	if seed.Records[1].RiskLevel != history.RiskHigh || seed.Records[1].Date.Format("2006-01-02") != "2023-10-20" {
		t.Fatalf("unexpected record %+v", seed.Records[1])
	}
	if seed.HealthData[0].BloodPressure.Diastolic != 85 {
		t.Fatalf("unexpected health data %+v", seed.HealthData[0])
	}
	if seed.Statistics.TotalScreened != 250 || seed.Statistics.HighRiskCount != 45 {
		t.Fatalf("unexpected statistics %+v", seed.Statistics)
	}
	if len(seed.Statistics.WeeklyTrend) != 7 || len(seed.Statistics.RegionalDistribution) != 4 {
		t.Fatalf("unexpected statistics series %+v", seed.Statistics)
	}
}

func TestHistorySeedRejectsUnknownRisk(t *testing.T) {
	c, err := Parse([]byte(`
seed:
  predictions:
    - id: "9"
      user_id: "1"
      risk_level: extreme
      date: "2023-01-01"
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := c.HistorySeed(); err == nil {
		t.Fatal("expected an error for an unknown risk level")
	}
}

func TestHospitalMapURL(t *testing.T) {
	h := Hospital{Name: "City General Hospital", Address: "123 Healthcare Ave"}
	got := h.MapURL()
	if !strings.HasPrefix(got, "https://www.google.com/maps/search/?") {
		t.Fatalf("unexpected url %s", got)
	}
	if !strings.Contains(got, "query=City+General+Hospital+123+Healthcare+Ave") {
		t.Fatalf("query not encoded as expected: %s", got)
	}
}

func TestBlogDisplayDate(t *testing.T) {
	if got := (BlogPost{Date: "2024-03-15"}).DisplayDate(); got != "March 15, 2024" {
		t.Fatalf("unexpected date %q", got)
	}
}
