// Package content holds the static copy and mock seed data the pages render.
package content

import (
	_ "embed"
	"fmt"
	"net/url"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Skufu/heartcheck/internal/history"
)

//go:embed content.yaml
var embedded []byte

const dateLayout = "2006-01-02"

type Site struct {
	Name    string `yaml:"name"`
	Tagline string `yaml:"tagline"`
	Intro   string `yaml:"intro"`
}

// Section is a titled paragraph.
type Section struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type Audience struct {
	Title  string   `yaml:"title"`
	Role   string   `yaml:"role"`
	Points []string `yaml:"points"`
}

type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

type BlogPost struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Excerpt  string `yaml:"excerpt"`
	Date     string `yaml:"date"`
	ReadTime string `yaml:"read_time"`
	ImageURL string `yaml:"image_url"`
	Category string `yaml:"category"`
}

// DisplayDate renders the post date as "March 15, 2024".
func (p BlogPost) DisplayDate() string {
	t, err := time.Parse(dateLayout, p.Date)
	if err != nil {
		return p.Date
	}
	return t.Format("January 2, 2006")
}

type About struct {
	Lead    string    `yaml:"lead"`
	Pillars []Section `yaml:"pillars"`
	Story   []string  `yaml:"story"`
	Closing string    `yaml:"closing"`
}

type Hospital struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Distance string `yaml:"distance"`
	Address  string `yaml:"address"`
}

// MapURL is a Google Maps search link for the hospital.
func (h Hospital) MapURL() string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", h.Name+" "+h.Address)
	return "https://www.google.com/maps/search/?" + q.Encode()
}

type HealthCard struct {
	Name        string   `yaml:"name"`
	Age         int      `yaml:"age"`
	BloodType   string   `yaml:"blood_type"`
	Conditions  []string `yaml:"conditions"`
	Medications []string `yaml:"medications"`
}

// Role is the kind of account a mock user has.
type Role string

const (
	RolePatient      Role = "patient"
	RoleOrganization Role = "organization"
)

type User struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Role  Role   `yaml:"role"`
}

// Content is everything loaded from content.yaml.
type Content struct {
	Site       Site       `yaml:"site"`
	Features   []Section  `yaml:"features"`
	Audiences  []Audience `yaml:"audiences"`
	Tips       []Section  `yaml:"tips"`
	FunFact    string     `yaml:"fun_fact"`
	FAQ        []FAQ      `yaml:"faq"`
	Blog       []BlogPost `yaml:"blog"`
	About      About      `yaml:"about"`
	Hospitals  []Hospital `yaml:"hospitals"`
	HealthCard HealthCard `yaml:"health_card"`
	Users      []User     `yaml:"users"`
	Seed       seedDoc    `yaml:"seed"`
}

type seedDoc struct {
	HealthData []struct {
		ID          string `yaml:"id"`
		UserID      string `yaml:"user_id"`
		Age         int    `yaml:"age"`
		Sex         string `yaml:"sex"`
		Systolic    int    `yaml:"systolic"`
		Diastolic   int    `yaml:"diastolic"`
		Cholesterol int    `yaml:"cholesterol"`
		HeartRate   int    `yaml:"heart_rate"`
		BloodSugar  int    `yaml:"blood_sugar"`
		Date        string `yaml:"date"`
	} `yaml:"health_data"`
	Symptoms []struct {
		ID          string `yaml:"id"`
		UserID      string `yaml:"user_id"`
		Type        string `yaml:"type"`
		Severity    int    `yaml:"severity"`
		Description string `yaml:"description"`
		Date        string `yaml:"date"`
	} `yaml:"symptoms"`
	Predictions []struct {
		ID           string `yaml:"id"`
		UserID       string `yaml:"user_id"`
		RiskLevel    string `yaml:"risk_level"`
		Date         string `yaml:"date"`
		HealthDataID string `yaml:"health_data_id"`
	} `yaml:"predictions"`
	Statistics struct {
		TotalScreened int `yaml:"total_screened"`
		HighRiskCount int `yaml:"high_risk_count"`
		WeeklyTrend   []struct {
			Date  string `yaml:"date"`
			Count int    `yaml:"count"`
		} `yaml:"weekly_trend"`
		RegionalDistribution []struct {
			Region string `yaml:"region"`
			Count  int    `yaml:"count"`
		} `yaml:"regional_distribution"`
	} `yaml:"statistics"`
}

// Load parses the embedded content.
func Load() (*Content, error) {
	return Parse(embedded)
}

// Parse decodes a content document.
func Parse(data []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	return &c, nil
}

// User looks up a mock user by id.
func (c *Content) User(id string) (User, bool) {
	for _, u := range c.Users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// FirstUser returns the first mock user with role.
func (c *Content) FirstUser(role Role) (User, bool) {
	for _, u := range c.Users {
		if u.Role == role {
			return u, true
		}
	}
	return User{}, false
}

// HistorySeed converts the seed section into the history store's seed.
func (c *Content) HistorySeed() (history.Seed, error) {
	var seed history.Seed

	for _, hd := range c.Seed.HealthData {
		at, err := time.Parse(dateLayout, hd.Date)
		if err != nil {
			return history.Seed{}, fmt.Errorf("health data %s: %w", hd.ID, err)
		}
		seed.HealthData = append(seed.HealthData, history.HealthData{
			ID:            hd.ID,
			UserID:        hd.UserID,
			Age:           hd.Age,
			Sex:           hd.Sex,
			BloodPressure: history.BloodPressure{Systolic: hd.Systolic, Diastolic: hd.Diastolic},
			Cholesterol:   hd.Cholesterol,
			HeartRate:     hd.HeartRate,
			BloodSugar:    hd.BloodSugar,
			Date:          at,
		})
	}

	for _, s := range c.Seed.Symptoms {
		at, err := time.Parse(dateLayout, s.Date)
		if err != nil {
			return history.Seed{}, fmt.Errorf("symptom %s: %w", s.ID, err)
		}
		seed.Symptoms = append(seed.Symptoms, history.Symptom{
			ID:          s.ID,
			UserID:      s.UserID,
			Type:        history.SymptomType(s.Type),
			Severity:    s.Severity,
			Description: s.Description,
			Date:        at,
		})
	}

	for _, p := range c.Seed.Predictions {
		at, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			return history.Seed{}, fmt.Errorf("prediction %s: %w", p.ID, err)
		}
		level, ok := history.ParseRiskLevel(p.RiskLevel)
		if !ok {
			return history.Seed{}, fmt.Errorf("prediction %s: unknown risk level %q", p.ID, p.RiskLevel)
		}
		seed.Records = append(seed.Records, history.Record{
			ID:           p.ID,
			UserID:       p.UserID,
			RiskLevel:    level,
			Date:         at,
			HealthDataID: p.HealthDataID,
		})
	}

	st := c.Seed.Statistics
	seed.Statistics = history.Statistics{
		TotalScreened: st.TotalScreened,
		HighRiskCount: st.HighRiskCount,
	}
	for _, p := range st.WeeklyTrend {
		if _, err := time.Parse(dateLayout, p.Date); err != nil {
			return history.Seed{}, fmt.Errorf("weekly trend: %w", err)
		}
		seed.Statistics.WeeklyTrend = append(seed.Statistics.WeeklyTrend, history.TrendPoint{Date: p.Date, Count: p.Count})
	}
	for _, r := range st.RegionalDistribution {
		seed.Statistics.RegionalDistribution = append(seed.Statistics.RegionalDistribution, history.RegionCount{Region: r.Region, Count: r.Count})
	}

	return seed, nil
}
