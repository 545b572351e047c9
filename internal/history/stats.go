package history

import (
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// TrendPoint counts screenings in the week starting at Date (YYYY-MM-DD).
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// RegionCount counts screenings per region.
type RegionCount struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// Statistics is the organization-wide screening summary.
type Statistics struct {
	TotalScreened        int           `json:"totalScreened"`
	HighRiskCount        int           `json:"highRiskCount"`
	WeeklyTrend          []TrendPoint  `json:"weeklyTrend"`
	RegionalDistribution []RegionCount `json:"regionalDistribution"`
}

// Aggregate folds records added since startup into the seeded baseline. Each
// added record counts towards the total, towards the high-risk count when
// tagged high, and towards the trend week it falls into; a record outside
// every known week opens a new week starting on its Monday. The baseline is
// not modified.
func Aggregate(baseline Statistics, added []Record) Statistics {
	out := Statistics{
		TotalScreened:        baseline.TotalScreened + len(added),
		HighRiskCount:        baseline.HighRiskCount,
		WeeklyTrend:          append([]TrendPoint(nil), baseline.WeeklyTrend...),
		RegionalDistribution: append([]RegionCount(nil), baseline.RegionalDistribution...),
	}

	for _, r := range added {
		if r.RiskLevel == RiskHigh {
			out.HighRiskCount++
		}
		out.WeeklyTrend = addToTrend(out.WeeklyTrend, r.Date)
	}

	sort.SliceStable(out.WeeklyTrend, func(i, j int) bool {
		return out.WeeklyTrend[i].Date < out.WeeklyTrend[j].Date
	})
	return out
}

func addToTrend(trend []TrendPoint, at time.Time) []TrendPoint {
	day := at.UTC().Truncate(24 * time.Hour)
	for i, p := range trend {
		start, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			continue
		}
		if !day.Before(start) && day.Before(start.AddDate(0, 0, 7)) {
			trend[i].Count++
			return trend
		}
	}
	return append(trend, TrendPoint{Date: weekStart(day).Format(dateLayout), Count: 1})
}

// weekStart returns the Monday of the ISO week containing day.
func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
