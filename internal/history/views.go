package history

import (
	"sort"
	"strings"
)

// FilterAll disables risk filtering in FilterByRisk.
const FilterAll = "all"

// SortByDateDesc returns a copy of records ordered newest first. Records with
// equal dates keep their relative order.
func SortByDateDesc(records []Record) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// FilterByRisk returns the records tagged with level. An empty level or
// FilterAll returns a copy of all records; an unknown level returns none.
func FilterByRisk(records []Record, level string) []Record {
	if level == "" || strings.EqualFold(level, FilterAll) {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}
	want, ok := ParseRiskLevel(level)
	if !ok {
		return []Record{}
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.RiskLevel == want {
			out = append(out, r)
		}
	}
	return out
}

// Search keeps records whose id or user id contains term.
func Search(records []Record, term string) []Record {
	term = strings.TrimSpace(term)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if term == "" || strings.Contains(r.ID, term) || strings.Contains(r.UserID, term) {
			out = append(out, r)
		}
	}
	return out
}

// Latest returns the most recent record.
func Latest(records []Record) (Record, bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	latest := records[0]
	for _, r := range records[1:] {
		if r.Date.After(latest.Date) {
			latest = r
		}
	}
	return latest, true
}

// RiskCounts tallies records per level.
type RiskCounts struct {
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
}

// Total is the number of counted records.
func (c RiskCounts) Total() int { return c.Low + c.Moderate + c.High }

// CountByRisk tallies records per risk level.
func CountByRisk(records []Record) RiskCounts {
	var c RiskCounts
	for _, r := range records {
		switch r.RiskLevel {
		case RiskLow:
			c.Low++
		case RiskModerate:
			c.Moderate++
		case RiskHigh:
			c.High++
		}
	}
	return c
}
