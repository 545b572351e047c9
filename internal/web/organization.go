package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/heartcheck/internal/charts"
	"github.com/Skufu/heartcheck/internal/content"
	"github.com/Skufu/heartcheck/internal/display"
	"github.com/Skufu/heartcheck/internal/history"
)

// patientRow is one line of the organization patient list.
type patientRow struct {
	historyRow
	PatientName string
}

type organizationView struct {
	User       content.User
	Statistics history.Statistics
	Counts     history.RiskCounts

	TrendChart    string
	RegionChart   string
	RiskMixChart  string
	HighRiskShare string

	Alerts     []patientRow
	Patients   []patientRow
	RiskFilter string
	Search     string
	RiskLevels []history.RiskLevel
}

func (h *handler) patientRows(records []history.Record) []patientRow {
	rows := make([]patientRow, 0, len(records))
	for _, hr := range h.historyRows(records) {
		name := "Patient " + hr.Record.UserID
		if u, ok := h.content.User(hr.Record.UserID); ok {
			name = u.Name
		}
		rows = append(rows, patientRow{historyRow: hr, PatientName: name})
	}
	return rows
}

// filteredPatients applies the ?risk and ?q filters to every record, newest
// first.
func (h *handler) filteredPatients(c *gin.Context) ([]history.Record, string, string) {
	risk := c.DefaultQuery("risk", history.FilterAll)
	q := c.Query("q")
	records := history.SortByDateDesc(h.store.Records())
	return history.Search(history.FilterByRisk(records, risk), q), risk, q
}

func (h *handler) organizationDashboard(c *gin.Context) {
	stats := h.store.Statistics()
	all := history.SortByDateDesc(h.store.Records())
	counts := history.CountByRisk(all)
	patients, risk, q := h.filteredPatients(c)

	v := organizationView{
		User:       h.currentUser(c, content.RoleOrganization),
		Statistics: stats,
		Counts:     counts,
		Alerts:     h.patientRows(history.FilterByRisk(all, string(history.RiskHigh))),
		Patients:   h.patientRows(patients),
		RiskFilter: risk,
		Search:     q,
		RiskLevels: history.RiskLevels,
	}

	v.HighRiskShare = "0.0%"
	if stats.TotalScreened > 0 {
		v.HighRiskShare = fmt.Sprintf("%.1f%%", float64(stats.HighRiskCount)*100/float64(stats.TotalScreened))
	}

	var err error
	if v.TrendChart, err = charts.WeeklyTrend(stats.WeeklyTrend); err == nil {
		if v.RegionChart, err = charts.RegionalDistribution(stats.RegionalDistribution); err == nil {
			v.RiskMixChart, err = charts.RiskMix(counts)
		}
	}
	if err != nil {
		h.log.Error("Failed to build organization charts", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to build dashboard charts.")
		return
	}

	h.render(c, http.StatusOK, "organization.html", h.page(c, "Organization Dashboard", "organization", v))
}

// organizationReport exports the filtered patient list as CSV.
func (h *handler) organizationReport(c *gin.Context) {
	records, _, _ := h.filteredPatients(c)
	rows := h.patientRows(records)

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="heartcheck-report-%s.csv"`, h.now().Format("2006-01-02")))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	w.Write([]string{"prediction_id", "patient_id", "patient_name", "risk_level", "date", "age", "systolic", "diastolic", "cholesterol", "heart_rate"})
	for _, r := range rows {
		line := []string{
			r.Record.ID,
			r.Record.UserID,
			r.PatientName,
			display.ForRiskLevel(r.Record.RiskLevel).Label,
			r.Record.Date.Format("2006-01-02"),
			"", "", "", "", "",
		}
		if hd := r.HealthData; hd != nil {
			line[5] = strconv.Itoa(hd.Age)
			line[6] = strconv.Itoa(hd.BloodPressure.Systolic)
			line[7] = strconv.Itoa(hd.BloodPressure.Diastolic)
			line[8] = strconv.Itoa(hd.Cholesterol)
			line[9] = strconv.Itoa(hd.HeartRate)
		}
		w.Write(line)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		h.log.Error("Failed to write report", zap.Error(err))
	}
}
