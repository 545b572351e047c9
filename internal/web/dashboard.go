package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/chat"
	"github.com/Skufu/heartcheck/internal/content"
	"github.com/Skufu/heartcheck/internal/display"
	"github.com/Skufu/heartcheck/internal/history"
	"github.com/Skufu/heartcheck/internal/prediction"
	"github.com/Skufu/heartcheck/internal/upstream"
)

const (
	msgCorrectErrors    = "Please correct the errors in the form"
	msgAssessmentFailed = "Failed to complete risk assessment. Please try again."
	msgAssessmentDone   = "Risk assessment completed successfully"
	msgInFlight         = "A risk assessment is already running for this form."
	msgLoginRequired    = "Please log in to continue."
	msgSymptomLogged    = "Symptom logged successfully!"
)

type formOptions struct {
	Sex         []assessment.Option
	ChestPain   []assessment.Option
	YesNo       []assessment.Option
	RestingECG  []assessment.Option
	Slope       []assessment.Option
	Thalassemia []assessment.Option
}

var assessmentOptions = formOptions{
	Sex:         assessment.SexOptions,
	ChestPain:   assessment.ChestPainOptions,
	YesNo:       assessment.YesNoOptions,
	RestingECG:  assessment.RestingECGOptions,
	Slope:       assessment.SlopeOptions,
	Thalassemia: assessment.ThalassemiaOptions,
}

// historyRow is one prediction with the measurements it was computed from.
type historyRow struct {
	Record     history.Record
	HealthData *history.HealthData
	Badge      display.Badge
}

type symptomForm struct {
	Type        history.SymptomType
	Severity    int
	Description string
}

type dashboardView struct {
	User content.User

	Form     assessment.ClinicalInput
	Errors   assessment.ValidationResult
	Options  formOptions
	InFlight bool
	Result   *prediction.Result
	Variant  display.Variant

	Latest     *historyRow
	History    []historyRow
	RiskFilter string
	RiskLevels []history.RiskLevel

	Symptoms       []history.Symptom
	SymptomForm    symptomForm
	SymptomErrors  map[string]string
	SymptomOptions []history.SymptomOption
	MinSeverity    int
	MaxSeverity    int

	Tips       []content.Section
	FunFact    string
	HealthCard content.HealthCard
	Hospitals  []content.Hospital

	Chat        []chat.Message
	ChatPending bool
}

func (h *handler) historyRows(records []history.Record) []historyRow {
	rows := make([]historyRow, 0, len(records))
	for _, r := range records {
		row := historyRow{Record: r, Badge: display.ForRiskLevel(r.RiskLevel)}
		if hd, ok := h.store.HealthData(r.HealthDataID); ok {
			row.HealthData = &hd
		}
		rows = append(rows, row)
	}
	return rows
}

// dashboardData builds the patient dashboard around form. A nil errs means
// the form has no pending validation messages.
func (h *handler) dashboardData(c *gin.Context, form assessment.ClinicalInput, errs assessment.ValidationResult) dashboardView {
	user := h.currentUser(c, content.RolePatient)
	fid := formID(c)
	sid := sessionID(c)

	v := dashboardView{
		User:     user,
		Form:     form,
		Errors:   errs,
		Options:  assessmentOptions,
		InFlight: h.submitter.InFlight(fid),

		RiskFilter: c.DefaultQuery("risk", history.FilterAll),
		RiskLevels: history.RiskLevels,

		Symptoms:       h.store.Symptoms(user.ID),
		SymptomForm:    symptomForm{Type: history.SymptomChestPain, Severity: 3},
		SymptomOptions: history.SymptomOptions,
		MinSeverity:    history.MinSeverity,
		MaxSeverity:    history.MaxSeverity,

		Tips:       h.content.Tips,
		FunFact:    h.content.FunFact,
		HealthCard: h.content.HealthCard,
		Hospitals:  h.content.Hospitals,

		Chat:        h.chat.Transcript(sid),
		ChatPending: h.chat.Pending(sid),
	}
	if v.Errors == nil {
		v.Errors = assessment.ValidationResult{}
	}

	if res, ok := h.submitter.Last(fid); ok {
		v.Result = &res
		v.Variant = display.ForResult(res)
	}

	records := h.store.RecordsFor(user.ID)
	if latest, ok := history.Latest(records); ok {
		rows := h.historyRows([]history.Record{latest})
		v.Latest = &rows[0]
	}
	v.History = h.historyRows(history.SortByDateDesc(history.FilterByRisk(records, v.RiskFilter)))
	return v
}

func (h *handler) dashboard(c *gin.Context) {
	form := h.drafts.Get(formID(c))
	h.render(c, http.StatusOK, "dashboard.html", h.page(c, "Dashboard", "dashboard", h.dashboardData(c, form, nil)))
}

// predict runs one assessment. On success it redirects back to the dashboard
// so a reload does not resubmit; every failure re-renders the form with the
// submitted values.
func (h *handler) predict(c *gin.Context) {
	fid := formID(c)
	user := h.currentUser(c, content.RolePatient)

	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "Invalid form submission.")
		return
	}
	in, parseErrs := assessment.ParseForm(c.Request.PostForm)
	h.drafts.Put(fid, in)

	errs := parseErrs.Merge(assessment.Validate(in))
	if !errs.Valid() {
		h.renderDashboardError(c, http.StatusUnprocessableEntity, in, errs, msgCorrectErrors)
		return
	}

	outcome, err := h.submitter.Submit(c.Request.Context(), fid, user.ID, in)
	if err != nil {
		var vErr *assessment.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.renderDashboardError(c, http.StatusUnprocessableEntity, in, vErr.Fields, msgCorrectErrors)
		case errors.Is(err, prediction.ErrSubmissionInFlight):
			h.renderDashboardError(c, http.StatusConflict, in, nil, msgInFlight)
		case errors.Is(err, prediction.ErrSuperseded):
			c.Redirect(http.StatusSeeOther, "/dashboard")
		case upstream.Classify(err) == upstream.KindUnauthorized:
			h.renderDashboardError(c, http.StatusUnauthorized, in, nil, assessmentFailure(err))
		default:
			h.renderDashboardError(c, http.StatusBadGateway, in, nil, assessmentFailure(err))
		}
		return
	}

	h.drafts.Discard(fid)
	addFlash(c, flashSuccess, msgAssessmentDone)
	if outcome.Result.RiskScore == 1 {
		addFlash(c, flashWarning, display.HighRisk.Message)
	}
	h.saveSession(c)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// assessmentFailure is the notification text for a failed submission.
func assessmentFailure(err error) string {
	if upstream.Classify(err) == upstream.KindUnauthorized {
		return msgLoginRequired
	}
	if d := upstream.Detail(err); d != "" {
		return d
	}
	return msgAssessmentFailed
}

func (h *handler) renderDashboardError(c *gin.Context, status int, in assessment.ClinicalInput, errs assessment.ValidationResult, message string) {
	p := h.page(c, "Dashboard", "dashboard", h.dashboardData(c, in, errs))
	p.Notifications = append(p.Notifications, Notification{Kind: flashError, Message: message})
	h.render(c, status, "dashboard.html", p)
}

// resetAssessment clears the form and its result. A request still in flight
// is superseded.
func (h *handler) resetAssessment(c *gin.Context) {
	fid := formID(c)
	h.submitter.Reset(fid)
	h.drafts.Discard(fid)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *handler) logSymptom(c *gin.Context) {
	user := h.currentUser(c, content.RolePatient)

	form := symptomForm{
		Type:        history.SymptomType(c.PostForm("type")),
		Description: strings.TrimSpace(c.PostForm("description")),
	}
	errs := map[string]string{}
	severity, err := strconv.Atoi(strings.TrimSpace(c.PostForm("severity")))
	if err != nil {
		errs["severity"] = "Severity must be between 1 and 5"
	} else {
		form.Severity = severity
		errs = history.ValidateSymptom(form.Type, severity, form.Description)
	}

	if len(errs) > 0 {
		v := h.dashboardData(c, h.drafts.Get(formID(c)), nil)
		v.SymptomForm = form
		v.SymptomErrors = errs
		p := h.page(c, "Dashboard", "dashboard", v)
		p.Notifications = append(p.Notifications, Notification{Kind: flashError, Message: msgCorrectErrors})
		h.render(c, http.StatusUnprocessableEntity, "dashboard.html", p)
		return
	}

	sym := history.Symptom{
		ID:          h.newID(),
		UserID:      user.ID,
		Type:        form.Type,
		Severity:    form.Severity,
		Description: form.Description,
		Date:        h.now(),
	}
	h.store.AppendSymptom(sym)
	h.log.Info("Symptom logged",
		zap.String("user_id", user.ID),
		zap.String("type", string(sym.Type)),
		zap.Int("severity", sym.Severity),
	)

	addFlash(c, flashSuccess, msgSymptomLogged)
	h.saveSession(c)
	c.Redirect(http.StatusSeeOther, "/dashboard#symptoms")
}

func (h *handler) sendChat(c *gin.Context) {
	_, err := h.chat.Send(c.Request.Context(), sessionID(c), c.PostForm("message"))
	switch {
	case err == nil, errors.Is(err, chat.ErrEmptyMessage):
	case errors.Is(err, chat.ErrReplyPending):
		addFlash(c, flashError, "Please wait for the assistant to reply.")
	default:
		addFlash(c, flashError, chat.UserMessage(err))
	}
	h.saveSession(c)
	c.Redirect(http.StatusSeeOther, "/dashboard#assistant")
}

func (h *handler) saveSession(c *gin.Context) {
	if err := sessions.Default(c).Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
	}
}
