package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/content"
	"github.com/Skufu/heartcheck/internal/display"
	"github.com/Skufu/heartcheck/internal/history"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

func staticFiles() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

var templateFuncs = template.FuncMap{
	"confidence": display.Confidence,
	"badge": func(level history.RiskLevel) display.Badge {
		return display.ForRiskLevel(level)
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("Jan 2, 2006")
	},
	"datetime": func(t time.Time) string {
		return t.Format("Jan 2, 2006 15:04")
	},
	"bound": func(field string) assessment.Bound {
		b, _ := assessment.BoundFor(field)
		return b
	},
	"lines": func(s string) []string {
		return strings.Split(s, "\n")
	},
	"symptomLabel": func(t history.SymptomType) string {
		return t.Label()
	},
	"itoa": func(v int) string { return fmt.Sprint(v) },
	"dict": func(kv ...any) (map[string]any, error) {
		if len(kv)%2 != 0 {
			return nil, fmt.Errorf("dict: odd number of arguments")
		}
		m := make(map[string]any, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			k, ok := kv[i].(string)
			if !ok {
				return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
			}
			m[k] = kv[i+1]
		}
		return m, nil
	},
}

func loadTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}

// Notification is a dismissible message shown at the top of a page.
type Notification struct {
	Kind    string
	Message string
}

const (
	flashError   = "error"
	flashWarning = "warning"
	flashSuccess = "success"
)

func addFlash(c *gin.Context, kind, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, kind)
}

func takeFlashes(c *gin.Context) []Notification {
	session := sessions.Default(c)
	var out []Notification
	for _, kind := range []string{flashError, flashWarning, flashSuccess} {
		for _, f := range session.Flashes(kind) {
			if msg, ok := f.(string); ok {
				out = append(out, Notification{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		_ = session.Save()
	}
	return out
}

// page is the data every template receives.
type page struct {
	Title         string
	Active        string
	Site          content.Site
	User          *content.User
	CSRFToken     string
	Dark          bool
	Notifications []Notification
	Data          any
}

func (h *handler) page(c *gin.Context, title, active string, data any) page {
	p := page{
		Title:     title,
		Active:    active,
		Site:      h.content.Site,
		CSRFToken: c.GetString(csrfTokenContextKey),
		Data:      data,
	}
	session := sessions.Default(c)
	if theme, _ := session.Get(themeKey).(string); theme == "dark" {
		p.Dark = true
	}
	if id, _ := session.Get(userIDKey).(string); id != "" {
		if u, ok := h.content.User(id); ok {
			p.User = &u
		}
	}
	p.Notifications = takeFlashes(c)
	return p
}

func (h *handler) render(c *gin.Context, status int, name string, p page) {
	c.HTML(status, name, p)
}
