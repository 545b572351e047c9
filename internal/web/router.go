// Package web serves the HeartCheck pages and JSON API.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/chat"
	"github.com/Skufu/heartcheck/internal/content"
	"github.com/Skufu/heartcheck/internal/history"
	"github.com/Skufu/heartcheck/internal/prediction"
)

const maxBodyBytes = 1 << 20

// HealthChecker is anything /readyz can ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the router serves.
type Deps struct {
	Log       *zap.Logger
	Content   *content.Content
	Store     *history.Store
	Submitter *prediction.Submitter
	Drafts    *assessment.Drafts
	Chat      *chat.Sessions

	// DB and Prediction are optional readiness checks.
	DB         HealthChecker
	Prediction HealthChecker

	SessionSecret      string
	CookieSecure       bool
	CORSOrigins        []string
	RateLimitPerMinute int

	Now   func() time.Time
	NewID func() string
}

type handler struct {
	log        *zap.Logger
	content    *content.Content
	store      *history.Store
	submitter  *prediction.Submitter
	drafts     *assessment.Drafts
	chat       *chat.Sessions
	db         HealthChecker
	prediction HealthChecker
	now        func() time.Time
	newID      func() string
}

// Setup builds the router.
func Setup(d Deps) *gin.Engine {
	h := &handler{
		log:        d.Log,
		content:    d.Content,
		store:      d.Store,
		submitter:  d.Submitter,
		drafts:     d.Drafts,
		chat:       d.Chat,
		db:         d.DB,
		prediction: d.Prediction,
		now:        d.Now,
		newID:      d.NewID,
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.newID == nil {
		h.newID = uuid.NewString
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		RequestLogger(h.log),
		limitBodySize(maxBodyBytes),
		securityHeaders(),
	)
	router.SetHTMLTemplate(loadTemplates())

	store := cookie.NewStore([]byte(d.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   d.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7,
	})

	router.StaticFS("/static", staticFiles())

	router.GET("/healthz", h.healthz)
	router.GET("/readyz", h.readyz)

	limiter := rateLimiter(d.RateLimitPerMinute)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	api := router.Group("/api")
	api.Use(
		cors.New(cors.Config{
			AllowOrigins: origins,
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization", formIDHeaderKey},
			MaxAge:       12 * time.Hour,
		}),
		sessions.Sessions(sessionName, store),
		sessionIdentity(),
	)
	{
		api.POST("/assessments", limiter, h.apiAssess)
		api.GET("/history", h.apiHistory)
		api.GET("/statistics", h.apiStatistics)
		api.POST("/chat", limiter, h.apiChat)
	}

	pages := router.Group("/")
	pages.Use(
		sessions.Sessions(sessionName, store),
		sessionIdentity(),
		csrfProtection(),
	)
	{
		pages.GET("/", h.home)
		pages.GET("/about", h.about)
		pages.GET("/faq", h.faq)
		pages.GET("/blog", h.blog)
		pages.GET("/login", h.showLogin)
		pages.POST("/login", limiter, h.login)
		pages.GET("/register", h.showRegister)
		pages.POST("/register", limiter, h.login)
		pages.POST("/logout", h.logout)
		pages.POST("/preferences/theme", h.toggleTheme)

		pages.GET("/dashboard", h.dashboard)
		pages.POST("/dashboard/predict", limiter, h.predict)
		pages.POST("/dashboard/reset", h.resetAssessment)
		pages.POST("/dashboard/symptoms", h.logSymptom)
		pages.POST("/dashboard/chat", limiter, h.sendChat)

		pages.GET("/organization-dashboard", h.organizationDashboard)
		pages.GET("/organization-dashboard/report.csv", h.organizationReport)
	}

	return router
}
