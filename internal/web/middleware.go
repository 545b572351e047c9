package web

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

const (
	sessionName = "heartcheck"

	sessionIDKey = "sid"
	userIDKey    = "user_id"
	themeKey     = "theme"

	csrfTokenSessionKey = "csrf_token"
	csrfTokenFormKey    = "_csrf"
	csrfTokenContextKey = "csrf_token"
	csrfTokenHeaderKey  = "X-CSRF-Token"

	sessionIDContextKey = "session_id"
	formIDHeaderKey     = "X-Form-ID"
)

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// RequestLogger logs every request with zap.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}

		switch {
		case status >= 500:
			log.Error("Server error", fields...)
		case status >= 400:
			log.Warn("Client error", fields...)
		default:
			log.Debug("Request processed", fields...)
		}
	}
}

// sessionIdentity gives every browser a stable id. The id names the
// browser's assessment form and its assistant conversation.
func sessionIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		sid, _ := session.Get(sessionIDKey).(string)
		if sid == "" {
			sid = uuid.NewString()
			session.Set(sessionIDKey, sid)
			if err := session.Save(); err != nil {
				_ = c.AbortWithError(http.StatusInternalServerError, errors.New("failed to save session"))
				return
			}
		}
		c.Set(sessionIDContextKey, sid)
		c.Next()
	}
}

func generateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// csrfProtection checks the session token on every unsafe request. The token
// is read from the _csrf form field or the X-CSRF-Token header.
func csrfProtection() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, _ := session.Get(csrfTokenSessionKey).(string)
		if token == "" {
			newToken, err := generateSecureToken(32)
			if err != nil {
				_ = c.AbortWithError(http.StatusInternalServerError, errors.New("failed to generate CSRF token"))
				return
			}
			token = newToken
			session.Set(csrfTokenSessionKey, token)
			if err := session.Save(); err != nil {
				_ = c.AbortWithError(http.StatusInternalServerError, errors.New("failed to save session"))
				return
			}
		}
		c.Set(csrfTokenContextKey, token)

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			submitted := c.PostForm(csrfTokenFormKey)
			if submitted == "" {
				submitted = c.GetHeader(csrfTokenHeaderKey)
			}
			if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
				c.String(http.StatusForbidden, "Invalid or missing CSRF token.")
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// securityHeaders sets the standard hardening headers and a content security
// policy that only allows our own scripts plus the charting library's CDN.
func securityHeaders() gin.HandlerFunc {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "same-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' https://cdn.jsdelivr.net; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:",
	})
	return func(c *gin.Context) {
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			c.Abort()
			return
		}
		c.Next()
	}
}

func rateLimitKey(c *gin.Context) string {
	return c.ClientIP()
}

func rateLimitExceeded(c *gin.Context, info ratelimit.Info) {
	c.String(http.StatusTooManyRequests, "Too many requests. Try again later.")
}

// rateLimiter allows perMinute requests per client address. Zero disables it.
func rateLimiter(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: uint(perMinute),
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: rateLimitExceeded,
		KeyFunc:      rateLimitKey,
	})
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionIDContextKey)
}

// formID names the form instance a request acts on. API clients without a
// cookie jar may pass it in X-Form-ID.
func formID(c *gin.Context) string {
	if id := c.GetHeader(formIDHeaderKey); id != "" {
		return id
	}
	return sessionID(c)
}
