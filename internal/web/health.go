package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readyz reports each optional dependency. Any unhealthy one degrades the
// whole response to 503.
func (h *handler) readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	healthy := true
	check := func(hc HealthChecker) string {
		if hc == nil {
			return "disabled"
		}
		if err := hc.Ping(ctx); err != nil {
			healthy = false
			return fmt.Sprintf("unhealthy: %v", err)
		}
		return "ok"
	}

	body := gin.H{
		"db":         check(h.db),
		"prediction": check(h.prediction),
	}
	if !healthy {
		body["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "ok"
	c.JSON(http.StatusOK, body)
}
