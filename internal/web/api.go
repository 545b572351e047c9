package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/chat"
	"github.com/Skufu/heartcheck/internal/content"
	"github.com/Skufu/heartcheck/internal/display"
	"github.com/Skufu/heartcheck/internal/history"
	"github.com/Skufu/heartcheck/internal/prediction"
	"github.com/Skufu/heartcheck/internal/upstream"
)

// apiAssess is the JSON counterpart of the dashboard form. The body is a full
// ClinicalInput; omitted fields take their default values.
func (h *handler) apiAssess(c *gin.Context) {
	in := assessment.DefaultInput()
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	user := h.currentUser(c, content.RolePatient)
	outcome, err := h.submitter.Submit(c.Request.Context(), formID(c), user.ID, in)
	if err != nil {
		var vErr *assessment.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "validation_failed",
				"fields": vErr.Fields,
			})
		case errors.Is(err, prediction.ErrSubmissionInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "submission_in_flight"})
		case errors.Is(err, prediction.ErrSuperseded):
			c.JSON(http.StatusConflict, gin.H{"error": "superseded"})
		case upstream.Classify(err) == upstream.KindUnauthorized:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": assessmentFailure(err)})
		default:
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   "prediction_failed",
				"kind":    upstream.Classify(err).String(),
				"message": assessmentFailure(err),
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":     outcome.Result,
		"variant":    display.ForResult(outcome.Result),
		"record":     outcome.Record,
		"healthData": outcome.HealthData,
	})
}

// apiHistory lists the signed in patient's predictions, newest first,
// filtered by ?risk and ?q.
func (h *handler) apiHistory(c *gin.Context) {
	user := h.currentUser(c, content.RolePatient)
	records := h.store.RecordsFor(user.ID)
	filtered := history.FilterByRisk(records, c.DefaultQuery("risk", history.FilterAll))
	filtered = history.SortByDateDesc(history.Search(filtered, c.Query("q")))

	items := make([]gin.H, 0, len(filtered))
	for _, row := range h.historyRows(filtered) {
		item := gin.H{"record": row.Record, "badge": row.Badge}
		if row.HealthData != nil {
			item["healthData"] = row.HealthData
		}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, gin.H{
		"predictions": items,
		"counts":      history.CountByRisk(records),
	})
}

func (h *handler) apiStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Statistics())
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *handler) apiChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	id := sessionID(c)
	reply, err := h.chat.Send(c.Request.Context(), id, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "empty_message"})
		case errors.Is(err, chat.ErrReplyPending):
			c.JSON(http.StatusConflict, gin.H{"error": "reply_pending"})
		case chat.IsUnauthorized(err):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": chat.UserMessage(err)})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "assistant_failed", "message": chat.UserMessage(err)})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply":      reply,
		"transcript": h.chat.Transcript(id),
	})
}
