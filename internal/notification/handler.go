package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// ===========================
// 📬 Mail Log - GET /notifications/mail-log?limit=&recipient=
func (h *Handler) GetMailLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	recipient := c.Query("recipient")

	var (
		logs []MailLog
		err  error
	)
	if recipient != "" {
		logs, err = h.Service.Repo.ListMailLogsByRecipient(c.Request.Context(), recipient, limit)
	} else {
		logs, err = h.Service.Repo.ListRecentMailLogs(c.Request.Context(), limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch mail log"})
		return
	}

	c.JSON(http.StatusOK, logs)
}
