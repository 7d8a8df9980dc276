package reports

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kiran026/sports-portal-backend/middleware"
)

type Handler struct {
	service ReportService
}

func NewHandler(svc ReportService) *Handler {
	return &Handler{service: svc}
}

// GetEventsReport handles GET /reports/events?format=&date_range=&start_date=&end_date=
func (h *Handler) GetEventsReport(c *gin.Context) {
	accessContext, ok := accessContextFrom(c)
	if !ok {
		return
	}
	ip := middleware.GetIPFromContext(c)

	format := c.DefaultQuery("format", FormatCSV)
	dateRange := c.DefaultQuery("date_range", DateRangeWeekly)
	startDateStr := c.Query("start_date")
	endDateStr := c.Query("end_date")

	data, fname, mime, err := h.service.EventsReport(c.Request.Context(), accessContext, format, dateRange, startDateStr, endDateStr, ip)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fname))
	c.Data(http.StatusOK, mime, data)
}

// GetRegistrationsReport handles GET /reports/registrations?event_id=&format=
func (h *Handler) GetRegistrationsReport(c *gin.Context) {
	accessContext, ok := accessContextFrom(c)
	if !ok {
		return
	}
	ip := middleware.GetIPFromContext(c)

	eventID, err := strconv.ParseUint(c.Query("event_id"), 10, 32)
	if err != nil || eventID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event_id query param required"})
		return
	}
	format := c.DefaultQuery("format", FormatCSV)

	data, fname, mime, err := h.service.RegistrationsReport(c.Request.Context(), accessContext, uint(eventID), format, ip)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fname))
	c.Data(http.StatusOK, mime, data)
}

func accessContextFrom(c *gin.Context) (middleware.AccessContext, bool) {
	val, exists := c.Get("access_context")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return middleware.AccessContext{}, false
	}
	return val.(middleware.AccessContext), true
}

func respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate report"})
	}
}
