package registration

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kiran026/sports-portal-backend/middleware"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func accessContextFrom(c *gin.Context) (middleware.AccessContext, bool) {
	raw, exists := c.Get("access_context")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return middleware.AccessContext{}, false
	}
	accessContext, ok := raw.(middleware.AccessContext)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access context"})
		return middleware.AccessContext{}, false
	}
	return accessContext, true
}

// ===========================
// 📝 Register - POST /registrations
func (h *Handler) Register(c *gin.Context) {
	accessContext, ok := accessContextFrom(c)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)

	reg, err := h.Service.Submit(c.Request.Context(), &req, accessContext.UserID, ip)
	if err != nil {
		respondAdmissionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SubmitResponse{Success: true, RegistrationID: reg.ID})
}

// ===========================
// ✅ Disposition - POST /registrations/disposition
func (h *Handler) Disposition(c *gin.Context) {
	accessContext, ok := accessContextFrom(c)
	if !ok {
		return
	}

	var req DispositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)

	if _, err := h.Service.Disposition(c.Request.Context(), &req, accessContext, ip); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ===========================
// 📄 List by Event - GET /events/:id/registrations?limit=&offset=&search=
func (h *Handler) ListByEvent(c *gin.Context) {
	accessContext, ok := accessContextFrom(c)
	if !ok {
		return
	}
	if !accessContext.CanRead() {
		c.JSON(http.StatusForbidden, gin.H{"error": "read access denied"})
		return
	}

	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil || eventID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	search := c.Query("search")

	regs, total, err := h.Service.ListByEvent(uint(eventID), limit, offset, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list registrations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"registrations": regs, "total": total})
}

// ===========================
// 🔍 Get Registration - GET /registrations/:id
func (h *Handler) GetByID(c *gin.Context) {
	accessContext, ok := accessContextFrom(c)
	if !ok {
		return
	}
	if !accessContext.CanRead() {
		c.JSON(http.StatusForbidden, gin.H{"error": "read access denied"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration ID"})
		return
	}

	reg, err := h.Service.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "registration not found"})
		return
	}

	c.JSON(http.StatusOK, reg)
}

// ===========================
// 🗑 Delete Registration - DELETE /registrations/:id
func (h *Handler) Delete(c *gin.Context) {
	accessContext, ok := accessContextFrom(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration ID"})
		return
	}

	ip := middleware.GetIPFromContext(c)

	if err := h.Service.Delete(c.Request.Context(), uint(id), accessContext, ip); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func respondAdmissionError(c *gin.Context, err error) {
	var missing *MissingFieldsError
	switch {
	case errors.Is(err, ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrEventInactive),
		errors.Is(err, ErrTooEarly),
		errors.Is(err, ErrTooLate):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrCapacityReached):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrPaymentProofRequired),
		errors.Is(err, ErrProfileIncomplete):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &missing):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "missingFields": missing.Labels})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
	}
}
