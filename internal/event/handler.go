package event

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kiran026/sports-portal-backend/internal/formschema"
	"github.com/kiran026/sports-portal-backend/middleware"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// ===========================
// 📌 Extract Access Context
func getAccessContextFromContext(c *gin.Context) (middleware.AccessContext, bool) {
	accessContextRaw, exists := c.Get("access_context")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return middleware.AccessContext{}, false
	}

	accessContext, ok := accessContextRaw.(middleware.AccessContext)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access context"})
		return middleware.AccessContext{}, false
	}

	return accessContext, true
}

func eventIDFromParam(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event ID"})
		return 0, false
	}
	return uint(id), true
}

// ===========================
// 🎯 Create Event - POST /events
func (h *Handler) CreateEvent(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	if !accessContext.CanWrite() {
		c.JSON(http.StatusForbidden, gin.H{"error": "write access denied"})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)

	event, err := h.Service.CreateEvent(&req, accessContext, ip)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create event: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// ===========================
// 🔍 Get Event - GET /events/:id
func (h *Handler) GetEventByID(c *gin.Context) {
	if _, ok := getAccessContextFromContext(c); !ok {
		return
	}

	id, ok := eventIDFromParam(c)
	if !ok {
		return
	}

	event, err := h.Service.GetEventByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// ===========================
// 🔗 Public Event Page - GET /public/events/:slug
//
// No auth: this is what the registration form is rendered from.
func (h *Handler) GetEventBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event slug"})
		return
	}

	event, err := h.Service.GetEventBySlug(slug)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// ===========================
// 📆 Upcoming Events - GET /events/upcoming
func (h *Handler) GetUpcomingEvents(c *gin.Context) {
	events, err := h.Service.GetUpcomingEvents()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// ===========================
// 📄 List Events - GET /events?limit=&offset=&search=
func (h *Handler) ListEvents(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	if !accessContext.CanRead() {
		c.JSON(http.StatusForbidden, gin.H{"error": "read access denied"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	search := c.Query("search")

	events, err := h.Service.ListEvents(accessContext, limit, offset, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// ===========================
// 📊 Event Stats - GET /events/stats
func (h *Handler) GetEventStats(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	if !accessContext.CanRead() {
		c.JSON(http.StatusForbidden, gin.H{"error": "read access denied"})
		return
	}

	stats, err := h.Service.GetEventStats(accessContext)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ===========================
// 🛠 Update Event - PUT /events/:id
func (h *Handler) UpdateEvent(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	if !accessContext.CanWrite() {
		c.JSON(http.StatusForbidden, gin.H{"error": "write access denied"})
		return
	}

	id, ok := eventIDFromParam(c)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)

	if err := h.Service.UpdateEvent(id, &req, accessContext, ip); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event updated successfully"})
}

// ===========================
// ❌ Delete Event - DELETE /events/:id
func (h *Handler) DeleteEvent(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	if !accessContext.CanWrite() {
		c.JSON(http.StatusForbidden, gin.H{"error": "write access denied"})
		return
	}

	id, ok := eventIDFromParam(c)
	if !ok {
		return
	}

	ip := middleware.GetIPFromContext(c)

	if err := h.Service.DeleteEvent(id, accessContext, ip); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted successfully"})
}

// ===========================
// 🧾 Get Schema - GET /events/:id/schema
func (h *Handler) GetSchema(c *gin.Context) {
	if _, ok := getAccessContextFromContext(c); !ok {
		return
	}

	id, ok := eventIDFromParam(c)
	if !ok {
		return
	}

	schema, err := h.Service.GetSchema(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": schema})
}

// ===========================
// ➕ Add Schema Field - POST /events/:id/schema/fields
func (h *Handler) AddSchemaField(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	id, ok := eventIDFromParam(c)
	if !ok {
		return
	}

	var req AddFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	schema, err := h.Service.AddSchemaField(id, req.Type, accessContext, middleware.GetIPFromContext(c))
	if err != nil {
		respondSchemaError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"fields": schema})
}

// ===========================
// 🗑 Remove Schema Field - DELETE /events/:id/schema/fields/:field_id
func (h *Handler) RemoveSchemaField(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	id, ok := eventIDFromParam(c)
	if !ok {
		return
	}

	schema, err := h.Service.RemoveSchemaField(id, c.Param("field_id"), accessContext, middleware.GetIPFromContext(c))
	if err != nil {
		respondSchemaError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": schema})
}

// ===========================
// 📑 Duplicate Schema Field - POST /events/:id/schema/fields/:field_id/duplicate
func (h *Handler) DuplicateSchemaField(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	id, ok := eventIDFromParam(c)
	if !ok {
		return
	}

	schema, err := h.Service.DuplicateSchemaField(id, c.Param("field_id"), accessContext, middleware.GetIPFromContext(c))
	if err != nil {
		respondSchemaError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"fields": schema})
}

// ===========================
// ↕️ Move Schema Field - POST /events/:id/schema/fields/:field_id/move
func (h *Handler) MoveSchemaField(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	id, ok := eventIDFromParam(c)
	if !ok {
		return
	}

	var req MoveFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	schema, err := h.Service.MoveSchemaField(id, c.Param("field_id"), req.Direction, accessContext, middleware.GetIPFromContext(c))
	if err != nil {
		respondSchemaError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": schema})
}

// ===========================
// ✏️ Update Schema Field - PATCH /events/:id/schema/fields/:field_id
func (h *Handler) UpdateSchemaField(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	id, ok := eventIDFromParam(c)
	if !ok {
		return
	}

	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	schema, err := h.Service.UpdateSchemaField(id, c.Param("field_id"), &req, accessContext, middleware.GetIPFromContext(c))
	if err != nil {
		respondSchemaError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fields": schema})
}

// ===========================
// 💾 Save Schema - PUT /events/:id/schema
func (h *Handler) SaveSchema(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	id, ok := eventIDFromParam(c)
	if !ok {
		return
	}

	var req struct {
		Fields formschema.Schema `json:"fields" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	if err := h.Service.SaveSchema(id, req.Fields, accessContext, middleware.GetIPFromContext(c)); err != nil {
		var vErr *formschema.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":          "schema validation failed",
				"missingLabels":  vErr.MissingLabels,
				"missingOptions": vErr.MissingOptions,
			})
			return
		}
		respondSchemaError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "schema saved successfully"})
}

func respondSchemaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, formschema.ErrLockedField):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, formschema.ErrFieldNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, formschema.ErrUnknownFieldType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
