package event

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventease/campus-backend/middleware"
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
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return middleware.AccessContext{}, false
	}
	return accessContext, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrEventFull):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrInvalidEvent):
		return http.StatusBadRequest
	case errors.Is(err, ErrWriteAccessDenied):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// ===========================
// 🎯 Create Event - POST /events
// @Summary Create an event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event"
// @Success 201 {object} EventView
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/v1/events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	created, err := h.Service.CreateEvent(c.Request.Context(), &req, accessContext, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, NewView(*created))
}

// ===========================
// 📋 List Events - GET /events?search=&category=
// @Summary List events
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param search query string false "Case-insensitive match on title or description"
// @Param category query string false "tech, sports, cultural or all"
// @Success 200 {array} EventView
// @Failure 400 {object} map[string]string
// @Router /api/v1/events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	events, err := h.Service.ListEvents(accessContext, c.Query("search"), c.Query("category"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, NewViews(events))
}

// ===========================
// 🙋 My Events - GET /events/my
// @Summary Events the current user RSVP'd to
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {array} EventView
// @Router /api/v1/events/my [get]
func (h *Handler) GetMyEvents(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewViews(h.Service.MyEvents(accessContext)))
}

// ===========================
// 🔍 Get Event - GET /events/:id
// @Summary Get an event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} EventView
// @Failure 404 {object} map[string]string
// @Router /api/v1/events/{id} [get]
func (h *Handler) GetEventByID(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	e, err := h.Service.GetEvent(accessContext, c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, NewView(*e))
}

// ===========================
// ✅ Toggle RSVP - POST /events/:id/rsvp
// @Summary Toggle the current user's RSVP
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} EventView
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/events/{id}/rsvp [post]
func (h *Handler) ToggleRSVP(c *gin.Context) {
	accessContext, ok := getAccessContextFromContext(c)
	if !ok {
		return
	}

	updated, err := h.Service.ToggleRSVP(c.Request.Context(), c.Param("id"), accessContext, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, NewView(*updated))
}

// ===========================
// 📊 Stats - GET /events/stats
// @Summary Registry totals
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatsResponse
// @Router /api/v1/events/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.GetStats())
}
