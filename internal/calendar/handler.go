package calendar

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventease/campus-backend/internal/event"
	"github.com/eventease/campus-backend/middleware"
)

const icsContentType = "text/calendar; charset=utf-8"

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

type SyncRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

func accessContext(c *gin.Context) (middleware.AccessContext, bool) {
	ac, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
	}
	return ac, ok
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, event.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNoEntries):
		c.JSON(http.StatusNotFound, gin.H{"error": "no registered events to export"})
	case errors.Is(err, ErrMissingToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GetLink godoc
// @Summary Google Calendar quick-add link
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/events/{id}/calendar-link [get]
func (h *Handler) GetLink(c *gin.Context) {
	ac, ok := accessContext(c)
	if !ok {
		return
	}
	link, err := h.Service.Link(ac, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}

// GetICS godoc
// @Summary Download one event as iCalendar
// @Tags Calendar
// @Produce text/calendar
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Router /api/v1/events/{id}/ics [get]
func (h *Handler) GetICS(c *gin.Context) {
	ac, ok := accessContext(c)
	if !ok {
		return
	}
	data, filename, err := h.Service.EventICS(ac, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, icsContentType, data)
}

// GetMyICS godoc
// @Summary Download the current user's RSVP'd events as iCalendar
// @Tags Calendar
// @Produce text/calendar
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Router /api/v1/events/ics [get]
func (h *Handler) GetMyICS(c *gin.Context) {
	ac, ok := accessContext(c)
	if !ok {
		return
	}
	data, filename, err := h.Service.RegisteredICS(ac)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, icsContentType, data)
}

// Sync godoc
// @Summary Add an event to the user's Google Calendar
// @Tags Calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param body body SyncRequest true "Google OAuth access token"
// @Success 200 {object} SyncResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/v1/events/{id}/calendar-sync [post]
func (h *Handler) Sync(c *gin.Context) {
	ac, ok := accessContext(c)
	if !ok {
		return
	}
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "access_token is required"})
		return
	}

	result, err := h.Service.Sync(c.Request.Context(), ac, c.Param("id"), req.AccessToken, middleware.GetIPFromContext(c))
	if err != nil {
		if errors.Is(err, event.ErrEventNotFound) || errors.Is(err, ErrMissingToken) {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to sync with calendar"})
		return
	}
	c.JSON(http.StatusOK, result)
}
