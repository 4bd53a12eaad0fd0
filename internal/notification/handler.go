package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventease/campus-backend/middleware"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

func accessContext(c *gin.Context) (middleware.AccessContext, bool) {
	ac, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
	}
	return ac, ok
}

// GetMyInApp godoc
// @Summary List the current user's in-app notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Success 200 {array} InAppNotification
// @Router /api/v1/notifications [get]
func (h *Handler) GetMyInApp(c *gin.Context) {
	ac, ok := accessContext(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, err := h.Service.ListInAppByUser(c.Request.Context(), ac.UserID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch in-app notifications"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// MarkInAppRead godoc
// @Summary Mark an in-app notification as read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/notifications/{id}/read [patch]
func (h *Handler) MarkInAppRead(c *gin.Context) {
	ac, ok := accessContext(c)
	if !ok {
		return
	}
	if err := h.Service.MarkInAppAsRead(c.Request.Context(), c.Param("id"), ac.UserID); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark as read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}

// StreamInApp godoc
// @Summary Stream in-app notifications (SSE)
// @Tags Notifications
// @Produce text/event-stream
// @Security BearerAuth
// @Router /api/v1/notifications/stream [get]
func (h *Handler) StreamInApp(c *gin.Context) {
	ac, ok := accessContext(c)
	if !ok {
		return
	}
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	ctx := c.Request.Context()
	ch, cancel, err := h.Service.Subscribe(ctx, ac.UserID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "notification stream unavailable"})
		return
	}
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	flusher.Flush()

	for {
		select {
		case payload, ok := <-ch:
			if !ok {
				return
			}
			_, _ = c.Writer.Write([]byte("event: inapp\n"))
			_, _ = c.Writer.Write([]byte("data: " + string(payload) + "\n\n"))
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}

// RegisterDevice godoc
// @Summary Register a push device token
// @Tags Notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RegisterDeviceRequest true "Device"
// @Success 201 {object} map[string]string
// @Router /api/v1/notifications/devices [post]
func (h *Handler) RegisterDevice(c *gin.Context) {
	ac, ok := accessContext(c)
	if !ok {
		return
	}
	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "device_token is required"})
		return
	}
	if err := h.Service.RegisterDeviceToken(c.Request.Context(), ac.UserID, req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register device"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "device registered"})
}

// RemoveDevice godoc
// @Summary Remove a push device token
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param token path string true "Device token"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/notifications/devices/{token} [delete]
func (h *Handler) RemoveDevice(c *gin.Context) {
	ac, ok := accessContext(c)
	if !ok {
		return
	}
	if err := h.Service.RemoveDeviceToken(c.Request.Context(), ac.UserID, c.Param("token")); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "device not registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove device"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "device removed"})
}
