package volunteer

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventease/campus-backend/internal/event"
	"github.com/eventease/campus-backend/middleware"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrRoleNotFound), errors.Is(err, event.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRoleFilled), errors.Is(err, ErrAlreadySignedUp), errors.Is(err, ErrNotSignedUp):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidShift), errors.Is(err, ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, ErrWriteAccessDenied):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func views(roles []Role) []RoleView {
	out := make([]RoleView, 0, len(roles))
	for _, r := range roles {
		out = append(out, NewView(r))
	}
	return out
}

// ListRoles godoc
// @Summary List volunteer roles
// @Tags Volunteers
// @Produce json
// @Security BearerAuth
// @Param event_id query string false "Event ID"
// @Success 200 {array} RoleView
// @Router /api/v1/volunteers/roles [get]
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.Service.ListRoles(c.Request.Context(), c.Query("event_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch volunteer roles"})
		return
	}
	c.JSON(http.StatusOK, views(roles))
}

// CreateRole godoc
// @Summary Add a volunteer role to an event
// @Tags Volunteers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRoleRequest true "Role"
// @Success 201 {object} RoleView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/volunteers/roles [post]
func (h *Handler) CreateRole(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	role, err := h.Service.CreateRole(c.Request.Context(), req, accessContext, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, NewView(*role))
}

// SignUp godoc
// @Summary Sign up for a volunteer role
// @Tags Volunteers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Success 200 {object} RoleView
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/volunteers/roles/{id}/signup [post]
func (h *Handler) SignUp(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}
	role, err := h.Service.SignUp(c.Request.Context(), c.Param("id"), accessContext, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, NewView(*role))
}

// Withdraw godoc
// @Summary Withdraw from a volunteer role
// @Tags Volunteers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Success 200 {object} RoleView
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/volunteers/roles/{id}/signup [delete]
func (h *Handler) Withdraw(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}
	role, err := h.Service.Withdraw(c.Request.Context(), c.Param("id"), accessContext, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, NewView(*role))
}

// SendReminders godoc
// @Summary Remind signed-up volunteers of their shifts
// @Tags Volunteers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Role ID"
// @Success 200 {object} map[string]int
// @Failure 404 {object} map[string]string
// @Router /api/v1/volunteers/roles/{id}/reminders [post]
func (h *Handler) SendReminders(c *gin.Context) {
	accessContext, ok := middleware.GetAccessContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
		return
	}
	sent, err := h.Service.SendReminders(c.Request.Context(), c.Param("id"), accessContext, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent})
}
