package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

// ===============================
// Login
// ===============================

// Login godoc
// @Summary Sign in (mocked)
// @Description Any well-formed email and non-empty password sign in with the chosen role
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginInput true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req, clientIP(c))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrMissingCredentials) || errors.Is(err, ErrInvalidEmail) || errors.Is(err, ErrInvalidRole) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ===============================
// Current User
// ===============================

// Me godoc
// @Summary Current user profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} User
// @Failure 401 {object} map[string]string
// @Router /api/v1/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ===============================
// Logout
// ===============================

// Logout godoc
// @Summary Sign out
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /api/v1/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	user, _ := CurrentUser(c)
	_ = h.service.Logout(c.Request.Context(), user.ID, clientIP(c)) // stateless
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// CurrentUser returns the user the auth middleware stored on the context.
func CurrentUser(c *gin.Context) (User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return User{}, false
	}
	user, ok := v.(User)
	return user, ok
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("client_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
