package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/eventease/campus-backend/internal/auth"
)

// Role constants to avoid string typos
const (
	RoleStudent   = auth.RoleStudent
	RoleOrganizer = auth.RoleOrganizer
	RoleAdmin     = auth.RoleAdmin
)

const (
	PermissionFull     = "full"
	PermissionReadonly = "readonly"
)

// AccessContext stores user access information
type AccessContext struct {
	UserID         string
	Email          string
	RoleName       string
	PermissionType string // "full" or "readonly"
}

// NewAccessContext grants organizers and admins write access; students may
// read and act on their own RSVPs only.
func NewAccessContext(user auth.User) AccessContext {
	permission := PermissionReadonly
	if user.Role == RoleOrganizer || user.Role == RoleAdmin {
		permission = PermissionFull
	}
	return AccessContext{
		UserID:         user.ID,
		Email:          user.Email,
		RoleName:       user.Role,
		PermissionType: permission,
	}
}

// CanWrite returns true if the user has write permissions
func (ac *AccessContext) CanWrite() bool {
	return ac.PermissionType == PermissionFull
}

// GetAccessContext returns the access context set by AuthMiddleware.
func GetAccessContext(c *gin.Context) (AccessContext, bool) {
	v, exists := c.Get("access_context")
	if !exists {
		return AccessContext{}, false
	}
	ac, ok := v.(AccessContext)
	return ac, ok
}
