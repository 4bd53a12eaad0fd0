package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role constants to avoid string typos
const (
	RoleStudent   = "student"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

var Roles = []string{RoleStudent, RoleOrganizer, RoleAdmin}

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Avatar      string    `json:"avatar"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// Claims carried by access tokens.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginInput struct {
	Email    string `json:"email" binding:"required" example:"student@campus.edu"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Role     string `json:"role" example:"student"`
}

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        User      `json:"user"`
}
