package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/eventease/campus-backend/config"
	"github.com/eventease/campus-backend/internal/auditlog"
)

const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg?seed="

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidToken       = errors.New("invalid token")
)

// userNamespace derives stable user IDs from email addresses.
var userNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://eventease.local/users"))

type Service interface {
	Login(ctx context.Context, in LoginInput, ip string) (*LoginResponse, error)
	Logout(ctx context.Context, userID string, ip string) error
	GetUserByID(ctx context.Context, userID string) (User, error)
	ParseAccessToken(token string) (*Claims, error)
}

type service struct {
	repo         Repository
	auditSvc     auditlog.Service
	accessSecret []byte
	accessTTL    time.Duration
	now          func() time.Time
	logger       zerolog.Logger
}

func NewService(r Repository, auditSvc auditlog.Service, cfg *config.Config, logger zerolog.Logger) Service {
	return &service{
		repo:         r,
		auditSvc:     auditSvc,
		accessSecret: []byte(cfg.JWTAccessSecret),
		accessTTL:    cfg.AccessTTL(),
		now:          time.Now,
		logger:       logger.With().Str("component", "auth").Logger(),
	}
}

// =============================
// Login
// =============================

// Login accepts any well-formed email and non-empty password. Credentials are
// not verified; the same email always resolves to the same user.
func (s *service) Login(ctx context.Context, in LoginInput, ip string) (*LoginResponse, error) {
	email := strings.TrimSpace(in.Email)
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = RoleStudent
	}

	fail := func(err error) (*LoginResponse, error) {
		s.audit(ctx, "", auditlog.ActionUserLogin, map[string]interface{}{"email": email, "error": err.Error()}, ip, auditlog.StatusFailure)
		return nil, err
	}

	if email == "" || in.Password == "" {
		return fail(ErrMissingCredentials)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fail(ErrInvalidEmail)
	}
	if !ValidRole(role) {
		return fail(fmt.Errorf("%w: %q", ErrInvalidRole, in.Role))
	}

	user := User{
		ID:          UserIDForEmail(email),
		Name:        strings.SplitN(email, "@", 2)[0],
		Email:       email,
		Role:        role,
		Avatar:      avatarBaseURL + email,
		LastLoginAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, &user); err != nil {
		return fail(err)
	}

	token, expiresAt, err := s.generateAccessToken(&user)
	if err != nil {
		return fail(err)
	}

	s.audit(ctx, user.ID, auditlog.ActionUserLogin, map[string]interface{}{"email": email, "role": role}, ip, auditlog.StatusSuccess)
	s.logger.Info().Str("user_id", user.ID).Str("role", role).Msg("user logged in")

	return &LoginResponse{AccessToken: token, ExpiresAt: expiresAt, User: user}, nil
}

// UserIDForEmail is the deterministic user ID for an email address.
func UserIDForEmail(email string) string {
	return uuid.NewSHA1(userNamespace, []byte(strings.ToLower(email))).String()
}

func (s *service) generateAccessToken(user *User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAccessToken validates signature and expiry.
func (s *service) ParseAccessToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.accessSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// =============================
// Logout
// =============================

// Logout is stateless; tokens expire on their own.
func (s *service) Logout(ctx context.Context, userID string, ip string) error {
	s.audit(ctx, userID, auditlog.ActionUserLogout, nil, ip, auditlog.StatusSuccess)
	return nil
}

func (s *service) GetUserByID(ctx context.Context, userID string) (User, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	return *u, nil
}

func (s *service) audit(ctx context.Context, userID, action string, details map[string]interface{}, ip, status string) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.LogAction(ctx, userID, action, details, ip, status)
}
