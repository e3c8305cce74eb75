package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"portfolio/internal/domain/models"
	"portfolio/internal/lib/logger/sl"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// AttemptLimiter throttles logins per client. Allow must reserve the attempt
// in the same step that checks the limit.
type AttemptLimiter interface {
	Allow(ip string) bool
	Reset(ip string)
}

// Auth guards the admin area with a single configured identity.
type Auth struct {
	log          *slog.Logger
	admin        models.Admin
	passwordHash []byte
	limiter      AttemptLimiter
}

func New(log *slog.Logger, adminEmail, adminName, passwordHash string, limiter AttemptLimiter) *Auth {
	return &Auth{
		log:          log,
		admin:        models.Admin{Email: adminEmail, Name: adminName},
		passwordHash: []byte(passwordHash),
		limiter:      limiter,
	}
}

// Login checks email and password against the configured admin. Every
// attempt counts against ip until one succeeds.
func (a *Auth) Login(ip, email, password string) (*models.Admin, error) {
	const op = "auth.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("ip", ip),
	)

	if !a.limiter.Allow(ip) {
		log.Warn("login blocked by limiter")
		return nil, fmt.Errorf("%s: %w", op, ErrTooManyAttempts)
	}

	if !a.IsAdmin(email) {
		log.Info("login with unknown email")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	a.limiter.Reset(ip)
	log.Info("admin logged in")

	admin := a.admin
	return &admin, nil
}

// IsAdmin reports whether email is the configured admin email, ignoring case.
func (a *Auth) IsAdmin(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && strings.EqualFold(email, a.admin.Email)
}

func (a *Auth) Admin() models.Admin {
	return a.admin
}

// HashPassword produces the bcrypt hash expected in admin.password_hash.
func HashPassword(password string) (string, error) {
	const op = "auth.HashPassword"

	if password == "" {
		return "", fmt.Errorf("%s: empty password", op)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(hash), nil
}
