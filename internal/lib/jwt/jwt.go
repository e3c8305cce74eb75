package jwt

import (
	"errors"
	"fmt"
	"time"

	"portfolio/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Kind  string `json:"kind"`
	jwt.RegisteredClaims
}

// NewToken signs an HS256 token for admin. Every token gets a random jti so
// two refresh tokens issued in the same second never collide in storage.
func NewToken(admin models.Admin, kind string, duration time.Duration, secret []byte) (string, error) {
	now := time.Now()

	claims := Claims{
		Email: admin.Email,
		Name:  admin.Name,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   admin.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Parse verifies signature, expiry and kind.
func Parse(tokenString, kind string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Kind != kind {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
