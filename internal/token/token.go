package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"veranda/internal/models"
)

// Claims is the payload carried by a bearer credential. Role name travels in
// the token so the verifier can decide on enrichment without a role lookup.
type Claims struct {
	UserID   uint   `json:"user_id"`
	RoleID   uint   `json:"role_id"`
	RoleName string `json:"role_name"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// Manager signs and verifies bearer credentials with a shared HMAC secret.
// It is the only component that touches the secret; everything downstream
// works with verified Claims.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue mints a signed credential for a user. The HTTP surface never exposes
// this directly; it exists for bootstrap tooling and tests.
func (m *Manager) Issue(user models.User, roleName string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		RoleID:   user.RoleID,
		RoleName: roleName,
		Name:     user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse verifies the signature and expiry and returns the claims.
// Every failure collapses to ErrInvalidToken so callers cannot leak which
// specific check rejected the credential.
func (m *Manager) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
