package auth

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

// TokenVerifier validates bearer tokens issued by the external identity
// provider. This service never issues tokens of its own.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier builds a verifier.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Claims describes the JWT payload. Permissions are computed by the external
// RBAC component and arrive pre-resolved.
type Claims struct {
	SubjectID   string               `json:"sub"`
	Subject     domain.SubjectType   `json:"subject"`
	Role        *domain.EmployeeRole `json:"role,omitempty"`
	Permissions []string             `json:"perms,omitempty"`
	jwt.RegisteredClaims
}

// ParseToken validates and returns claims.
func (tv *TokenVerifier) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tv.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
