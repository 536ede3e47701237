// Package token issues the short-lived capability tokens handed to a
// case's responsible party after a successful phone lookup. The token is
// scoped to a single case; followup answer endpoints accept it instead of
// re-checking the phone number on every call.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken indicates a token is malformed or fails validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates a token has expired.
	ErrExpiredToken = errors.New("token expired")
)

// CaseClaims are the claims carried by a beneficiary capability token.
type CaseClaims struct {
	CaseID string `json:"case_id"`
	jwt.RegisteredClaims
}

// GenerateCaseToken signs a case-scoped token with the given expiry.
func GenerateCaseToken(secret []byte, caseID string, expiry time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := CaseClaims{
		CaseID: caseID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseCaseToken validates a capability token and returns its claims.
func ParseCaseToken(secret []byte, tokenString string) (*CaseClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CaseClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*CaseClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
