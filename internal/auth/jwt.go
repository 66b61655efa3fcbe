package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers any bearer token that fails signature, expiry, or
// claims validation on a protected API route.
var ErrInvalidToken = errors.New("invalid token")

// tokenClaims is the JWT claim set issued by POST /api/auth/token (spec.md
// §6's "authentication and token issuance" external contract, minimally
// satisfied here rather than by the teacher's full user/session subsystem).
type tokenClaims struct {
	jwt.RegisteredClaims
}

// IssueJWT signs a bearer token for the configured admin secret exchange,
// valid for ttl from now.
func IssueJWT(secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateJWT verifies signature and expiry and returns the subject on
// success.
func ValidateJWT(secret, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
