// Package utils holds token and password helpers used by the auth flow.
package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleOwner is the only role the booking manager issues.
const RoleOwner = "OWNER"

// AccessToken is a signed JWT together with its expiry.
type AccessToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expires"`
}

// Claims are the claims carried by an access token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewAccessToken signs an HS256 token for subject with the given role,
// valid for ttlMin minutes from now.
func NewAccessToken(secret, subject, role string, ttlMin int, now time.Time) (AccessToken, error) {
	exp := now.UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now.UTC()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw against secret and returns its claims.
// Only HMAC-signed tokens are accepted.
func ParseAccessToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
