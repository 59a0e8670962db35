// Package utils provides the JWT codec and password hashing helpers shared
// by the auth service and middleware.
package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification: bad
// signature, wrong secret, malformed structure, or expiry. Callers treat
// all of these the same way and must not branch on the underlying cause.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by access and refresh tokens. Only the
// user id is embedded; everything else is re-read from the store on use.
type Claims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"uid"`
}

// EmailClaims is the payload carried by email-bound tokens (verification
// and password reset). The email is included so consumption can require
// the token to match both the id and the address it was sent to.
type EmailClaims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"uid"`
	Email  string `json:"email"`
}

// NewAccessToken signs a short-lived HS256 access token for a user.
func NewAccessToken(secret string, userID uint64, ttl time.Duration) (string, error) {
	return signUserToken(secret, userID, ttl)
}

// NewRefreshToken signs a long-lived refresh token. It uses a secret
// distinct from the access secret, which keeps the two token namespaces
// disjoint: a refresh token can never pass access-token verification and
// vice versa.
func NewRefreshToken(refreshSecret string, userID uint64, ttl time.Duration) (string, error) {
	return signUserToken(refreshSecret, userID, ttl)
}

// NewVerificationToken signs an email-verification token bound to the
// user's id and email address.
func NewVerificationToken(secret string, userID uint64, email string, ttl time.Duration) (string, error) {
	return signEmailToken(secret, userID, email, ttl)
}

// NewResetToken signs a password-reset token bound to the user's id and
// email address.
func NewResetToken(secret string, userID uint64, email string, ttl time.Duration) (string, error) {
	return signEmailToken(secret, userID, email, ttl)
}

// ParseAccessToken verifies an access token and returns the user id.
func ParseAccessToken(secret, raw string) (uint64, error) {
	return parseUserToken(secret, raw)
}

// ParseRefreshToken verifies a refresh token against the refresh secret.
func ParseRefreshToken(refreshSecret, raw string) (uint64, error) {
	return parseUserToken(refreshSecret, raw)
}

// ParseVerificationToken verifies a verification token and returns the
// bound user id and email.
func ParseVerificationToken(secret, raw string) (uint64, string, error) {
	return parseEmailToken(secret, raw)
}

// ParseResetToken verifies a password-reset token and returns the bound
// user id and email.
func ParseResetToken(secret, raw string) (uint64, string, error) {
	return parseEmailToken(secret, raw)
}

func signUserToken(secret string, userID uint64, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	return t.SignedString([]byte(secret))
}

func signEmailToken(secret string, userID uint64, email string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, EmailClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Email:  email,
	})
	return t.SignedString([]byte(secret))
}

func parseUserToken(secret, raw string) (uint64, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, keyFunc(secret))
	if err != nil || !tok.Valid || claims.UserID == 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.UserID, nil
}

func parseEmailToken(secret, raw string) (uint64, string, error) {
	claims := &EmailClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, keyFunc(secret))
	if err != nil || !tok.Valid || claims.UserID == 0 || claims.Email == "" {
		return 0, "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.UserID, claims.Email, nil
}

func keyFunc(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}
}
