package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingAuthHeader = errors.New("missing or malformed Authorization header")
	ErrInvalidToken      = errors.New("invalid token")
	ErrMissingSubject    = errors.New("token has no recruiter subject")
)

// RecruiterClaims is the payload of a recruiter session token. Subject holds
// the recruiter id.
type RecruiterClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for a recruiter.
func IssueToken(secret, recruiterID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := RecruiterClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   recruiterID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	authz := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authz, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", ErrMissingAuthHeader
	}
	return strings.TrimSpace(token), nil
}

// ParseToken validates signature, method and expiry.
func ParseToken(tokenStr, secret string) (*RecruiterClaims, error) {
	claims := &RecruiterClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// VerifyToken reads and validates the bearer token on r.
func VerifyToken(r *http.Request, secret string) (*RecruiterClaims, error) {
	tokenStr, err := BearerToken(r)
	if err != nil {
		return nil, err
	}
	return ParseToken(tokenStr, secret)
}
