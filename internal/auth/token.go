// Package auth implements the stateless session token service.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token purposes. A plain session token carries no purpose; a reset token is
// scoped with PurposeReset so it can never be replayed as a session token.
const PurposeReset = "reset"

// Default lifetimes for the two token kinds.
const (
	SessionTTL = 24 * time.Hour
	ResetTTL   = time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrWrongPurpose = errors.New("token purpose mismatch")
)

// Claims are the JWT claims carried by every issued token.
type Claims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose,omitempty"`
}

// UserID returns the subject as a user ID, or 0 if it is malformed.
func (c *Claims) UserID() uint {
	id, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// TokenService issues and validates HMAC-signed bearer tokens. Tokens are
// self-contained: validity is signature plus expiry only, there is no
// server-side revocation.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a token service signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// Issue mints a signed token for the user. purpose is empty for a session
// token or PurposeReset for a password-reset token.
func (s *TokenService) Issue(userID uint, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    "studenthub-api",
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Purpose: purpose,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and verifies a token. requirePurpose must match the token's
// purpose claim exactly; pass "" to require a plain session token. Malformed,
// unsigned or tampered tokens all collapse to ErrInvalidToken.
func (s *TokenService) Validate(tokenString, requirePurpose string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer("studenthub-api"))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID() == 0 {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != requirePurpose {
		return nil, ErrWrongPurpose
	}

	return claims, nil
}
