package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/msomdec/daybook/internal/domain"
)

// TokenTTL is the validity window of an issued session token.
const TokenTTL = 7 * 24 * time.Hour

// TokenService issues and verifies signed session tokens. Tokens are
// stateless HS256 JWTs carrying only the user id and expiry; there is no
// server-side revocation list, so logout cannot force-expire a copied
// token before its natural expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}
}

// NewTokenServiceWithClock is like NewTokenService but with an explicit
// clock, so tests can issue tokens at a synthetic time.
func NewTokenServiceWithClock(secret string, now func() time.Time) *TokenService {
	s := NewTokenService(secret)
	s.now = now
	return s
}

// Issue produces a signed token for the given user, valid for TokenTTL
// from the current time.
func (s *TokenService) Issue(userID int64) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the token's signature and expiry and returns the
// embedded user id and expiry time. Any malformed, unsigned, or expired
// token yields domain.ErrUnauthorized; callers rely on this single error
// to treat "invalid" identically to "absent".
func (s *TokenService) Verify(tokenString string) (int64, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, time.Time{}, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, time.Time{}, domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, time.Time{}, domain.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, time.Time{}, domain.ErrUnauthorized
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, time.Time{}, domain.ErrUnauthorized
	}

	return userID, exp.Time, nil
}
