// Package token encodes and verifies the signed claim sets behind auth
// tokens. A token carries subject, role, account and tenant identifiers plus
// an expiry; it never carries credentials.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v4"

	"zopsm/internal/domain"
)

var (
	ErrMalformedToken = errors.New("malformed token")
	ErrExpiredToken   = errors.New("expired token")
	ErrMissingClaim   = errors.New("missing claim")
)

type authClaims struct {
	Role      *int   `json:"rol,omitempty"`
	AccountID string `json:"account_id,omitempty"`
	TenantID  string `json:"tenant_id,omitempty"`
	jwt.RegisteredClaims
}

type resetClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 tokens. The clock is injectable so expiry
// behavior is testable; comparisons are strict, with no skew allowance.
type Codec struct {
	secret   []byte
	ttl      time.Duration
	resetTTL time.Duration
	clock    clock.Clock
}

func NewCodec(secret string, ttl, resetTTL time.Duration) *Codec {
	return &Codec{
		secret:   []byte(secret),
		ttl:      ttl,
		resetTTL: resetTTL,
		clock:    clock.New(),
	}
}

// NewCodecWithClock is used by tests that need to move time.
func NewCodecWithClock(secret string, ttl, resetTTL time.Duration, clk clock.Clock) *Codec {
	c := NewCodec(secret, ttl, resetTTL)
	c.clock = clk
	return c
}

// Encode issues a signed token for the principal. Expiry is now+ttl; the
// principal's own ExpiresAt is ignored.
func (c *Codec) Encode(p domain.Principal) (string, error) {
	now := c.clock.Now()
	role := int(p.Role)
	claims := authClaims{
		Role:      &role,
		AccountID: p.AccountID,
		TenantID:  p.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies signature and expiry and reconstructs the principal.
func (c *Codec) Decode(tokenValue string) (domain.Principal, error) {
	var claims authClaims
	if err := c.parse(tokenValue, &claims); err != nil {
		return domain.Principal{}, err
	}
	if err := c.checkExpiry(claims.ExpiresAt); err != nil {
		return domain.Principal{}, err
	}
	if claims.Subject == "" || claims.Role == nil {
		return domain.Principal{}, ErrMissingClaim
	}
	role := domain.Role(*claims.Role)
	if !role.Valid() {
		return domain.Principal{}, ErrMissingClaim
	}
	// Tenant-scoped tokens (root, manager) carry no account id; every other
	// token must.
	if claims.AccountID == "" && claims.TenantID == "" {
		return domain.Principal{}, ErrMissingClaim
	}
	return domain.Principal{
		Subject:   claims.Subject,
		Role:      role,
		AccountID: claims.AccountID,
		TenantID:  claims.TenantID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// EncodeReset issues a short-lived one-time token bound to an email address,
// used by the forgot-password flow.
func (c *Codec) EncodeReset(email string) (string, error) {
	now := c.clock.Now()
	claims := resetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.resetTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return signed, nil
}

// DecodeReset verifies a reset token and returns the bound email.
func (c *Codec) DecodeReset(tokenValue string) (string, error) {
	var claims resetClaims
	if err := c.parse(tokenValue, &claims); err != nil {
		return "", err
	}
	if err := c.checkExpiry(claims.ExpiresAt); err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", ErrMissingClaim
	}
	return claims.Email, nil
}

// parse verifies structure and signature only; expiry is checked separately
// against the injected clock so it can surface as a distinct error.
func (c *Codec) parse(tokenValue string, claims jwt.Claims) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(tokenValue, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return nil
}

func (c *Codec) checkExpiry(exp *jwt.NumericDate) error {
	if exp == nil {
		return ErrMissingClaim
	}
	if c.clock.Now().After(exp.Time) {
		return ErrExpiredToken
	}
	return nil
}
