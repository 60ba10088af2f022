// Package auth implements the request-time authorization decision: policy
// lookup, token verification and the revocation check against the token
// store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"zopsm/internal/auth/policy"
	"zopsm/internal/auth/token"
	"zopsm/internal/domain"
)

// GateError carries a stable internal code alongside the taxonomy sentinel.
// The code is for logs and tests; response bodies stay role-agnostic.
type GateError struct {
	Code string
	Err  error
}

func (e *GateError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code
}

func (e *GateError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsGateError(err error) (*GateError, bool) {
	var gateErr *GateError
	if errors.As(err, &gateErr) {
		return gateErr, true
	}
	return nil, false
}

// Gate is the fixed first stage of the request pipeline. It is safe for
// concurrent use: the registry is read-only and the codec and store keep no
// per-request state.
type Gate struct {
	registry *policy.Registry
	codec    *token.Codec
	store    domain.TokenStore
}

func NewGate(registry *policy.Registry, codec *token.Codec, store domain.TokenStore) *Gate {
	return &Gate{registry: registry, codec: codec, store: store}
}

// Authorize decides whether the request may reach the resource handler.
//
// The check order is load-bearing: method-not-allowed and anonymous access
// short-circuit before any token parsing, so public or unregistered paths
// never leak token-validation detail and never cost codec work. Only then is
// the token decoded, checked against the store for revocation, and its role
// matched against the policy. On success the decoded principal is returned
// for the caller to attach to the request context; there is no other side
// effect.
func (g *Gate) Authorize(ctx context.Context, resource, method, authorization string) (domain.Principal, error) {
	roles, ok := g.registry.Lookup(resource, method)
	if !ok {
		// CORS preflight passes untouched.
		if method == http.MethodOptions {
			return domain.Principal{}, nil
		}
		return domain.Principal{}, &GateError{Code: "METHOD_NOT_ALLOWED", Err: domain.ErrMethodNotAllowed}
	}

	if roles.Public() {
		return domain.Principal{}, nil
	}

	if authorization == "" {
		return domain.Principal{}, &GateError{Code: "MISSING_TOKEN", Err: domain.ErrUnauthenticated}
	}

	principal, err := g.codec.Decode(authorization)
	if err != nil {
		return domain.Principal{}, &GateError{Code: "INVALID_TOKEN", Err: domain.ErrUnauthenticated}
	}

	exists, err := g.store.Exists(ctx, principal.Subject, authorization)
	if err != nil {
		// Fail closed, but as a server error: an unreachable store says
		// nothing about the token.
		return domain.Principal{}, &GateError{
			Code: "STORE_UNAVAILABLE",
			Err:  fmt.Errorf("%w: token store: %v", domain.ErrInfrastructure, err),
		}
	}
	if !exists {
		return domain.Principal{}, &GateError{Code: "TOKEN_REVOKED", Err: domain.ErrUnauthorized}
	}

	if !roles.Contains(principal.Role) {
		return domain.Principal{}, &GateError{Code: "ROLE_NOT_PERMITTED", Err: domain.ErrUnauthorized}
	}

	return principal, nil
}
