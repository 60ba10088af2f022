package domain

import "context"

// TokenStore is the shared key/value service holding every currently valid
// user token. Multi-writer, multi-reader; correctness of revocation relies
// only on the store's per-key atomicity. All operations are idempotent.
type TokenStore interface {
	Add(ctx context.Context, principalID, token string) error
	Exists(ctx context.Context, principalID, token string) (bool, error)
	RemoveOne(ctx context.Context, principalID, token string) error
	RemoveAll(ctx context.Context, principalID string) error
}

// ConsumerToken is the record behind an opaque consumer-service token,
// scoped by the composite (AccountID, ProjectID, ServiceCode, ConsumerID).
type ConsumerToken struct {
	AccountID   string
	ProjectID   string
	ServiceCode string
	ConsumerID  string
}

// ConsumerTokenStore keeps consumer-service tokens in a namespace that is
// independent of user tokens. RemoveAllFor revokes every token scoped to a
// (project, service) pair, used when the service or its project goes away.
type ConsumerTokenStore interface {
	Add(ctx context.Context, rec ConsumerToken, token string) error
	Remove(ctx context.Context, projectID, serviceCode, token string) error
	RemoveAllFor(ctx context.Context, projectID, serviceCode string) error
}

// ResetTokenStore holds one-time password-reset tokens.
type ResetTokenStore interface {
	Add(ctx context.Context, token string) error
	Exists(ctx context.Context, token string) (bool, error)
	Remove(ctx context.Context, token string) error
}

// Mailer delivers transactional mail. Delivery is an external collaborator;
// implementations inside this repository only log.
type Mailer interface {
	SendApproveCode(ctx context.Context, email, approveCode, registrationID string) error
	SendResetPassword(ctx context.Context, email, token string) error
}
