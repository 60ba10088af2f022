package domain

import "time"

// Principal is the authenticated identity reconstructed from a verified
// token for the duration of a single request. It is never persisted.
type Principal struct {
	Subject   string
	Role      Role
	AccountID string
	TenantID  string
	ExpiresAt time.Time
}
