// Package policy holds the access table consulted before every request: one
// allowed-role set per (resource, HTTP method) pair.
package policy

import "zopsm/internal/domain"

// RoleSet is an allowed-role set attached to a single resource method.
type RoleSet map[domain.Role]struct{}

func NewRoleSet(roles ...domain.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Contains(role domain.Role) bool {
	_, ok := s[role]
	return ok
}

// Public reports whether the set admits anonymous callers.
func (s RoleSet) Public() bool {
	return s.Contains(domain.RoleAnonym)
}

// Registry maps (resource name, method) to the roles allowed to call it. It
// is built once during startup composition and read-only afterwards, so
// concurrent lookups need no locking. A method that was never registered is
// not allowed, regardless of whether the resource exposes a handler for it.
type Registry struct {
	entries map[string]map[string]RoleSet
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]map[string]RoleSet)}
}

// Register declares the allowed roles for one resource method.
// Re-registering the same pair overwrites the previous set.
func (r *Registry) Register(resource, method string, roles ...domain.Role) {
	methods, ok := r.entries[resource]
	if !ok {
		methods = make(map[string]RoleSet)
		r.entries[resource] = methods
	}
	methods[method] = NewRoleSet(roles...)
}

func (r *Registry) Lookup(resource, method string) (RoleSet, bool) {
	methods, ok := r.entries[resource]
	if !ok {
		return nil, false
	}
	set, ok := methods[method]
	return set, ok
}
