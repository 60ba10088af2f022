package tokenstore

import (
	"context"
	"sync"

	"zopsm/internal/domain"
)

// MemoryUserTokens is the in-process stand-in for the redis user token set,
// used by tests and by the gate's unit scenarios.
type MemoryUserTokens struct {
	mu     sync.Mutex
	tokens map[string]map[string]struct{}
	// FailNext forces the next call to report a store outage.
	FailNext error
}

func NewMemoryUserTokens() *MemoryUserTokens {
	return &MemoryUserTokens{tokens: make(map[string]map[string]struct{})}
}

func (s *MemoryUserTokens) takeFailure() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

func (s *MemoryUserTokens) Add(_ context.Context, principalID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	set, ok := s.tokens[principalID]
	if !ok {
		set = make(map[string]struct{})
		s.tokens[principalID] = set
	}
	set[token] = struct{}{}
	return nil
}

func (s *MemoryUserTokens) Exists(_ context.Context, principalID, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return false, err
	}
	set, ok := s.tokens[principalID]
	if !ok {
		return false, nil
	}
	_, ok = set[token]
	return ok, nil
}

func (s *MemoryUserTokens) RemoveOne(_ context.Context, principalID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	if set, ok := s.tokens[principalID]; ok {
		delete(set, token)
	}
	return nil
}

func (s *MemoryUserTokens) RemoveAll(_ context.Context, principalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return err
	}
	delete(s.tokens, principalID)
	return nil
}

// Count reports how many tokens a principal currently holds.
func (s *MemoryUserTokens) Count(principalID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens[principalID])
}

type consumerScope struct {
	projectID   string
	serviceCode string
}

// MemoryConsumerTokens mirrors the redis consumer-token layout in process.
type MemoryConsumerTokens struct {
	mu      sync.Mutex
	byScope map[consumerScope]map[string]domain.ConsumerToken
}

func NewMemoryConsumerTokens() *MemoryConsumerTokens {
	return &MemoryConsumerTokens{byScope: make(map[consumerScope]map[string]domain.ConsumerToken)}
}

func (s *MemoryConsumerTokens) Add(_ context.Context, rec domain.ConsumerToken, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	scope := consumerScope{projectID: rec.ProjectID, serviceCode: rec.ServiceCode}
	set, ok := s.byScope[scope]
	if !ok {
		set = make(map[string]domain.ConsumerToken)
		s.byScope[scope] = set
	}
	set[token] = rec
	return nil
}

func (s *MemoryConsumerTokens) Remove(_ context.Context, projectID, serviceCode, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	scope := consumerScope{projectID: projectID, serviceCode: serviceCode}
	set, ok := s.byScope[scope]
	if !ok {
		return domain.ErrNotFound
	}
	if _, ok := set[token]; !ok {
		return domain.ErrNotFound
	}
	delete(set, token)
	return nil
}

func (s *MemoryConsumerTokens) RemoveAllFor(_ context.Context, projectID, serviceCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byScope, consumerScope{projectID: projectID, serviceCode: serviceCode})
	return nil
}

// CountFor reports how many tokens exist for a (project, service) scope.
func (s *MemoryConsumerTokens) CountFor(projectID, serviceCode string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byScope[consumerScope{projectID: projectID, serviceCode: serviceCode}])
}

// MemoryResetTokens is the in-process reset-token set.
type MemoryResetTokens struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

func NewMemoryResetTokens() *MemoryResetTokens {
	return &MemoryResetTokens{tokens: make(map[string]struct{})}
}

func (s *MemoryResetTokens) Add(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = struct{}{}
	return nil
}

func (s *MemoryResetTokens) Exists(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[token]
	return ok, nil
}

func (s *MemoryResetTokens) Remove(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
