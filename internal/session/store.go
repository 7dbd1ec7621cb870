// Package session holds the authenticated session (token and role) and
// persists it to durable client-local storage so logins survive
// restarts.
package session

import (
	"context"
	"fmt"

	"github.com/jasminek987/WageFlowApp/internal/payroll"
)

// Record is the persisted session payload.
type Record struct {
	Token string       `json:"token"`
	Role  payroll.Role `json:"role"`
}

// Storage persists the session record between runs.
type Storage interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, rec Record) error
	Clear(ctx context.Context) error
}

// Store is the single source of truth for "is logged in" and "what
// role". It is driven by one user action at a time and performs no
// internal locking; login is the only mutation entry point and logout
// the only clear entry point.
type Store struct {
	storage Storage
	current Record
}

// NewStore constructs a Store backed by storage, restoring any
// previously persisted session.
func NewStore(ctx context.Context, storage Storage) (*Store, error) {
	s := &Store{storage: storage}
	rec, err := storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	s.current = rec
	return s, nil
}

// Set records a new session and writes it through to storage.
func (s *Store) Set(ctx context.Context, token string, role payroll.Role) error {
	rec := Record{Token: token, Role: role}
	if err := s.storage.Save(ctx, rec); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.current = rec
	return nil
}

// Clear drops the session both in memory and in storage.
func (s *Store) Clear(ctx context.Context) error {
	s.current = Record{}
	if err := s.storage.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token returns the current bearer token, empty when logged out.
func (s *Store) Token() string {
	return s.current.Token
}

// Role returns the current role. Meaningful only while a token is set.
func (s *Store) Role() payroll.Role {
	return s.current.Role
}

// LoggedIn reports whether a token is present. No client-side expiry
// check exists; a 401 from the API is the sole invalidity signal.
func (s *Store) LoggedIn() bool {
	return s.current.Token != ""
}
