package session

import (
	"errors"
	"sync"
)

// Credential is the persisted session state: the token pair plus the
// identity fields shown in the UI. It is overwritten wholesale on login
// and refresh and cleared on logout or failed refresh.
type Credential struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	Email        string   `json:"email"`
	Username     string   `json:"username"`
	Roles        []string `json:"roles"`
}

// HasRole reports whether the credential carries the given role.
func (c *Credential) HasRole(role string) bool {
	if c == nil {
		return false
	}
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Store persists the authenticated session. Load returns (nil, nil) when no
// valid session exists; a corrupt partial session is purged and reported as
// "no session" rather than returned. Storage unavailability is a hard error
// surfaced to the caller.
type Store interface {
	Load() (*Credential, error)
	Save(cred *Credential) error
	Clear() error
}

var errNilCredential = errors.New("session: cannot save nil credential")

// MemoryStore is an in-process Store. It backs tests and short-lived
// embeddings of the client where persistence across runs is not wanted.
type MemoryStore struct {
	mu   sync.Mutex
	cred *Credential
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil || s.cred.AccessToken == "" || s.cred.RefreshToken == "" {
		s.cred = nil
		return nil, nil
	}
	cp := *s.cred
	return &cp, nil
}

func (s *MemoryStore) Save(cred *Credential) error {
	if cred == nil {
		return errNilCredential
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *cred
	s.cred = &cp
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}
