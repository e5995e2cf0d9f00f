// Package session owns the per-device login state: the derivation worker,
// the derived secrets, and the unwrapped master key. Keys live only in
// memory and only for the lifetime of the session; nothing here persists
// anything.
package session

import (
	"context"
	"sync"

	"github.com/splitvault/splitvault/internal/cryptox"
)

// Session is a single logical login session. The derivation worker is
// created lazily on the first Derive call and reused across calls, then
// torn down with the session itself.
type Session struct {
	params cryptox.Argon2Params

	mu        sync.Mutex
	worker    *deriveWorker
	closed    bool
	userID    int64
	username  string
	secrets   *cryptox.DerivedSecrets
	masterKey cryptox.Key
}

func New(params cryptox.Argon2Params) *Session {
	return &Session{params: params}
}

// Derive runs the password hashing chain on the session's worker. The
// result is returned to the caller but not retained; call Login to adopt
// it into the session state.
func (s *Session) Derive(ctx context.Context, username string, password []byte) (*cryptox.DerivedSecrets, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.worker == nil {
		s.worker = newDeriveWorker(s.params)
	}
	w := s.worker
	s.mu.Unlock()

	return w.derive(ctx, username, password)
}

// Login adopts the authenticated identity and key material.
func (s *Session) Login(userID int64, username string, secrets *cryptox.DerivedSecrets, masterKey cryptox.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.username = username
	s.secrets = secrets
	s.masterKey = masterKey
}

// Logout drops the key material but keeps the worker alive for the next
// login, amortizing its startup cost across the session.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = 0
	s.username = ""
	s.secrets = nil
	s.masterKey = cryptox.Key{}
}

func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secrets != nil
}

func (s *Session) UserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// MasterKey returns the session's unwrapped master key, or the zero handle
// when not logged in (downstream pipelines refuse the zero handle).
func (s *Session) MasterKey() cryptox.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.masterKey
}

func (s *Session) PasswordKey() cryptox.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.secrets == nil {
		return cryptox.Key{}
	}
	return s.secrets.PasswordKey
}

// Close tears the session down: key material is dropped and the worker
// stopped. In-flight derivations return ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.userID = 0
	s.username = ""
	s.secrets = nil
	s.masterKey = cryptox.Key{}
	if s.worker != nil {
		s.worker.close()
		s.worker = nil
	}
}
