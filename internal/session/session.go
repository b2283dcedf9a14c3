// Package session is the single source of truth for who, if anyone, is
// logged in. Every view reads it through one accessor instead of re-deriving
// session state from storage independently.
package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck/internal/models"
	"github.com/coursedeck/coursedeck/internal/token"
)

// TokenStore is the persistence surface the session manager needs. The bbolt
// store in internal/store satisfies it.
type TokenStore interface {
	Set(token string) error
	Get() (string, bool)
	Clear() error
}

// Session is the current authentication state: Claims is nil when anonymous.
type Session struct {
	Claims *models.Claims
}

// Authenticated reports whether a user is logged in.
func (s Session) Authenticated() bool {
	return s.Claims != nil
}

// Role returns the session role, empty when anonymous.
func (s Session) Role() models.Role {
	if s.Claims == nil {
		return ""
	}
	return s.Claims.Role
}

// Manager owns the two-state machine Anonymous | Authenticated(Claims).
// Logout and Login are reachable from either state at any time; there is no
// terminal state.
type Manager struct {
	mu     sync.RWMutex
	store  TokenStore
	log    *zap.Logger
	claims *models.Claims
}

// NewManager builds a manager and runs the initial transition: a stored token
// that decodes puts the session in Authenticated; a malformed one is cleared
// so the next start begins from a clean Anonymous state.
func NewManager(store TokenStore, log *zap.Logger) *Manager {
	m := &Manager{store: store, log: log}
	m.restore()
	return m
}

// restore re-derives the session from the token store. Also used to pick up
// changes another process made to the shared store.
func (m *Manager) restore() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.claims = nil
	raw, ok := m.store.Get()
	if !ok {
		return
	}
	claims, err := token.Decode(raw)
	if err != nil {
		// Self-heal: a corrupt stored token would otherwise wedge every
		// future start in the same failed decode.
		m.log.Warn("clearing malformed stored token", zap.Error(err))
		if clearErr := m.store.Clear(); clearErr != nil {
			m.log.Warn("failed to clear token store", zap.Error(clearErr))
		}
		return
	}
	m.claims = &claims
}

// Current returns the session as of this call. Concurrent Login/Logout from
// other goroutines are ordered arbitrarily against it.
func (m *Manager) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.claims == nil {
		return Session{}
	}
	c := *m.claims
	return Session{Claims: &c}
}

// Login decodes raw and, on success, persists it and transitions to
// Authenticated. A token that fails to decode is rejected outright: the state
// does not change and nothing is written, so the store never holds a token
// the decoder cannot read back.
func (m *Manager) Login(raw string) (models.Claims, error) {
	claims, err := token.Decode(raw)
	if err != nil {
		return models.Claims{}, fmt.Errorf("login rejected: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Set(raw); err != nil {
		// Loss of persistence degrades to "logged out on next run", not a
		// failed login for this one.
		m.log.Warn("failed to persist token", zap.Error(err))
	}
	m.claims = &claims
	return claims, nil
}

// Logout clears the store and transitions to Anonymous, from any state.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.claims = nil
	if err := m.store.Clear(); err != nil {
		return fmt.Errorf("clearing token store: %w", err)
	}
	return nil
}

// SetClaims transitions directly to Authenticated for flows that already hold
// decoded claims and have written the store themselves.
func (m *Manager) SetClaims(claims models.Claims) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := claims
	m.claims = &c
}

// Token re-reads the raw bearer token from the store. Protected requests
// attach this value, not anything reconstructed from claims.
func (m *Manager) Token() (string, bool) {
	return m.store.Get()
}

// Refresh re-runs the initial restore logic against the current store
// contents. Callers use it after an external process may have changed the
// shared token file.
func (m *Manager) Refresh() {
	m.restore()
}
