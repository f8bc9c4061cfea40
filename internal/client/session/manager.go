// Package session holds the client's signed-in state: an in-memory view for
// access decisions plus a durable single-row store so a restart resumes the
// previous session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fawkesdbs/roadguard/internal/domain"
)

var (
	// ErrSessionLoading means Hydrate has not completed yet; access
	// decisions taken before then would race the stored state.
	ErrSessionLoading = errors.New("session state is still loading")

	// ErrNotAuthenticated means there is no signed-in session.
	ErrNotAuthenticated = errors.New("not signed in")
)

// Manager is the client's session context. It is constructed explicitly and
// passed to whoever needs it; there is no package-level instance. All methods
// are safe for concurrent use.
type Manager struct {
	store Store

	mu      sync.RWMutex
	loading bool
	state   *State
}

func NewManager(store Store) *Manager {
	return &Manager{store: store, loading: true}
}

// Hydrate loads the persisted session into memory. Loading reports true until
// the first call completes, whether or not it succeeds; a failed hydration
// leaves the manager unauthenticated rather than stuck loading.
func (m *Manager) Hydrate(ctx context.Context) error {
	state, err := m.store.Load(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.state = nil
		return fmt.Errorf("hydrate session: %w", err)
	}
	m.state = state
	return nil
}

// Login records a new session, writing the durable copy before the in-memory
// one so the two never diverge: a failed write leaves both untouched.
func (m *Manager) Login(ctx context.Context, token string, user *domain.Profile) error {
	state := &State{Token: token, User: user}
	if err := m.store.Save(ctx, state); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	m.state = state
	return nil
}

// Logout clears both copies synchronously. If the durable clear fails the
// in-memory session is kept, so the caller can retry.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
	return nil
}

// Loading reports whether the first hydration is still outstanding.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.loading && m.state != nil && m.state.Token != ""
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return ""
	}
	return m.state.Token
}

func (m *Manager) User() *domain.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return nil
	}
	return m.state.User
}

// Require is the route-guard decision: nil only for a settled, authenticated
// session. While loading it refuses rather than guessing either way.
func (m *Manager) Require() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.loading {
		return ErrSessionLoading
	}
	if m.state == nil || m.state.Token == "" {
		return ErrNotAuthenticated
	}
	return nil
}
