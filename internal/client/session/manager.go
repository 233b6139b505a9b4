// Package session owns the authentication lifecycle on the client: it keeps
// the current credential pair in memory, persists it to the local key-value
// store, and notifies subscribers when the session state changes so
// navigation logic can react.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/avolkovs/sessionkeeper/internal/client/api"
	"github.com/avolkovs/sessionkeeper/internal/client/models"
	"github.com/avolkovs/sessionkeeper/internal/client/repositories/kvstore"
	"github.com/avolkovs/sessionkeeper/internal/logging"
)

// StorageKey is the fixed key holding the serialized credential blob.
// Presence of the key means "authorized", absence means "unauthorized".
const StorageKey = "session"

// State is the session state broadcast to subscribers.
type State int

const (
	StateUnknown State = iota
	StateLoading
	StateAuthorized
	StateUnauthorized
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthorized:
		return "authorized"
	case StateUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Observer receives session state transitions in emission order.
type Observer func(State)

// Manager coordinates login, logout, credential persistence and state
// notification. It also serves as the credential sink for the transport's
// refresh flow via the hooks it installs on the API client.
type Manager struct {
	client api.Client
	store  kvstore.Store
	logger logging.Logger

	// notifyMu serializes state emissions so subscribers observe
	// transitions in emission order.
	notifyMu sync.Mutex

	mu        sync.Mutex
	creds     models.Credential
	state     State
	observers map[int]Observer
	nextID    int
}

// CredentialSetter is the slice of the HTTP client the manager needs to keep
// the transport's in-memory pair in sync with the persisted one.
type CredentialSetter interface {
	SetCredential(models.Credential)
	ClearCredential()
	SetHooks(onRefreshed func(models.Credential), onUnauthorized func())
}

// NewManager wires a Manager to the API client and local store. When the
// client also implements CredentialSetter (the real HTTP client does), the
// manager installs itself as the refresh hook target.
func NewManager(client api.Client, store kvstore.Store, logger logging.Logger) *Manager {
	m := &Manager{
		client:    client,
		store:     store,
		logger:    logger.With("module", "session"),
		state:     StateUnknown,
		observers: make(map[int]Observer),
	}
	if setter, ok := client.(CredentialSetter); ok {
		setter.SetHooks(m.credentialRefreshed, m.sessionExpired)
	}
	return m
}

// Subscribe registers an observer and returns an unsubscribe func. Observers
// are called synchronously, in emission order, under the dispatch lock.
func (m *Manager) Subscribe(fn Observer) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.observers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.observers, id)
	}
}

// Current returns a copy of the in-memory credential pair; ok is false when
// the session is not authorized.
func (m *Manager) Current() (models.Credential, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds, !m.creds.IsZero()
}

// State returns the last published session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Restore loads a previously persisted credential blob, if any, and
// publishes the corresponding state. Intended to run once at startup.
func (m *Manager) Restore(ctx context.Context) error {
	data, err := m.store.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if data == nil {
		m.setState(StateUnauthorized, models.Credential{})
		return nil
	}

	var creds models.Credential
	if err := json.Unmarshal(data, &creds); err != nil {
		// A corrupt blob is equivalent to no session.
		m.logger.Warn(ctx, "discarding unreadable session blob", "error", err)
		_ = m.store.Delete(ctx, StorageKey)
		m.setState(StateUnauthorized, models.Credential{})
		return nil
	}

	if setter, ok := m.client.(CredentialSetter); ok {
		setter.SetCredential(creds)
	}
	m.setState(StateAuthorized, creds)
	return nil
}

// Login authenticates against the backend and persists the returned pair.
// On failure the previous state is restored and the typed error propagated.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	prevState := m.State()
	prevCreds, _ := m.Current()
	m.setState(StateLoading, models.Credential{})

	creds, err := m.client.Login(ctx, username, password)
	if err != nil {
		m.setState(prevState, prevCreds)
		return err
	}

	if err := m.persist(ctx, creds); err != nil {
		m.setState(prevState, prevCreds)
		return err
	}
	m.setState(StateAuthorized, creds)
	return nil
}

// Logout clears the session. The remote call is best-effort: its error is
// logged and ignored, the local credential is removed either way.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.client.Logout(ctx); err != nil {
		m.logger.Warn(ctx, "remote logout failed", "error", err)
	}

	if err := m.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if setter, ok := m.client.(CredentialSetter); ok {
		setter.ClearCredential()
	}
	m.setState(StateUnauthorized, models.Credential{})
	return nil
}

// credentialRefreshed re-persists the pair swapped in by the transport's
// refresh flow. Runs on the request goroutine; persistence failure is logged
// only, the refreshed session stays usable in memory.
func (m *Manager) credentialRefreshed(creds models.Credential) {
	ctx := context.Background()
	if err := m.persist(ctx, creds); err != nil {
		m.logger.Error(ctx, "failed to persist refreshed credential", "error", err)
	}
	m.mu.Lock()
	m.creds = creds
	m.mu.Unlock()
}

// sessionExpired handles a failed refresh: the stored credential is dropped
// and subscribers observe the unauthorized transition.
func (m *Manager) sessionExpired() {
	ctx := context.Background()
	if err := m.store.Delete(ctx, StorageKey); err != nil {
		m.logger.Error(ctx, "failed to clear expired session", "error", err)
	}
	m.setState(StateUnauthorized, models.Credential{})
}

func (m *Manager) persist(ctx context.Context, creds models.Credential) error {
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// setState updates state and credential together and dispatches to the
// observers registered at emission time.
func (m *Manager) setState(state State, creds models.Credential) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	m.state = state
	m.creds = creds
	observers := make([]Observer, 0, len(m.observers))
	for _, fn := range m.observers {
		observers = append(observers, fn)
	}
	m.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}
