package users

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/avolkovs/sessionkeeper/internal/client/cache"
	"github.com/avolkovs/sessionkeeper/internal/client/models"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

// memStore is an in-memory kvstore.Store.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string][]byte)
	return nil
}

// fakeRemote implements api.Client, counting profile calls.
type fakeRemote struct {
	GetRet    *models.User
	GetErr    error
	UpdateErr error
	DeleteErr error

	GetCalls    int
	UpdateCalls int
	DeleteCalls int
}

func (f *fakeRemote) Close() error { return nil }

func (f *fakeRemote) Register(ctx context.Context, username, password, displayName, email string) error {
	return nil
}

func (f *fakeRemote) Login(ctx context.Context, username, password string) (models.Credential, error) {
	return models.Credential{}, nil
}

func (f *fakeRemote) Refresh(ctx context.Context, refreshToken string) (models.Credential, error) {
	return models.Credential{}, nil
}

func (f *fakeRemote) Logout(ctx context.Context) error { return nil }

func (f *fakeRemote) GetProfile(ctx context.Context) (*models.User, error) {
	f.GetCalls++
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	u := *f.GetRet
	return &u, nil
}

func (f *fakeRemote) UpdateProfile(ctx context.Context, user *models.User) (*models.User, error) {
	f.UpdateCalls++
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	u := *user
	return &u, nil
}

func (f *fakeRemote) DeleteProfile(ctx context.Context) error {
	f.DeleteCalls++
	return f.DeleteErr
}

func (f *fakeRemote) Ping(ctx context.Context) error { return nil }

// ---- tests ----

var bob = &models.User{ID: "u1", Username: "bob", DisplayName: "Bob", Email: "bob@example.com"}

func TestReadInsideWindowSkipsRemote(t *testing.T) {
	remote := &fakeRemote{GetRet: bob}
	repo := NewCachedRepository(remote, cache.New(newMemStore()), time.Minute)
	ctx := context.Background()

	first, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, bob, first)
	require.Equal(t, 1, remote.GetCalls)

	// Second read is served from cache: no further remote calls.
	second, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, bob, second)
	require.Equal(t, 1, remote.GetCalls)
}

func TestReadOutsideWindowRefetchesOnce(t *testing.T) {
	remote := &fakeRemote{GetRet: bob}
	repo := NewCachedRepository(remote, cache.New(newMemStore()), 20*time.Millisecond)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, remote.GetCalls)

	time.Sleep(30 * time.Millisecond)

	// Expired entry: exactly one more remote call, entry rewritten.
	_, err = repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, remote.GetCalls)

	// The rewrite restarted the expiry window.
	_, err = repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, remote.GetCalls)
}

func TestRemoteErrorPropagatesWithoutCaching(t *testing.T) {
	remote := &fakeRemote{GetErr: context.DeadlineExceeded}
	repo := NewCachedRepository(remote, cache.New(newMemStore()), time.Minute)

	_, err := repo.Get(context.Background())
	require.Error(t, err)

	remote.GetErr = nil
	remote.GetRet = bob

	// Nothing was cached by the failed read.
	_, err = repo.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, remote.GetCalls)
}

func TestUpdateWritesThrough(t *testing.T) {
	remote := &fakeRemote{GetRet: bob}
	repo := NewCachedRepository(remote, cache.New(newMemStore()), time.Minute)
	ctx := context.Background()

	changed := *bob
	changed.DisplayName = "Bobby"

	updated, err := repo.Update(ctx, &changed)
	require.NoError(t, err)
	require.Equal(t, "Bobby", updated.DisplayName)
	require.Equal(t, 1, remote.UpdateCalls)

	// The cached entry now reflects the update; no remote read happens.
	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "Bobby", got.DisplayName)
	require.Zero(t, remote.GetCalls)
}

func TestFailedUpdateLeavesCacheUntouched(t *testing.T) {
	remote := &fakeRemote{GetRet: bob, UpdateErr: context.DeadlineExceeded}
	repo := NewCachedRepository(remote, cache.New(newMemStore()), time.Minute)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	require.NoError(t, err)

	changed := *bob
	changed.DisplayName = "Bobby"
	_, err = repo.Update(ctx, &changed)
	require.Error(t, err)

	// The cache still serves the pre-update view.
	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "Bob", got.DisplayName)
}

func TestDeleteInvalidatesCache(t *testing.T) {
	remote := &fakeRemote{GetRet: bob}
	repo := NewCachedRepository(remote, cache.New(newMemStore()), time.Minute)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx))
	require.Equal(t, 1, remote.DeleteCalls)

	// Next read goes remote again.
	_, err = repo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, remote.GetCalls)
}

func TestZeroTTLFallsBackToDefault(t *testing.T) {
	repo := NewCachedRepository(&fakeRemote{GetRet: bob}, cache.New(newMemStore()), 0)
	require.Equal(t, DefaultCacheTTL, repo.ttl)
}
