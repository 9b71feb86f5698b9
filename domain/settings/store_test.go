package settings

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prasetyowira/qrsite/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBackend implements Backend for testing
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Read(ctx context.Context) (map[string]interface{}, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(map[string]interface{}), args.Bool(1), args.Error(2)
}

func (m *MockBackend) Write(ctx context.Context, s Settings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// memBackend keeps the last written document in memory.
type memBackend struct {
	mu     sync.Mutex
	doc    map[string]interface{}
	writes int
}

func (b *memBackend) Read(ctx context.Context) (map[string]interface{}, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.doc == nil {
		return nil, false, nil
	}
	return Settings(b.doc).Clone(), true, nil
}

func (b *memBackend) Write(ctx context.Context, s Settings) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc = s.Clone()
	b.writes++
	return nil
}

func TestStoreLoad_MissingGeneratesTokenAndPersists(t *testing.T) {
	backend := new(MockBackend)
	store := NewStore(backend, "")

	backend.On("Read", mock.Anything).Return(nil, false, nil)
	backend.On("Write", mock.Anything, mock.MatchedBy(func(s Settings) bool {
		return len(s.AdminToken()) == 24 && s.Mode() == constant.ModeInfoPage
	})).Return(nil).Once()

	cfg, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Len(t, cfg.AdminToken(), 24)
	backend.AssertExpectations(t)
}

func TestStoreLoad_MissingWithOverridePersistsOverride(t *testing.T) {
	backend := &memBackend{}
	store := NewStore(backend, "env-token")

	cfg, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.AdminToken())
	assert.Equal(t, "env-token", backend.doc[constant.KeyAdminToken])
}

func TestStoreLoad_OverrideWinsWithoutWrite(t *testing.T) {
	backend := new(MockBackend)
	store := NewStore(backend, "env-token")

	backend.On("Read", mock.Anything).Return(map[string]interface{}{
		constant.KeyAdminToken: "stored",
	}, true, nil)

	cfg, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.AdminToken())
	backend.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestStoreLoad_EmptyStoredTokenRegenerated(t *testing.T) {
	backend := &memBackend{doc: map[string]interface{}{
		constant.KeyAdminToken: "",
		"extra":                "x",
	}}
	store := NewStore(backend, "")

	cfg, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, cfg.AdminToken())
	assert.Equal(t, cfg.AdminToken(), backend.doc[constant.KeyAdminToken])
	assert.Equal(t, "x", backend.doc["extra"])
	assert.Equal(t, 1, backend.writes)
}

func TestStoreLoad_MalformedTreatedAsEmpty(t *testing.T) {
	mb := new(MockBackend)
	store := NewStore(mb, "tok")
	mb.On("Read", mock.Anything).Return(nil, true, nil)

	cfg, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.AdminToken())
	assert.Equal(t, constant.DefaultInfoTitle, cfg.InfoTitle())
	mb.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestStoreLoad_ReadError(t *testing.T) {
	backend := new(MockBackend)
	store := NewStore(backend, "")
	backend.On("Read", mock.Anything).Return(nil, false, errors.New("permission denied"))

	cfg, err := store.Load(context.Background())

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestStoreLoad_WriteErrorPropagates(t *testing.T) {
	backend := new(MockBackend)
	store := NewStore(backend, "")
	backend.On("Read", mock.Anything).Return(nil, false, nil)
	backend.On("Write", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := store.Load(context.Background())

	assert.ErrorContains(t, err, "disk full")
}

func TestStoreLoad_TokenGeneratorError(t *testing.T) {
	backend := &memBackend{}
	store := NewStore(backend, "")
	store.newToken = func() (string, error) { return "", errors.New("no entropy") }

	_, err := store.Load(context.Background())

	assert.ErrorContains(t, err, "no entropy")
	assert.Equal(t, 0, backend.writes)
}

func TestStoreUpdate(t *testing.T) {
	backend := &memBackend{doc: map[string]interface{}{constant.KeyAdminToken: "abc"}}
	store := NewStore(backend, "")

	cfg, err := store.Update(context.Background(), func(s Settings) {
		s[constant.KeyQRMode] = constant.ModeTargetURL
	})

	require.NoError(t, err)
	assert.Equal(t, constant.ModeTargetURL, cfg.Mode())
	assert.Equal(t, constant.ModeTargetURL, backend.doc[constant.KeyQRMode])
	assert.Equal(t, "abc", backend.doc[constant.KeyAdminToken])
}

func TestStoreUpdate_Concurrent(t *testing.T) {
	backend := &memBackend{doc: map[string]interface{}{constant.KeyAdminToken: "abc", "n": 0}}
	store := NewStore(backend, "")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(context.Background(), func(s Settings) {
				s["n"] = s["n"].(int) + 1
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, backend.doc["n"])
}
