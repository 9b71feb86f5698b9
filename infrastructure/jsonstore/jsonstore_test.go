package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prasetyowira/qrsite/constant"
	"github.com/prasetyowira/qrsite/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, tokenOverride string) (*settings.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	return settings.NewStore(NewFileBackend(path), tokenOverride), path
}

func TestRead_MissingFile(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "absent.json"))

	doc, exists, err := b.Read(context.Background())

	assert.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, doc)
}

func TestRead_NotAnObject(t *testing.T) {
	for _, content := range []string{`[1, 2, 3]`, `"text"`, `{broken`, ``, `{"admin_token": "abc", "qr_mode": "target_url"} garbage`, `{"a": 1}{"b": 2}`} {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		doc, exists, err := NewFileBackend(path).Read(context.Background())

		assert.NoError(t, err, content)
		assert.True(t, exists, content)
		assert.Empty(t, doc, content)
	}
}

func TestStoreLoad_CreatesFileWithDefaults(t *testing.T) {
	store, path := newTestStore(t, "")

	cfg, err := store.Load(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
	assert.Contains(t, string(data), `"info_body": "Buraya bilgilerinizi yazın."`)
	assert.Contains(t, string(data), `"admin_token": "`+cfg.AdminToken()+`"`)
	assert.Contains(t, string(data), "\n  \"qr_mode\": \"info_page\"")
}

func TestStoreLoad_MergesMissingKeysAndKeepsExtras(t *testing.T) {
	store, path := newTestStore(t, "")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{
  "qr_mode": "target_url",
  "target_url": "https://x.test/?a=1",
  "admin_token": "abc",
  "theme": "dark",
  "limit": 10
}
`), 0o644))

	cfg, err := store.Load(context.Background())
	require.NoError(t, err)

	for k := range settings.Defaults() {
		assert.Contains(t, cfg, k)
	}
	assert.Equal(t, constant.ModeTargetURL, cfg.Mode())
	assert.Equal(t, "https://x.test/?a=1", cfg.TargetURL())
	assert.Equal(t, "abc", cfg.AdminToken())
	assert.Equal(t, "dark", cfg["theme"])
	assert.Equal(t, "10", cfg.String("limit"))
	assert.Equal(t, constant.DefaultInfoTitle, cfg.InfoTitle())
}

func TestStoreLoad_MalformedFileFallsBackToDefaults(t *testing.T) {
	store, path := newTestStore(t, "")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`["not", "an", "object"]`), 0o644))

	cfg, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, constant.ModeInfoPage, cfg.Mode())
	assert.NotEmpty(t, cfg.AdminToken())

	// the generated token is written back over the malformed content
	reloaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.AdminToken(), reloaded.AdminToken())
}

func TestStore_SaveLoadRoundTripIsByteStable(t *testing.T) {
	store, path := newTestStore(t, "")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"admin_token":"abc","zeta":1.50,"alpha":{"nested":true}}`), 0o644))

	ctx := context.Background()
	cfg, err := store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, cfg))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	cfg, err = store.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, cfg))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Contains(t, string(first), `"zeta": 1.50`)
}

func TestStoreLoad_EnvOverrideNotPersistedForExistingFile(t *testing.T) {
	store, path := newTestStore(t, "env-token")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"admin_token":"stored"}`), 0o644))

	cfg, err := store.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.AdminToken())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"admin_token":"stored"}`, string(data))
}

func TestWrite_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBackend(filepath.Join(dir, "config.json"))

	require.NoError(t, b.Write(context.Background(), settings.Defaults()))
	require.NoError(t, b.Write(context.Background(), settings.Defaults()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, "config.json", entries[0].Name())
}

func TestWrite_ParentIsAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := NewFileBackend(filepath.Join(blocker, "config.json")).Write(context.Background(), settings.Defaults())

	assert.Error(t, err)
}

func TestEncode_NoHTMLEscaping(t *testing.T) {
	data, err := Encode(settings.Settings{"target_url": "https://x.test/?a=1&b=<2>"})
	require.NoError(t, err)

	assert.Equal(t, "{\n  \"target_url\": \"https://x.test/?a=1&b=<2>\"\n}\n", string(data))
}
