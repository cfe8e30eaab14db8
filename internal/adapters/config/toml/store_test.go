package toml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, path string) *Store {
	t.Helper()

	cfg := viper.New()
	cfg.Set(configPathKey, path)

	store, err := NewStore(cfg)
	require.NoError(t, err)
	return store
}

func TestStoreDefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	store := newTestStore(t, path)

	settings, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, Settings{
		Backend: BackendSettings{BaseURL: "http://127.0.0.1:8000/api"},
		Query:   QuerySettings{Provider: domain.ProviderAWS, TopK: 5},
		Stream:  StreamSettings{FinalPhase: domain.PhaseArbiter, ChunkSize: 4096},
		Report:  ReportSettings{Title: "Cloud Security RAG Report"},
		Render:  RenderSettings{MarkdownStyle: "auto"},
		Log:     LogSettings{Level: "warn"},
	}, settings)
	assert.Equal(t, path, store.Path())

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStoreSetPersistsOnlyExplicitKeys(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	store := newTestStore(t, path)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyQueryProvider, " GCP "))
	require.NoError(t, store.Set(ctx, KeyQueryTopK, "8"))
	require.NoError(t, store.Set(ctx, KeyLogLevel, "DEBUG"))

	settings, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGCP, settings.Query.Provider)
	assert.Equal(t, 8, settings.Query.TopK)
	assert.Equal(t, "debug", settings.Log.Level)

	reopened := newTestStore(t, path)
	settings, err = reopened.Settings()
	require.NoError(t, err)
	assert.Equal(t, 8, settings.Query.TopK)
	assert.Equal(t, "Cloud Security RAG Report", settings.Report.Title)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "provider = 'gcp'")
	assert.NotContains(t, string(data), "base_url")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStoreSetRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key   string
		value string
	}{
		{key: "backend.token", value: "x"},
		{key: KeyQueryProvider, value: "ibm"},
		{key: KeyQueryTopK, value: "0"},
		{key: KeyStreamChunkSize, value: "big"},
		{key: KeyLogLevel, value: "chatty"},
		{key: KeyBackendBaseURL, value: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.toml")
			store := newTestStore(t, path)

			require.Error(t, store.Set(context.Background(), tt.key, tt.value))
			_, err := os.Stat(path)
			assert.ErrorIs(t, err, os.ErrNotExist)
		})
	}

	store := newTestStore(t, filepath.Join(t.TempDir(), "config.toml"))
	require.ErrorIs(t, store.Set(context.Background(), "nope", "1"), ErrUnknownKey)
}

func TestStoreRejectsNewerSchemaVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 9\n"), 0o600))

	store := newTestStore(t, path)
	err := store.Set(context.Background(), KeyReportTitle, "Audit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config schema version 9")
}

func TestStoreSettingsRejectsMalformedFileValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 1\n[query]\nprovider = 'ibm'\n"), 0o600))

	store := newTestStore(t, path)
	_, err := store.Settings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), KeyQueryProvider)
}

func TestStoreRejectsUnparseableFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[query\n"), 0o600))

	cfg := viper.New()
	cfg.Set(configPathKey, path)
	_, err := NewStore(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestStoreEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 1\n[query]\ntop_k = 3\n"), 0o600))
	t.Setenv("TIVONA_QUERY_TOP_K", "11")
	t.Setenv("TIVONA_BACKEND_BASE_URL", "https://rag.example.test/api")

	store := newTestStore(t, path)
	settings, err := store.Settings()
	require.NoError(t, err)
	assert.Equal(t, 11, settings.Query.TopK)
	assert.Equal(t, "https://rag.example.test/api", settings.Backend.BaseURL)
}

func TestKeysAreAllSettable(t *testing.T) {
	t.Parallel()

	values := map[string]string{
		KeyBackendBaseURL:      "http://localhost:9000/api",
		KeyQueryProvider:       "azure",
		KeyQueryTopK:           "4",
		KeyStreamFinalPhase:    "Judge",
		KeyStreamChunkSize:     "128",
		KeyReportTitle:         "Audit",
		KeyRenderMarkdownStyle: "dark",
		KeyLogLevel:            "info",
	}

	var file fileSchema
	for _, key := range Keys() {
		value, ok := values[key]
		require.True(t, ok, key)
		require.NoError(t, file.apply(key, value), key)
	}
	assert.Len(t, values, len(Keys()))
	assert.Equal(t, "Judge", file.Stream.FinalPhase)
}
