package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/tivona-cli/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	configPathKey   = "config.path"
	configType      = "toml"
	envPrefix       = "TIVONA"
	configFileMode  = 0o600
	configDirMode   = 0o700
	configDir       = ".tivona"
	configFile      = "config.toml"
	tempFilePattern = ".config-*.toml.tmp"
)

// Store reads the effective settings through viper and persists explicit
// changes to the TOML file.
type Store struct {
	v    *viper.Viper
	path string
	mu   sync.Mutex
}

func NewStore(cfg *viper.Viper) (*Store, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetDefault(configPathKey, filepath.Join(homeDir, configDir, configFile))
	for key, value := range defaults() {
		cfg.SetDefault(key, value)
	}
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	path := cfg.GetString(configPathKey)
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	cfg.SetConfigFile(path)
	cfg.SetConfigType(configType)

	store := &Store{v: cfg, path: filepath.Clean(path)}
	if err := store.load(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() error {
	err := s.v.ReadInConfig()
	if err == nil {
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("read config file: %w", err)
}

// Settings returns the merged configuration, rejecting values that came in
// malformed from the file or the environment.
func (s *Store) Settings() (Settings, error) {
	provider, err := domain.ParseProvider(s.v.GetString(KeyQueryProvider))
	if err != nil {
		return Settings{}, fmt.Errorf("%s: %w", KeyQueryProvider, err)
	}

	settings := Settings{
		Backend: BackendSettings{BaseURL: strings.TrimSpace(s.v.GetString(KeyBackendBaseURL))},
		Query:   QuerySettings{Provider: provider, TopK: s.v.GetInt(KeyQueryTopK)},
		Stream: StreamSettings{
			FinalPhase: domain.PhaseName(strings.TrimSpace(s.v.GetString(KeyStreamFinalPhase))),
			ChunkSize:  s.v.GetInt(KeyStreamChunkSize),
		},
		Report: ReportSettings{Title: s.v.GetString(KeyReportTitle)},
		Render: RenderSettings{MarkdownStyle: s.v.GetString(KeyRenderMarkdownStyle)},
		Log:    LogSettings{Level: strings.ToLower(s.v.GetString(KeyLogLevel))},
	}

	if settings.Query.TopK <= 0 {
		return Settings{}, fmt.Errorf("%s must be positive", KeyQueryTopK)
	}
	if settings.Stream.ChunkSize <= 0 {
		return Settings{}, fmt.Errorf("%s must be positive", KeyStreamChunkSize)
	}
	if _, err := zapcore.ParseLevel(settings.Log.Level); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}

	return settings, nil
}

// Set validates value for key and writes it to the config file.
func (s *Store) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	if err := file.apply(key, value); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.writeSchema(file); err != nil {
		return err
	}

	return s.load()
}

func (s *Store) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read config file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode config file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}

	return file, nil
}

func (s *Store) writeSchema(file fileSchema) error {
	if err := os.MkdirAll(filepath.Dir(s.path), configDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode config file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(s.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp config file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp config file: %w", err)
	}
	if err := tempFile.Chmod(configFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp config file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp config file: %w", err)
	}

	if err := os.Rename(tempName, s.path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	cleanup = false

	return nil
}
