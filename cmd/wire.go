package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bnema/tivona-cli/internal/adapters/backend"
	configstore "github.com/bnema/tivona-cli/internal/adapters/config/toml"
	"github.com/bnema/tivona-cli/internal/adapters/render/deliberation"
	chainstore "github.com/bnema/tivona-cli/internal/adapters/secrets/chain"
	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/bnema/tivona-cli/internal/logging"
	"github.com/bnema/tivona-cli/internal/ports"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	config      *configstore.Store
	secretStore ports.SecretStore
	httpClient  *http.Client
	logger      *zap.Logger
	renderer    func(domain.Snapshot, deliberation.RenderOptions) (string, error)
	live        func(context.Context, io.Writer, <-chan domain.Snapshot) (domain.Snapshot, error)
	interactive func(io.Writer) bool
}

func wireApp() (*app, error) {
	store, err := configstore.NewStore(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire config store: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(filepath.Join(homeDir, ".tivona", "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return &app{
		config:      store,
		secretStore: secretStore,
		httpClient:  http.DefaultClient,
		logger:      zap.NewNop(),
		renderer:    deliberation.Render,
		live:        deliberation.RunLive,
		interactive: isTerminal,
	}, nil
}

// initLogger builds the logger from log.level. A broken config must not
// block `config set`, so settings errors fall back to the default level.
func (a *app) initLogger(w io.Writer, verbose bool) error {
	level := logging.DefaultLevel
	if settings, err := a.config.Settings(); err == nil {
		level = settings.Log.Level
	}

	logger, err := logging.New(logging.Options{Level: level, Verbose: verbose, Output: w})
	if err != nil {
		return err
	}
	a.logger = logger

	return nil
}

func (a *app) syncLogger() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) backendClient(settings configstore.Settings) (*backend.Client, error) {
	client, err := backend.NewClient(backend.Config{
		BaseURL:    settings.Backend.BaseURL,
		HTTPClient: a.httpClient,
		Secrets:    a.secretStore,
		Logger:     a.logger.Named("backend"),
	})
	if err != nil {
		return nil, fmt.Errorf("wire backend client: %w", err)
	}
	return client, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
