package toml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/tivona-cli/internal/domain"
	"go.uber.org/zap/zapcore"
)

const (
	KeyBackendBaseURL      = "backend.base_url"
	KeyQueryProvider       = "query.provider"
	KeyQueryTopK           = "query.top_k"
	KeyStreamFinalPhase    = "stream.final_phase"
	KeyStreamChunkSize     = "stream.chunk_size"
	KeyReportTitle         = "report.title"
	KeyRenderMarkdownStyle = "render.markdown_style"
	KeyLogLevel            = "log.level"
)

var ErrUnknownKey = errors.New("unknown config key")

// Settings is the effective configuration after defaults, file and
// environment have been merged.
type Settings struct {
	Backend BackendSettings `toml:"backend" json:"backend" yaml:"backend"`
	Query   QuerySettings   `toml:"query" json:"query" yaml:"query"`
	Stream  StreamSettings  `toml:"stream" json:"stream" yaml:"stream"`
	Report  ReportSettings  `toml:"report" json:"report" yaml:"report"`
	Render  RenderSettings  `toml:"render" json:"render" yaml:"render"`
	Log     LogSettings     `toml:"log" json:"log" yaml:"log"`
}

type BackendSettings struct {
	BaseURL string `toml:"base_url" json:"base_url" yaml:"base_url"`
}

type QuerySettings struct {
	Provider domain.Provider `toml:"provider" json:"provider" yaml:"provider"`
	TopK     int             `toml:"top_k" json:"top_k" yaml:"top_k"`
}

type StreamSettings struct {
	FinalPhase domain.PhaseName `toml:"final_phase" json:"final_phase" yaml:"final_phase"`
	ChunkSize  int              `toml:"chunk_size" json:"chunk_size" yaml:"chunk_size"`
}

type ReportSettings struct {
	Title string `toml:"title" json:"title" yaml:"title"`
}

type RenderSettings struct {
	MarkdownStyle string `toml:"markdown_style" json:"markdown_style" yaml:"markdown_style"`
}

type LogSettings struct {
	Level string `toml:"level" json:"level" yaml:"level"`
}

// Keys lists every settable key in display order.
func Keys() []string {
	return []string{
		KeyBackendBaseURL,
		KeyQueryProvider,
		KeyQueryTopK,
		KeyStreamFinalPhase,
		KeyStreamChunkSize,
		KeyReportTitle,
		KeyRenderMarkdownStyle,
		KeyLogLevel,
	}
}

func defaults() map[string]any {
	return map[string]any{
		KeyBackendBaseURL:      "http://127.0.0.1:8000/api",
		KeyQueryProvider:       string(domain.ProviderAWS),
		KeyQueryTopK:           domain.DefaultTopK,
		KeyStreamFinalPhase:    string(domain.DefaultFinalPhase),
		KeyStreamChunkSize:     4096,
		KeyReportTitle:         "Cloud Security RAG Report",
		KeyRenderMarkdownStyle: "auto",
		KeyLogLevel:            "warn",
	}
}

// apply validates raw for key and stores it in file.
func (s *fileSchema) apply(key string, raw string) error {
	value := strings.TrimSpace(raw)

	switch key {
	case KeyBackendBaseURL:
		if value == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		s.Backend.BaseURL = value
	case KeyQueryProvider:
		provider, err := domain.ParseProvider(value)
		if err != nil {
			return err
		}
		s.Query.Provider = string(provider)
	case KeyQueryTopK:
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		s.Query.TopK = &n
	case KeyStreamFinalPhase:
		if value == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		s.Stream.FinalPhase = value
	case KeyStreamChunkSize:
		n, err := parsePositive(key, value)
		if err != nil {
			return err
		}
		s.Stream.ChunkSize = &n
	case KeyReportTitle:
		s.Report.Title = value
	case KeyRenderMarkdownStyle:
		if value == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		s.Render.MarkdownStyle = value
	case KeyLogLevel:
		if _, err := zapcore.ParseLevel(value); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		s.Log.Level = strings.ToLower(value)
	default:
		return fmt.Errorf("%w %q", ErrUnknownKey, key)
	}

	return nil
}

func parsePositive(key string, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return n, nil
}
