package toml

import "fmt"

const currentSchemaVersion = 1

// fileSchema is what `config set` persists. Only keys the user set are
// written; everything else falls back to defaults or the environment.
type fileSchema struct {
	Version int           `toml:"version"`
	Backend backendSchema `toml:"backend,omitempty"`
	Query   querySchema   `toml:"query,omitempty"`
	Stream  streamSchema  `toml:"stream,omitempty"`
	Report  reportSchema  `toml:"report,omitempty"`
	Render  renderSchema  `toml:"render,omitempty"`
	Log     logSchema     `toml:"log,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type backendSchema struct {
	BaseURL string `toml:"base_url,omitempty"`
}

type querySchema struct {
	Provider string `toml:"provider,omitempty"`
	TopK     *int   `toml:"top_k,omitempty"`
}

type streamSchema struct {
	FinalPhase string `toml:"final_phase,omitempty"`
	ChunkSize  *int   `toml:"chunk_size,omitempty"`
}

type reportSchema struct {
	Title string `toml:"title,omitempty"`
}

type renderSchema struct {
	MarkdownStyle string `toml:"markdown_style,omitempty"`
}

type logSchema struct {
	Level string `toml:"level,omitempty"`
}
