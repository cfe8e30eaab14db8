package domain

import (
	"fmt"
	"strings"
)

type Provider string

const (
	ProviderAWS   Provider = "aws"
	ProviderAzure Provider = "azure"
	ProviderGCP   Provider = "gcp"

	DefaultTopK = 5
)

type Query struct {
	Text     string   `json:"query" yaml:"query"`
	Provider Provider `json:"provider,omitempty" yaml:"provider,omitempty"`
	TopK     int      `json:"top_k" yaml:"top_k"`
}

func (q Query) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrInvalidQuery
	}
	if q.TopK < 0 {
		return fmt.Errorf("top_k must not be negative, got %d", q.TopK)
	}

	return nil
}

func ParseProvider(raw string) (Provider, error) {
	provider := Provider(strings.ToLower(strings.TrimSpace(raw)))
	switch provider {
	case ProviderAWS, ProviderAzure, ProviderGCP:
		return provider, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("unsupported provider %q", raw)
	}
}
