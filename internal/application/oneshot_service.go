package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/bnema/tivona-cli/internal/ports"
)

var (
	ErrIngestFieldsRequired = errors.New("title, url, provider are required")
	ErrPolicyRequired       = errors.New("policy JSON is required")
	ErrPolicyNotObject      = errors.New("policy must be a JSON object")
)

// OneShotService wraps the single request/response backend calls.
type OneShotService struct {
	ingester ports.DocumentIngester
	analyzer ports.PolicyAnalyzer
}

func NewOneShotService(ingester ports.DocumentIngester, analyzer ports.PolicyAnalyzer) *OneShotService {
	return &OneShotService{ingester: ingester, analyzer: analyzer}
}

func (s *OneShotService) Ingest(ctx context.Context, request domain.IngestRequest) (string, error) {
	request.Title = strings.TrimSpace(request.Title)
	request.URL = strings.TrimSpace(request.URL)
	request.Version = strings.TrimSpace(request.Version)
	if request.Title == "" || request.URL == "" || request.Provider == "" {
		return "", ErrIngestFieldsRequired
	}

	message, err := s.ingester.Ingest(ctx, request)
	if err != nil {
		return "", fmt.Errorf("ingest document: %w", err)
	}

	return message, nil
}

// AnalyzePolicy parses raw as a JSON object before sending it, so a syntax
// error never reaches the backend.
func (s *OneShotService) AnalyzePolicy(ctx context.Context, raw []byte, provider domain.Provider) (domain.PolicyAnalysis, error) {
	if strings.TrimSpace(string(raw)) == "" {
		return domain.PolicyAnalysis{}, ErrPolicyRequired
	}

	var policy map[string]any
	if err := json.Unmarshal(raw, &policy); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return domain.PolicyAnalysis{}, ErrPolicyNotObject
		}
		return domain.PolicyAnalysis{}, fmt.Errorf("invalid JSON policy: %w", err)
	}
	if len(policy) == 0 {
		return domain.PolicyAnalysis{}, ErrPolicyRequired
	}

	if provider == "" {
		provider = domain.ProviderAWS
	}

	analysis, err := s.analyzer.Analyze(ctx, policy, provider)
	if err != nil {
		return domain.PolicyAnalysis{}, fmt.Errorf("analyze policy: %w", err)
	}

	return analysis, nil
}
