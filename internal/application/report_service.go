package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/bnema/tivona-cli/internal/ports"
)

const DefaultReportTitle = "Cloud Security RAG Report"

type ReportOptions struct {
	Title string
	URL   string
}

type ReportService struct {
	generator ports.ReportGenerator
}

func NewReportService(generator ports.ReportGenerator) *ReportService {
	return &ReportService{generator: generator}
}

// Generate requests a document for a finished session. It refuses with
// domain.ErrPrecondition until the session completed with a non-blank answer.
func (s *ReportService) Generate(ctx context.Context, snapshot domain.Snapshot, opts ReportOptions) ([]byte, error) {
	if snapshot.Status != domain.SessionCompleted || !snapshot.Result.HasAnswer() {
		return nil, domain.ErrPrecondition
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = DefaultReportTitle
	}

	document, err := s.generator.Generate(ctx, domain.ReportRequest{
		Title:    title,
		URL:      opts.URL,
		Provider: snapshot.Query.Provider,
		Query:    snapshot.Query.Text,
		Answer:   snapshot.Result.Answer,
		Sources:  snapshot.Result.Clone().Sources,
	})
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	return document, nil
}
