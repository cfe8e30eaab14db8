package ports

import (
	"context"
	"io"

	"github.com/bnema/tivona-cli/internal/domain"
)

// DeliberationTransport opens the streamed answer for a query. The returned
// body yields NDJSON records in arbitrary chunks; closing it releases the
// underlying connection.
type DeliberationTransport interface {
	Open(ctx context.Context, query domain.Query) (io.ReadCloser, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, request domain.ReportRequest) ([]byte, error)
}

type DocumentIngester interface {
	Ingest(ctx context.Context, request domain.IngestRequest) (string, error)
}

type PolicyAnalyzer interface {
	Analyze(ctx context.Context, policy map[string]any, provider domain.Provider) (domain.PolicyAnalysis, error)
}
