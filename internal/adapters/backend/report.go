package backend

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/tivona-cli/internal/domain"
)

const reportPath = "doc_download/"

// Generate asks the backend to render a DOCX report and returns its bytes.
func (c *Client) Generate(ctx context.Context, request domain.ReportRequest) ([]byte, error) {
	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	if request.Sources == nil {
		request.Sources = []domain.Source{}
	}

	req, err := c.newJSONRequest(requestCtx, reportPath, request)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	document, err := io.ReadAll(io.LimitReader(resp.Body, maxReportBytes+1))
	if err != nil {
		return nil, &domain.TransportError{Err: fmt.Errorf("read report: %w", err)}
	}
	if len(document) > maxReportBytes {
		return nil, fmt.Errorf("report exceeds %d bytes", maxReportBytes)
	}

	return document, nil
}
