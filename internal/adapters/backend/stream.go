package backend

import (
	"context"
	"io"

	"github.com/bnema/tivona-cli/internal/domain"
	"go.uber.org/zap"
)

const streamPath = "rag/stream/"

type streamRequest struct {
	Query    string          `json:"query"`
	Provider domain.Provider `json:"provider,omitempty"`
	TopK     int             `json:"top_k"`
}

// Open starts the streamed deliberation for query. No request timeout is
// applied; the stream lives as long as ctx.
func (c *Client) Open(ctx context.Context, query domain.Query) (io.ReadCloser, error) {
	req, err := c.newJSONRequest(ctx, streamPath, streamRequest{
		Query:    query.Text,
		Provider: query.Provider,
		TopK:     query.TopK,
	})
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/x-ndjson")

	c.logger.Debug("open deliberation stream",
		zap.String("provider", string(query.Provider)),
		zap.Int("top_k", query.TopK),
	)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}
