package backend

import (
	"context"

	"github.com/bnema/tivona-cli/internal/domain"
)

const ingestPath = "documents/"

type ingestResponse struct {
	Message string `json:"message"`
}

func (c *Client) Ingest(ctx context.Context, request domain.IngestRequest) (string, error) {
	var resp ingestResponse
	if err := c.postJSON(ctx, ingestPath, request, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
