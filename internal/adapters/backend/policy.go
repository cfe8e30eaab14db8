package backend

import (
	"context"

	"github.com/bnema/tivona-cli/internal/domain"
)

const policyPath = "policies/"

type policyRequest struct {
	Policy   map[string]any  `json:"policy"`
	Provider domain.Provider `json:"provider"`
}

func (c *Client) Analyze(ctx context.Context, policy map[string]any, provider domain.Provider) (domain.PolicyAnalysis, error) {
	var analysis domain.PolicyAnalysis
	if err := c.postJSON(ctx, policyPath, policyRequest{Policy: policy, Provider: provider}, &analysis); err != nil {
		return domain.PolicyAnalysis{}, err
	}
	return analysis, nil
}
