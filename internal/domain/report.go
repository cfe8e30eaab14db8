package domain

type ReportRequest struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Provider Provider `json:"provider"`
	Query    string   `json:"query"`
	Answer   string   `json:"answer"`
	Sources  []Source `json:"sources"`
}

type IngestRequest struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Provider Provider `json:"provider"`
	Version  string   `json:"version,omitempty"`
}

type PolicyFinding struct {
	Issue          string   `json:"issue" yaml:"issue"`
	Severity       string   `json:"severity" yaml:"severity"`
	Reason         string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	Recommendation string   `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	Explanation    string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
	Sources        []Source `json:"sources,omitempty" yaml:"sources,omitempty"`
}

type PolicyAnalysis struct {
	RiskLevel       string          `json:"risk_level" yaml:"risk_level"`
	Findings        []PolicyFinding `json:"findings" yaml:"findings"`
	SuggestedPolicy map[string]any  `json:"suggested_policy" yaml:"suggested_policy"`
	PolicyDiff      any             `json:"policy_diff,omitempty" yaml:"policy_diff,omitempty"`
}
