package domain

import "strings"

type Source struct {
	Source   string `json:"source" yaml:"source"`
	Title    string `json:"title" yaml:"title"`
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"`
}

// FinalResult holds the answer and citations. Sources may contain duplicates;
// use UniqueSources when presenting them.
type FinalResult struct {
	Answer  string   `json:"answer" yaml:"answer"`
	Sources []Source `json:"sources" yaml:"sources"`
}

func (r FinalResult) Clone() FinalResult {
	sources := make([]Source, len(r.Sources))
	copy(sources, r.Sources)
	return FinalResult{Answer: r.Answer, Sources: sources}
}

func (r FinalResult) HasAnswer() bool {
	return strings.TrimSpace(r.Answer) != ""
}

// UniqueSources drops repeated source locations, keeping the first occurrence.
func UniqueSources(sources []Source) []Source {
	result := make([]Source, 0, len(sources))
	seen := make(map[string]struct{}, len(sources))

	for _, source := range sources {
		if _, ok := seen[source.Source]; ok {
			continue
		}

		seen[source.Source] = struct{}{}
		result = append(result, source)
	}

	return result
}
