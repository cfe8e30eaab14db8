package deliberation

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth   = 80
	previewRunes   = 60
	autoStyle      = "auto"
	answerHeading  = "Answer"
	sourcesHeading = "Sources"
)

type RenderOptions struct {
	// MarkdownStyle is a glamour style name, or "auto" to follow the terminal.
	MarkdownStyle string
	Width         int
	// HidePhases drops the per-phase transcript and keeps only the answer.
	HidePhases bool
}

func (o RenderOptions) width() int {
	if o.Width <= 0 {
		return defaultWidth
	}
	return o.Width
}

func renderView(snapshot domain.Snapshot, opts RenderOptions, s styles) (string, error) {
	lines := []string{
		s.title.Render(snapshot.Query.Text),
		s.header.Render(headerLine(snapshot)),
	}

	if snapshot.Error != "" {
		lines = append(lines, s.failure.Render("error: "+snapshot.Error))
	}

	if !opts.HidePhases {
		lines = append(lines, s.section.Render(renderPhases(snapshot.Phases, s, false)))
	}

	answer, err := renderAnswer(snapshot.Result, opts, s)
	if err != nil {
		return "", err
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, s.title.Render(answerHeading), answer)))

	if sources := domain.UniqueSources(snapshot.Result.Sources); len(sources) > 0 {
		lines = append(lines, s.section.Render(renderSources(sources, s)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...), nil
}

func headerLine(snapshot domain.Snapshot) string {
	parts := []string{fmt.Sprintf("status: %s", snapshot.Status)}
	if snapshot.Query.Provider != "" {
		parts = append(parts, fmt.Sprintf("provider: %s", snapshot.Query.Provider))
	}
	parts = append(parts, fmt.Sprintf("records: %d", snapshot.Records))
	if !snapshot.StartedAt.IsZero() && !snapshot.FinishedAt.IsZero() {
		parts = append(parts, fmt.Sprintf("elapsed: %s", snapshot.FinishedAt.Sub(snapshot.StartedAt).Round(10*time.Millisecond)))
	}
	return strings.Join(parts, "  ")
}

// renderPhases lists phases in arrival order. In preview mode only the tail
// of each phase's content is shown.
func renderPhases(phases []domain.PhaseEntry, s styles, preview bool) string {
	if len(phases) == 0 {
		return s.empty.Render("No phases yet.")
	}

	parts := make([]string, 0, len(phases)*2)
	for _, entry := range phases {
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top,
			s.phase.Render(string(entry.Phase)),
			" ",
			badge(entry.Status, s),
		))

		content := strings.TrimSpace(entry.Content)
		if content == "" {
			continue
		}
		if preview {
			content = tail(strings.Join(strings.Fields(content), " "), previewRunes)
		}
		parts = append(parts, s.detail.Render(content))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func badge(status string, s styles) string {
	switch {
	case status == "":
		return s.badgeOther.Render("[pending]")
	case status == domain.StatusInProgress:
		return s.badgeActive.Render("[" + status + "]")
	case strings.EqualFold(status, domain.StatusCompleted), strings.EqualFold(status, "done"):
		return s.badgeDone.Render("[" + status + "]")
	default:
		return s.badgeOther.Render("[" + status + "]")
	}
}

func renderAnswer(result domain.FinalResult, opts RenderOptions, s styles) (string, error) {
	if !result.HasAnswer() {
		return s.empty.Render("No answer."), nil
	}

	rendered, err := renderMarkdown(result.Answer, opts)
	if err != nil {
		return "", err
	}
	return strings.Trim(rendered, "\n"), nil
}

func renderMarkdown(markdown string, opts RenderOptions) (string, error) {
	styleOption := glamour.WithAutoStyle()
	if style := strings.TrimSpace(opts.MarkdownStyle); style != "" && style != autoStyle {
		styleOption = glamour.WithStandardStyle(style)
	}

	renderer, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(opts.width()))
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render answer: %w", err)
	}
	return out, nil
}

func renderSources(sources []domain.Source, s styles) string {
	parts := []string{s.title.Render(sourcesHeading)}
	for i, source := range sources {
		title := source.Title
		if strings.TrimSpace(title) == "" {
			title = source.Source
		}
		parts = append(parts, fmt.Sprintf("%d. %s %s",
			i+1,
			s.sourceTitle.Render(title),
			s.sourceURL.Render(source.Source),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return "..." + string(runes[len(runes)-n:])
}
