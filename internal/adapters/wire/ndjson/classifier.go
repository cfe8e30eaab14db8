package ndjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/bnema/tivona-cli/internal/domain"
)

var errUnclassifiable = errors.New("record names no phase, error, or sources")

var terminalStatuses = map[string]struct{}{
	"completed": {},
	"done":      {},
}

// record is the union of every field the backend sends. Unknown fields are
// ignored by encoding/json.
type record struct {
	Error   json.RawMessage `json:"error"`
	Phase   string          `json:"phase"`
	Status  *string         `json:"status"`
	Delta   *string         `json:"delta"`
	Content *string         `json:"content"`
	Sources json.RawMessage `json:"sources"`
}

// Classify decodes one NDJSON record into a typed event.
func Classify(line string) (domain.Event, error) {
	trimmed := strings.TrimSpace(line)

	var rec record
	if err := json.Unmarshal([]byte(trimmed), &rec); err != nil {
		return nil, &domain.MalformedEventError{Record: trimmed, Err: err}
	}

	if present(rec.Error) {
		return domain.ErrorEvent{Message: errorMessage(rec.Error)}, nil
	}

	phase := domain.PhaseName(strings.TrimSpace(rec.Phase))

	sources, err := decodeSources(rec.Sources)
	if err != nil {
		return nil, &domain.MalformedEventError{Record: trimmed, Err: err}
	}

	// Sources alone make a metadata record. A named phase that also carries
	// a delta, status or content keeps its phase event and the sources ride
	// along with it.
	if phase == domain.PhaseMetadata || (present(rec.Sources) && !rec.carriesPhaseData(phase)) {
		return domain.MetadataEvent{Sources: sources}, nil
	}

	if phase == "" {
		return nil, &domain.MalformedEventError{Record: trimmed, Err: errUnclassifiable}
	}

	if rec.Status != nil && rec.Content != nil && isTerminal(*rec.Status) {
		return domain.CompletionEvent{Phase: phase, Status: *rec.Status, Content: *rec.Content, Sources: sources}, nil
	}

	if rec.Delta != nil {
		return domain.DeltaEvent{Phase: phase, Text: *rec.Delta, Sources: sources}, nil
	}

	return domain.PhaseStatusEvent{Phase: phase, Status: rec.Status, Content: rec.Content, Sources: sources}, nil
}

func (r record) carriesPhaseData(phase domain.PhaseName) bool {
	return phase != "" && (r.Delta != nil || r.Status != nil || r.Content != nil)
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func errorMessage(raw json.RawMessage) string {
	var message string
	if err := json.Unmarshal(raw, &message); err == nil {
		return message
	}
	return string(raw)
}

func decodeSources(raw json.RawMessage) ([]domain.Source, error) {
	if !present(raw) {
		return nil, nil
	}

	var sources []domain.Source
	if err := json.Unmarshal(raw, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

func isTerminal(status string) bool {
	_, ok := terminalStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}
