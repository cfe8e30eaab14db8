package domain

import (
	"fmt"
	"strings"
)

// Aggregator folds classified events into the deliberation log and the final
// result. It has a single writer and does no locking of its own.
type Aggregator struct {
	finalPhase PhaseName
	log        DeliberationLog
	result     FinalResult
	failure    *InBandError
}

func NewAggregator(finalPhase PhaseName) *Aggregator {
	if strings.TrimSpace(string(finalPhase)) == "" {
		finalPhase = DefaultFinalPhase
	}

	return &Aggregator{finalPhase: finalPhase}
}

func (a *Aggregator) FinalPhase() PhaseName {
	return a.finalPhase
}

// Apply applies one event. An ErrorEvent returns an *InBandError and every
// later call returns the same error without touching state.
func (a *Aggregator) Apply(event Event) error {
	if a.failure != nil {
		return a.failure
	}

	switch e := event.(type) {
	case ErrorEvent:
		a.failure = &InBandError{Message: e.Message}
		return a.failure
	case MetadataEvent:
		a.result.Sources = append(a.result.Sources, e.Sources...)
	case DeltaEvent:
		entry := a.log.Upsert(e.Phase)
		entry.Content += e.Text
		entry.Status = StatusInProgress
		if e.Phase == a.finalPhase {
			a.result.Answer += e.Text
		}
		a.result.Sources = append(a.result.Sources, e.Sources...)
	case CompletionEvent:
		entry := a.log.Upsert(e.Phase)
		entry.Content = e.Content
		entry.Status = e.Status
		if e.Phase == a.finalPhase {
			a.result.Answer = e.Content
		}
		a.result.Sources = append(a.result.Sources, e.Sources...)
	case PhaseStatusEvent:
		entry := a.log.Upsert(e.Phase)
		if e.Status != nil {
			entry.Status = *e.Status
		}
		if e.Content != nil {
			entry.Content = *e.Content
		}
		a.result.Sources = append(a.result.Sources, e.Sources...)
	default:
		return fmt.Errorf("apply event: unsupported type %T", event)
	}

	return nil
}

func (a *Aggregator) Failure() error {
	if a.failure == nil {
		return nil
	}
	return a.failure
}

func (a *Aggregator) Phases() []PhaseEntry {
	return a.log.Entries()
}

func (a *Aggregator) Result() FinalResult {
	return a.result.Clone()
}
