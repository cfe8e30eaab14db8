package domain

// Event is one classified stream record. The set of implementations is closed.
type Event interface {
	isEvent()
}

type ErrorEvent struct {
	Message string
}

type MetadataEvent struct {
	Sources []Source
}

// Phase events may cite Sources on the same record; they are added to the
// result like a MetadataEvent's.
type DeltaEvent struct {
	Phase   PhaseName
	Text    string
	Sources []Source
}

// CompletionEvent carries the full content of a finished phase, not a fragment.
type CompletionEvent struct {
	Phase   PhaseName
	Status  string
	Content string
	Sources []Source
}

// PhaseStatusEvent is any other phase record. Nil fields were absent on the wire.
type PhaseStatusEvent struct {
	Phase   PhaseName
	Status  *string
	Content *string
	Sources []Source
}

func (ErrorEvent) isEvent()       {}
func (MetadataEvent) isEvent()    {}
func (DeltaEvent) isEvent()       {}
func (CompletionEvent) isEvent()  {}
func (PhaseStatusEvent) isEvent() {}
