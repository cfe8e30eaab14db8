package domain

type PhaseName string

const (
	PhaseAnalyst   PhaseName = "Analyst"
	PhaseArchitect PhaseName = "Architect"
	PhaseReviewer  PhaseName = "Reviewer"
	PhaseArbiter   PhaseName = "Arbiter"
	PhaseMetadata  PhaseName = "Metadata"

	DefaultFinalPhase = PhaseArbiter
)

const (
	StatusInProgress = "in progress"
	StatusCompleted  = "Completed"
)

type PhaseEntry struct {
	Phase        PhaseName `json:"phase" yaml:"phase"`
	Content      string    `json:"content" yaml:"content"`
	Status       string    `json:"status,omitempty" yaml:"status,omitempty"`
	ArrivalOrder int       `json:"arrival_order" yaml:"arrival_order"`
}

// DeliberationLog keeps one entry per phase in order of first appearance.
// The zero value is ready to use.
type DeliberationLog struct {
	entries []PhaseEntry
	index   map[PhaseName]int
}

// Upsert returns the entry for phase, appending a new one when the phase is
// seen for the first time.
func (l *DeliberationLog) Upsert(phase PhaseName) *PhaseEntry {
	if l.index == nil {
		l.index = map[PhaseName]int{}
	}

	if i, ok := l.index[phase]; ok {
		return &l.entries[i]
	}

	l.entries = append(l.entries, PhaseEntry{Phase: phase, ArrivalOrder: len(l.entries)})
	l.index[phase] = len(l.entries) - 1

	return &l.entries[len(l.entries)-1]
}

func (l *DeliberationLog) Get(phase PhaseName) (PhaseEntry, bool) {
	i, ok := l.index[phase]
	if !ok {
		return PhaseEntry{}, false
	}
	return l.entries[i], true
}

func (l *DeliberationLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries in arrival order.
func (l *DeliberationLog) Entries() []PhaseEntry {
	copied := make([]PhaseEntry, len(l.entries))
	copy(copied, l.entries)
	return copied
}
