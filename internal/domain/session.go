package domain

import "time"

type SessionID string

type SessionStatus string

const (
	SessionIdle      SessionStatus = "idle"
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
	SessionCancelled SessionStatus = "cancelled"
)

func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionCompleted, SessionFailed, SessionCancelled:
		return true
	default:
		return false
	}
}

// Snapshot is a read-only copy of one session's state.
type Snapshot struct {
	SessionID  SessionID     `json:"session_id" yaml:"session_id"`
	Query      Query         `json:"query" yaml:"query"`
	Status     SessionStatus `json:"status" yaml:"status"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	Phases     []PhaseEntry  `json:"phases" yaml:"phases"`
	Result     FinalResult   `json:"result" yaml:"result"`
	Records    int           `json:"records" yaml:"records"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
}

func (s Snapshot) Phase(name PhaseName) (PhaseEntry, bool) {
	for _, entry := range s.Phases {
		if entry.Phase == name {
			return entry, true
		}
	}
	return PhaseEntry{}, false
}
