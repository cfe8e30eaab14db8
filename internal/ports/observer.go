package ports

import "github.com/bnema/tivona-cli/internal/domain"

// SnapshotObserver is told whenever a session's state changes. Calls come in
// publish order from one goroutine per session, with no session lock held, so
// an observer may read or cancel the session. A slow observer delays
// Session.Done.
type SnapshotObserver interface {
	OnSnapshot(snapshot domain.Snapshot)
}

type SnapshotObserverFunc func(snapshot domain.Snapshot)

func (f SnapshotObserverFunc) OnSnapshot(snapshot domain.Snapshot) {
	f(snapshot)
}
