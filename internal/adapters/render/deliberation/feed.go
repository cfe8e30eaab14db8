package deliberation

import (
	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/bnema/tivona-cli/internal/ports"
)

// Feed hands snapshots from the session's read loop to a live view without
// ever blocking the loop. Only the newest pending snapshot is kept.
type Feed struct {
	ch chan domain.Snapshot
}

var _ ports.SnapshotObserver = (*Feed)(nil)

func NewFeed() *Feed {
	return &Feed{ch: make(chan domain.Snapshot, 1)}
}

func (f *Feed) OnSnapshot(snapshot domain.Snapshot) {
	for {
		select {
		case f.ch <- snapshot:
			return
		default:
		}

		select {
		case <-f.ch:
		default:
		}
	}
}

func (f *Feed) Snapshots() <-chan domain.Snapshot {
	return f.ch
}
