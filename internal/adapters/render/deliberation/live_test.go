package deliberation

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLiveStopsAtTerminalSnapshot(t *testing.T) {
	feed := NewFeed()
	running := domain.Snapshot{Status: domain.SessionRunning, Records: 1, Phases: []domain.PhaseEntry{{Phase: "Analyst", Content: "Check", Status: domain.StatusInProgress}}}

	go func() {
		feed.OnSnapshot(running)
		time.Sleep(20 * time.Millisecond)
		feed.OnSnapshot(completedSnapshot())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	last, err := RunLive(ctx, &out, feed.Snapshots())
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, last.Status)
	assert.Equal(t, "Tighten policy.", last.Result.Answer)
}

func TestRunLiveReturnsWhenFeedCloses(t *testing.T) {
	ch := make(chan domain.Snapshot, 1)
	ch <- domain.Snapshot{Status: domain.SessionRunning, Records: 2}
	close(ch)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	last, err := RunLive(ctx, &bytes.Buffer{}, ch)
	require.NoError(t, err)
	assert.Equal(t, 2, last.Records)
}

func TestRunLiveHonoursContext(t *testing.T) {
	ch := make(chan domain.Snapshot)
	t.Cleanup(func() { close(ch) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := RunLive(ctx, &bytes.Buffer{}, ch)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFeedKeepsNewestSnapshot(t *testing.T) {
	t.Parallel()

	feed := NewFeed()
	for i := 1; i <= 5; i++ {
		feed.OnSnapshot(domain.Snapshot{Records: i})
	}

	select {
	case got := <-feed.Snapshots():
		assert.Equal(t, 5, got.Records)
	default:
		t.Fatal("feed is empty")
	}

	select {
	case <-feed.Snapshots():
		t.Fatal("feed must hold a single snapshot")
	default:
	}
}
