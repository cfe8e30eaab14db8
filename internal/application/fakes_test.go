package application

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func mockAnyContext() interface{} {
	return mock.Anything
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// chunkReader hands out data at most size bytes per Read.
type chunkReader struct {
	data []byte
	size int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := min(r.size, len(p), len(r.data))
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}

// scriptedTransport serves a fixed body split into chunks of chunkSize.
type scriptedTransport struct {
	body      string
	chunkSize int
	openErr   error

	mu      sync.Mutex
	queries []domain.Query
}

func (s *scriptedTransport) Open(_ context.Context, query domain.Query) (io.ReadCloser, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()

	if s.openErr != nil {
		return nil, s.openErr
	}

	size := s.chunkSize
	if size <= 0 {
		size = len(s.body) + 1
	}
	return io.NopCloser(&chunkReader{data: []byte(s.body), size: size}), nil
}

func (s *scriptedTransport) opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

// pipeTransport hands every opened stream's write end to the test.
type pipeTransport struct {
	writers chan *io.PipeWriter
}

func newPipeTransport() *pipeTransport {
	return &pipeTransport{writers: make(chan *io.PipeWriter, 4)}
}

func (p *pipeTransport) Open(_ context.Context, _ domain.Query) (io.ReadCloser, error) {
	reader, writer := io.Pipe()
	p.writers <- writer
	return reader, nil
}

func (p *pipeTransport) next(t *testing.T) *io.PipeWriter {
	t.Helper()
	select {
	case writer := <-p.writers:
		t.Cleanup(func() { _ = writer.Close() })
		return writer
	case <-time.After(5 * time.Second):
		t.Fatal("transport was never opened")
		return nil
	}
}

// errReader returns data once, then fails.
type errReader struct {
	data string
	err  error
	sent bool
}

func (r *errReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, r.data), nil
	}
	return 0, r.err
}

func (r *errReader) Close() error { return nil }

type readerTransport struct {
	body io.ReadCloser
}

func (r readerTransport) Open(context.Context, domain.Query) (io.ReadCloser, error) {
	return r.body, nil
}

type snapshotRecorder struct {
	mu        sync.Mutex
	snapshots []domain.Snapshot
}

func (r *snapshotRecorder) OnSnapshot(snapshot domain.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snapshot)
}

func (r *snapshotRecorder) all() []domain.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Snapshot(nil), r.snapshots...)
}

func waitDone(t *testing.T, session *Session) (domain.Snapshot, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snapshot, err := session.Wait(ctx)
	require.False(t, errors.Is(err, context.DeadlineExceeded), "session did not finish")
	return snapshot, err
}
