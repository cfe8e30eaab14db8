package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/bnema/tivona-cli/internal/adapters/wire/ndjson"
	"github.com/bnema/tivona-cli/internal/domain"
	"github.com/bnema/tivona-cli/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultChunkSize = 4096

var errSessionRetired = errors.New("session retired")

type DriverConfig struct {
	FinalPhase domain.PhaseName
	ChunkSize  int
	Observer   ports.SnapshotObserver
	Clock      ports.Clock
	Logger     *zap.Logger
}

// Driver runs one deliberation session at a time. Starting a new session
// retires the previous one.
type Driver struct {
	transport ports.DeliberationTransport
	cfg       DriverConfig

	mu      sync.Mutex
	current *Session
}

func NewDriver(transport ports.DeliberationTransport, cfg DriverConfig) *Driver {
	if cfg.FinalPhase == "" {
		cfg.FinalPhase = domain.DefaultFinalPhase
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Observer == nil {
		cfg.Observer = ports.SnapshotObserverFunc(func(domain.Snapshot) {})
	}
	if cfg.Clock == nil {
		cfg.Clock = ports.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Driver{transport: transport, cfg: cfg}
}

// Start validates the query, retires any running session and begins streaming.
// It returns once the session is Running; the read loop continues in the
// background until the stream ends, fails, or ctx is cancelled.
func (d *Driver) Start(ctx context.Context, query domain.Query) (*Session, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	session := &Session{
		id:         domain.SessionID(uuid.Must(uuid.NewV7()).String()),
		query:      query,
		driver:     d,
		cancel:     cancel,
		done:       make(chan struct{}),
		notify:     make(chan struct{}, 1),
		delivered:  make(chan struct{}),
		status:     domain.SessionIdle,
		aggregator: domain.NewAggregator(d.cfg.FinalPhase),
	}
	session.logger = d.cfg.Logger.With(zap.String("session", string(session.id)))

	d.mu.Lock()
	previous := d.current
	d.current = session
	d.mu.Unlock()

	if previous != nil {
		previous.Cancel()
	}

	go session.deliver()

	session.mu.Lock()
	session.status = domain.SessionRunning
	session.startedAt = d.cfg.Clock.Now()
	session.publishLocked()
	session.mu.Unlock()

	session.logger.Info("deliberation started",
		zap.String("provider", string(query.Provider)),
		zap.Int("top_k", query.TopK),
	)

	go session.run(runCtx)

	return session, nil
}

// Current returns the most recently started session, or nil.
func (d *Driver) Current() *Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Cancel cancels the current session, if any.
func (d *Driver) Cancel() {
	if session := d.Current(); session != nil {
		session.Cancel()
	}
}

func (d *Driver) owns(session *Session) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current == session
}

// Session is one streamed query from submission to a terminal status.
type Session struct {
	id     domain.SessionID
	query  domain.Query
	driver *Driver
	cancel context.CancelFunc
	done   chan struct{}
	logger *zap.Logger

	// notify wakes deliver; delivered closes once the terminal snapshot
	// has reached the observer.
	notify    chan struct{}
	delivered chan struct{}

	mu         sync.Mutex
	pending    []domain.Snapshot
	status     domain.SessionStatus
	err        error
	aggregator *domain.Aggregator
	records    int
	startedAt  time.Time
	finishedAt time.Time
}

func (s *Session) ID() domain.SessionID {
	return s.id
}

// Done is closed once the read loop has exited, the transport is released and
// the observer has seen the terminal snapshot.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Status() domain.SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the terminal error, nil while running or after completion.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Cancel stops the session. State applied so far is kept.
func (s *Session) Cancel() {
	s.finish(domain.SessionCancelled, domain.ErrSessionCancelled)
	s.cancel()
}

// Wait blocks until the session has released its transport or ctx ends.
func (s *Session) Wait(ctx context.Context) (domain.Snapshot, error) {
	select {
	case <-s.done:
		return s.Snapshot(), s.Err()
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	}
}

func (s *Session) run(ctx context.Context) {
	defer func() {
		<-s.delivered
		close(s.done)
	}()
	defer s.cancel()

	body, err := s.driver.transport.Open(ctx, s.query)
	if err != nil {
		s.conclude(ctx, asTransportError(err))
		return
	}

	var releaseOnce sync.Once
	release := func() {
		releaseOnce.Do(func() {
			if closeErr := body.Close(); closeErr != nil {
				s.logger.Debug("close stream body", zap.Error(closeErr))
			}
		})
	}
	defer release()

	group, groupCtx := errgroup.WithContext(ctx)
	stopRelease := context.AfterFunc(groupCtx, release)
	defer stopRelease()

	chunks := make(chan []byte)
	group.Go(func() error {
		return s.readChunks(groupCtx, body, chunks)
	})
	group.Go(func() error {
		return s.applyChunks(groupCtx, chunks)
	})

	s.conclude(ctx, group.Wait())
}

func (s *Session) readChunks(ctx context.Context, body io.Reader, chunks chan<- []byte) error {
	buf := make([]byte, s.driver.cfg.ChunkSize)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			select {
			case chunks <- bytes.Clone(buf[:n]):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if errors.Is(err, io.EOF) {
			close(chunks)
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &domain.TransportError{Err: fmt.Errorf("read stream: %w", err)}
		}
	}
}

func (s *Session) applyChunks(ctx context.Context, chunks <-chan []byte) error {
	decoder := ndjson.NewLineDecoder()
	for {
		select {
		case <-ctx.Done():
			if n := decoder.Buffered(); n > 0 {
				s.logger.Debug("abandoned partial record", zap.Int("buffered_bytes", n))
			}
			return ctx.Err()
		case chunk, ok := <-chunks:
			if !ok {
				buffered := decoder.Buffered()
				if last, ok := decoder.Flush(); ok {
					s.logger.Debug("flushed unterminated record", zap.Int("buffered_bytes", buffered))
					return s.applyRecord(last)
				}
				return nil
			}
			for _, record := range decoder.Feed(chunk) {
				if err := s.applyRecord(record); err != nil {
					return err
				}
			}
		}
	}
}

// applyRecord classifies and applies one record, provided the session is
// still running and still the driver's current session.
func (s *Session) applyRecord(record string) error {
	event, classifyErr := ndjson.Classify(record)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.SessionRunning || !s.driver.owns(s) {
		return errSessionRetired
	}

	s.records++
	if classifyErr != nil {
		return classifyErr
	}

	applyErr := s.aggregator.Apply(event)
	s.publishLocked()

	return applyErr
}

func (s *Session) conclude(ctx context.Context, err error) {
	var (
		inBand    *domain.InBandError
		malformed *domain.MalformedEventError
		transport *domain.TransportError
	)

	switch {
	case err == nil:
		s.finish(domain.SessionCompleted, nil)
	case errors.Is(err, errSessionRetired):
		s.finish(domain.SessionCancelled, domain.ErrSessionCancelled)
	case errors.As(err, &inBand), errors.As(err, &malformed):
		s.finish(domain.SessionFailed, err)
	case ctx.Err() != nil:
		s.finish(domain.SessionCancelled, fmt.Errorf("%w: %w", domain.ErrSessionCancelled, context.Cause(ctx)))
	case errors.As(err, &transport):
		s.finish(domain.SessionFailed, err)
	default:
		s.finish(domain.SessionFailed, &domain.TransportError{Err: err})
	}
}

// finish moves a running session to a terminal status. It reports false when
// the session had already left Running.
func (s *Session) finish(status domain.SessionStatus, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.SessionRunning {
		return false
	}

	s.status = status
	s.err = err
	s.finishedAt = s.driver.cfg.Clock.Now()
	s.publishLocked()

	fields := []zap.Field{
		zap.String("status", string(status)),
		zap.Int("records", s.records),
		zap.Duration("elapsed", s.finishedAt.Sub(s.startedAt)),
	}
	switch status {
	case domain.SessionFailed:
		s.logger.Warn("deliberation failed", append(fields, zap.Error(err))...)
	case domain.SessionCancelled:
		s.logger.Info("deliberation cancelled", fields...)
	default:
		s.logger.Info("deliberation completed", fields...)
	}

	return true
}

// publishLocked queues the current state for deliver. The observer never runs
// under s.mu, so it may call back into the session.
func (s *Session) publishLocked() {
	s.pending = append(s.pending, s.snapshotLocked())
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// deliver hands queued snapshots to the observer in publish order and exits
// after the terminal one.
func (s *Session) deliver() {
	defer close(s.delivered)

	for range s.notify {
		s.mu.Lock()
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()

		for _, snapshot := range batch {
			s.driver.cfg.Observer.OnSnapshot(snapshot)
			if snapshot.Status.Terminal() {
				return
			}
		}
	}
}

func (s *Session) snapshotLocked() domain.Snapshot {
	snapshot := domain.Snapshot{
		SessionID:  s.id,
		Query:      s.query,
		Status:     s.status,
		Phases:     s.aggregator.Phases(),
		Result:     s.aggregator.Result(),
		Records:    s.records,
		StartedAt:  s.startedAt,
		FinishedAt: s.finishedAt,
	}
	if s.err != nil {
		snapshot.Error = s.err.Error()
	}
	return snapshot
}

func asTransportError(err error) error {
	var transport *domain.TransportError
	if errors.As(err, &transport) {
		return err
	}
	return &domain.TransportError{Err: err}
}
