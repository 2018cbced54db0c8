// Package replication pushes the whole store to the remote spreadsheet
// service after mutations settle, and reads it back at first launch.
package replication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kitabu-backend/internal/domain/store"
	"kitabu-backend/internal/domain/uow"

	"github.com/google/uuid"
	"github.com/juju/clock"
)

const (
	DefaultDebounce = 2 * time.Second
	DefaultTimeout  = 10 * time.Second
)

type Config struct {
	Debounce time.Duration
	Timeout  time.Duration
}

var _ uow.Notifier = (*Syncer)(nil)

// Syncer is fire-and-forget: failures only change the status, local state
// is never touched and nothing is retried.
type Syncer struct {
	uow     uow.UnitOfWork
	remote  Remote
	clock   clock.Clock
	cfg     Config
	log     *slog.Logger
	metrics *Metrics

	mu       sync.Mutex
	timer    clock.Timer
	gen      uint64
	state    State
	lastErr  string
	lastSync *time.Time
	inflight sync.WaitGroup
}

// NewSyncer returns a syncer; a nil remote disables replication.
func NewSyncer(tx uow.UnitOfWork, remote Remote, clk clock.Clock, cfg Config, m *Metrics, log *slog.Logger) *Syncer {
	if clk == nil {
		clk = clock.WallClock
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if m == nil {
		m = NewMetrics(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{uow: tx, remote: remote, clock: clk, cfg: cfg, log: log, metrics: m, state: StateIdle}
}

func (s *Syncer) Enabled() bool { return s.remote != nil }

// Notify (re)starts the debounce timer. Only the last mutation in a burst
// triggers a push.
func (s *Syncer) Notify(tenantID string) {
	s.metrics.mutations.Inc()
	if !s.Enabled() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.cfg.Debounce, func() { s.fire(gen, tenantID) })
}

func (s *Syncer) fire(gen uint64, tenantID string) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	if err := s.push(context.Background(), tenantID); err != nil {
		s.log.Warn("background sync failed", "tenant_id", tenantID, "err", err)
	}
}

// SyncNow pushes immediately. It does not cancel a pending debounce.
func (s *Syncer) SyncNow(ctx context.Context, tenantID string) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	s.inflight.Add(1)
	defer s.inflight.Done()
	return s.push(ctx, tenantID)
}

// Status is safe to call at any time.
func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{State: s.state, Enabled: s.Enabled(), LastError: s.lastErr}
	if s.lastSync != nil {
		t := *s.lastSync
		st.LastSyncedAt = &t
	}
	return st
}

// Stop drops a pending push and waits for running ones.
func (s *Syncer) Stop() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.mu.Unlock()
	s.inflight.Wait()
}

// FetchLatest reads the tenant's snapshot from the remote. A missing or
// malformed payload yields nil without error so callers fall back to defaults.
func (s *Syncer) FetchLatest(ctx context.Context, tenantID string) (*store.Snapshot, error) {
	if !s.Enabled() {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	raw, err := s.remote.FetchLatest(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	snap, err := store.Decode(raw)
	if err != nil {
		s.log.Warn("ignoring remote snapshot", "tenant_id", tenantID, "err", err)
		return nil, nil
	}
	return snap, nil
}

func (s *Syncer) push(ctx context.Context, tenantID string) error {
	s.setState(StateSyncing, "")
	err := s.send(ctx, tenantID)
	if err != nil {
		s.metrics.pushes.WithLabelValues("error").Inc()
		s.setState(StateError, err.Error())
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	s.metrics.pushes.WithLabelValues("success").Inc()
	s.setState(StateSuccess, "")
	s.log.Info("store synced", "tenant_id", tenantID)
	return nil
}

func (s *Syncer) send(ctx context.Context, tenantID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	var snap *store.Snapshot
	err := s.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		snap, err = r.Store.Load(ctx)
		return err
	})
	if err != nil {
		return err
	}
	if snap == nil {
		return errors.New("empty store")
	}
	body, err := json.Marshal(Envelope{
		SyncID:          uuid.NewString(),
		CurrentTenantID: tenantID,
		SyncedAt:        s.clock.Now().UTC(),
		Snapshot:        snap.Normalize(),
	})
	if err != nil {
		return err
	}
	return s.remote.Push(ctx, tenantID, body)
}

func (s *Syncer) setState(st State, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	s.lastErr = errMsg
	if st == StateSuccess {
		t := s.clock.Now().UTC()
		s.lastSync = &t
	}
	s.metrics.setState(st)
}
