package replication

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"kitabu-backend/internal/domain/store"
	"kitabu-backend/internal/testutil/memstore"

	"github.com/juju/clock/testclock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type push struct {
	tenantID string
	body     []byte
}

type fakeRemote struct {
	mu      sync.Mutex
	pushes  chan push
	pushErr error
	latest  []byte
	getErr  error
}

func newFakeRemote() *fakeRemote { return &fakeRemote{pushes: make(chan push, 8)} }

func (f *fakeRemote) Push(_ context.Context, tenantID string, payload []byte) error {
	f.mu.Lock()
	err := f.pushErr
	f.mu.Unlock()
	f.pushes <- push{tenantID: tenantID, body: payload}
	return err
}

func (f *fakeRemote) FetchLatest(context.Context, string) ([]byte, error) {
	return f.latest, f.getErr
}

func quietLog() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestSyncer_DebouncesBurst(t *testing.T) {
	clk := testclock.NewClock(epoch)
	remote := newFakeRemote()
	s := NewSyncer(memstore.New(store.Seed(epoch)), remote, clk, Config{Debounce: 2 * time.Second}, nil, quietLog())
	defer s.Stop()

	s.Notify("KYN0001")
	s.Notify("KYN0001")
	s.Notify("KYN0002")

	if err := clk.WaitAdvance(2*time.Second, time.Second, 1); err != nil {
		t.Fatalf("advance: %v", err)
	}

	select {
	case p := <-remote.pushes:
		if p.tenantID != "KYN0002" {
			t.Fatalf("expected last tenant, got %s", p.tenantID)
		}
		var env Envelope
		if err := json.Unmarshal(p.body, &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if env.SyncID == "" || env.CurrentTenantID != "KYN0002" {
			t.Fatalf("bad envelope routing: %+v", env)
		}
		if env.Snapshot == nil || len(env.Vslas) != 1 || len(env.Members) != 2 {
			t.Fatalf("expected the full store in the envelope")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no push after debounce")
	}

	select {
	case p := <-remote.pushes:
		t.Fatalf("unexpected second push for %s", p.tenantID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSyncer_NothingBeforeDebounce(t *testing.T) {
	clk := testclock.NewClock(epoch)
	remote := newFakeRemote()
	s := NewSyncer(memstore.New(store.Seed(epoch)), remote, clk, Config{Debounce: 2 * time.Second}, nil, quietLog())
	defer s.Stop()

	s.Notify("KYN0001")
	if err := clk.WaitAdvance(time.Second, time.Second, 1); err != nil {
		t.Fatalf("advance: %v", err)
	}
	select {
	case <-remote.pushes:
		t.Fatal("pushed before the debounce elapsed")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSyncer_SyncNowStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	tests := []struct {
		name      string
		pushErr   error
		wantErr   bool
		wantState State
	}{
		{name: "success", wantState: StateSuccess},
		{name: "transport failure", pushErr: errors.New("connection refused"), wantErr: true, wantState: StateError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newFakeRemote()
			remote.pushErr = tt.pushErr
			s := NewSyncer(memstore.New(store.Seed(epoch)), remote, testclock.NewClock(epoch), Config{}, m, quietLog())

			err := s.SyncNow(context.Background(), "KYN0001")
			if tt.wantErr {
				if !errors.Is(err, ErrSyncFailed) {
					t.Fatalf("expected ErrSyncFailed, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			st := s.Status()
			if st.State != tt.wantState {
				t.Fatalf("state: want %s, got %s", tt.wantState, st.State)
			}
			if tt.wantErr && !strings.Contains(st.LastError, "connection refused") {
				t.Fatalf("expected last error, got %q", st.LastError)
			}
			if !tt.wantErr && (st.LastSyncedAt == nil || !st.LastSyncedAt.Equal(epoch)) {
				t.Fatalf("expected last sync at %v, got %v", epoch, st.LastSyncedAt)
			}
			if got := testutil.ToFloat64(m.state.WithLabelValues(string(tt.wantState))); got != 1 {
				t.Fatalf("gauge for %s = %v", tt.wantState, got)
			}
		})
	}

	if got := testutil.ToFloat64(m.pushes.WithLabelValues("error")); got != 1 {
		t.Fatalf("expected one failed push, got %v", got)
	}
}

func TestSyncer_Disabled(t *testing.T) {
	s := NewSyncer(memstore.New(nil), nil, testclock.NewClock(epoch), Config{}, nil, quietLog())
	s.Notify("KYN0001")

	if err := s.SyncNow(context.Background(), "KYN0001"); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if st := s.Status(); st.State != StateIdle || st.Enabled {
		t.Fatalf("unexpected status %+v", st)
	}
	snap, err := s.FetchLatest(context.Background(), "KYN0001")
	if snap != nil || err != nil {
		t.Fatalf("expected nil, nil; got %v, %v", snap, err)
	}
	if got := testutil.ToFloat64(s.metrics.mutations); got != 1 {
		t.Fatalf("mutations counter = %v", got)
	}
}

func TestSyncer_FetchLatest(t *testing.T) {
	tests := []struct {
		name      string
		latest    []byte
		getErr    error
		wantNil   bool
		wantErr   bool
		wantVslas int
	}{
		{name: "well formed", latest: []byte(`{"vslas":[{"id":"KYV009","name":"Umoja"}],"members":null}`), wantVslas: 1},
		{name: "nothing stored", latest: nil, wantNil: true},
		{name: "array instead of object", latest: []byte(`[1,2]`), wantNil: true},
		{name: "garbage", latest: []byte(`not json`), wantNil: true},
		{name: "transport error", getErr: errors.New("timeout"), wantNil: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := newFakeRemote()
			remote.latest, remote.getErr = tt.latest, tt.getErr
			s := NewSyncer(memstore.New(nil), remote, testclock.NewClock(epoch), Config{}, nil, quietLog())

			snap, err := s.FetchLatest(context.Background(), "KYN0001")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantNil {
				if snap != nil {
					t.Fatalf("expected nil snapshot")
				}
				return
			}
			if len(snap.Vslas) != tt.wantVslas || snap.Members == nil {
				t.Fatalf("expected normalized snapshot, got %+v", snap)
			}
		})
	}
}
