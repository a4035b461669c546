package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/i474232898/skypulse/internal/weather"
)

type fakeRefresher struct {
	mu    sync.Mutex
	locs  []weather.Location
	err   error
	calls chan struct{}
}

func newFakeRefresher() *fakeRefresher {
	return &fakeRefresher{calls: make(chan struct{}, 10)}
}

func (f *fakeRefresher) Fallback() weather.Location {
	return weather.Location{Latitude: 22.5726, Longitude: 88.3639, Fallback: true}
}

func (f *fakeRefresher) Refresh(ctx context.Context, loc weather.Location) (weather.Snapshot, error) {
	f.mu.Lock()
	f.locs = append(f.locs, loc)
	f.mu.Unlock()
	f.calls <- struct{}{}
	return weather.Snapshot{Location: loc}, f.err
}

type fakePruner struct {
	mu     sync.Mutex
	maxAge time.Duration
	calls  int
}

func (p *fakePruner) Prune(maxAge time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.maxAge = maxAge
	p.calls++
	return 2
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RefreshesFallbackOnStart(t *testing.T) {
	r := newFakeRefresher()
	s := New(r, nil, Config{RefreshInterval: time.Hour}, discardLogger())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}
	defer s.Stop()

	select {
	case <-r.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh job did not run")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.locs) != 1 || !r.locs[0].Fallback {
		t.Errorf("refreshed %+v, want the fallback location once", r.locs)
	}
}

func TestScheduler_RefreshErrorIsSwallowed(t *testing.T) {
	r := newFakeRefresher()
	r.err = errors.New("upstream down")
	s := New(r, nil, Config{}, discardLogger())

	// Must not panic.
	s.refreshFallback()
	if len(r.calls) != 1 {
		t.Errorf("Refresh called %d times, want 1", len(r.calls))
	}
}

func TestScheduler_PruneUsesSessionTTL(t *testing.T) {
	p := &fakePruner{}
	s := New(nil, p, Config{SessionTTL: 90 * time.Minute}, discardLogger())

	s.pruneSessions()
	if p.calls != 1 || p.maxAge != 90*time.Minute {
		t.Errorf("Prune called %d times with %v, want once with 1h30m", p.calls, p.maxAge)
	}
}

func TestScheduler_DisabledJobs(t *testing.T) {
	s := New(newFakeRefresher(), &fakePruner{}, Config{}, discardLogger())
	if err := s.Start(); err != nil {
		t.Fatalf("Start() unexpected error = %v", err)
	}
	defer s.Stop()

	if n := len(s.scheduler.Jobs()); n != 0 {
		t.Errorf("scheduled %d jobs, want 0", n)
	}
}
