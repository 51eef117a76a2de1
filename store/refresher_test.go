package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/bagrec/core"
)

type stubLoader struct {
	calls atomic.Int32
	snap  *Snapshot
	err   error
}

func (l *stubLoader) Name() string { return "stub" }

func (l *stubLoader) Load(context.Context) (*Snapshot, error) {
	l.calls.Add(1)
	return l.snap, l.err
}

func TestRefresherSwapsSnapshot(t *testing.T) {
	m := NewMemoryStore(nil, 0.5)
	r := &Refresher{Store: m, Loader: &stubLoader{snap: loadTestFixtures(t)}, Logger: zerolog.Nop()}

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if m.Snapshot().Len() != 5 {
		t.Errorf("snapshot len = %d, want 5", m.Snapshot().Len())
	}
}

func TestRefresherKeepsSnapshotOnError(t *testing.T) {
	old := loadTestFixtures(t)
	m := NewMemoryStore(old, 0.5)
	r := &Refresher{Store: m, Loader: &stubLoader{err: errors.New("redis down")}, Logger: zerolog.Nop()}

	if err := r.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() should fail")
	}
	if m.Snapshot() != old {
		t.Error("failed refresh replaced the snapshot")
	}
}

func TestRefresherRun(t *testing.T) {
	small, _ := NewSnapshot(SnapshotData{Items: []core.Item{{ID: "x"}}}, 0)
	loader := &stubLoader{snap: small}
	m := NewMemoryStore(loadTestFixtures(t), 0.5)
	r := &Refresher{Store: m, Loader: loader, Interval: 5 * time.Millisecond, Logger: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for loader.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("refresher did not tick")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
	<-done

	if m.Snapshot().Len() != 1 {
		t.Errorf("snapshot len = %d, want 1", m.Snapshot().Len())
	}
}
