package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/rushteam/bagrec/core"
)

type fakeCatalog struct {
	err   error
	delay time.Duration
	calls int
}

func (f *fakeCatalog) Name() string { return "fake" }

func (f *fakeCatalog) GetMany(ctx context.Context, ids []string) ([]core.Item, error) {
	return f.GetAll(ctx)
}

func (f *fakeCatalog) GetAll(ctx context.Context) ([]core.Item, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return []core.Item{{ID: "bag1"}}, nil
}

func TestGuardPassesThrough(t *testing.T) {
	g := NewGuard("test-ok", time.Second, BreakerConfig{}, zerolog.Nop())
	c := GuardCatalog(&fakeCatalog{}, g)

	items, err := c.GetAll(context.Background())
	if err != nil || len(items) != 1 {
		t.Fatalf("GetAll() = %v, %v", items, err)
	}
}

func TestGuardTimeoutIsUnavailable(t *testing.T) {
	g := NewGuard("test-timeout", 10*time.Millisecond, BreakerConfig{}, zerolog.Nop())
	c := GuardCatalog(&fakeCatalog{delay: time.Second}, g)

	_, err := c.GetAll(context.Background())
	if !core.IsUnavailable(err) {
		t.Fatalf("GetAll() error = %v, want unavailable", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("cause lost: %v", err)
	}
}

func TestGuardOpensBreaker(t *testing.T) {
	backendErr := errors.New("connection refused")
	fake := &fakeCatalog{err: backendErr}
	g := NewGuard("test-breaker", time.Second, BreakerConfig{FailureThreshold: 3, Timeout: time.Minute}, zerolog.Nop())
	c := GuardCatalog(fake, g)

	for i := 0; i < 3; i++ {
		_, err := c.GetAll(context.Background())
		if !core.IsUnavailable(err) || !errors.Is(err, backendErr) {
			t.Fatalf("call %d error = %v", i, err)
		}
	}
	if g.State() != gobreaker.StateOpen {
		t.Fatalf("breaker state = %v, want open", g.State())
	}

	_, err := c.GetAll(context.Background())
	if !core.IsUnavailable(err) || !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("open breaker error = %v", err)
	}
	if fake.calls != 3 {
		t.Errorf("backend called %d times, want 3", fake.calls)
	}
}

type notFoundVectors struct{}

func (notFoundVectors) Name() string { return "nf" }
func (notFoundVectors) Get(context.Context, string) (core.Embedding, error) {
	return nil, core.ErrStoreNotFound
}

func TestGuardNotFoundIsNotFailure(t *testing.T) {
	g := NewGuard("test-notfound", time.Second, BreakerConfig{FailureThreshold: 1}, zerolog.Nop())
	v := GuardVectors(notFoundVectors{}, g)

	for i := 0; i < 3; i++ {
		if _, err := v.Get(context.Background(), "x"); !core.IsNotFound(err) {
			t.Fatalf("Get() error = %v, want not found", err)
		}
	}
	if g.State() != gobreaker.StateClosed {
		t.Errorf("breaker state = %v, want closed", g.State())
	}
}

func TestGuardCallerCancelIsNotFailure(t *testing.T) {
	m := NewMemoryStore(loadTestFixtures(t), 0.5)
	g := NewGuard("test-cancel", time.Second, BreakerConfig{FailureThreshold: 3, Timeout: time.Minute}, zerolog.Nop())
	signals := GuardSignals(m, g)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		_, err := signals.List(canceled, "popular")
		if !errors.Is(err, context.Canceled) || core.IsUnavailable(err) {
			t.Fatalf("call %d error = %v, want context.Canceled", i, err)
		}
	}

	// 调用方在后端返回前到期
	fake := &fakeCatalog{delay: time.Second}
	c := GuardCatalog(fake, g)
	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		_, err := c.GetAll(ctx)
		cancel()
		if !errors.Is(err, context.DeadlineExceeded) || core.IsUnavailable(err) {
			t.Fatalf("call %d error = %v, want deadline exceeded", i, err)
		}
	}
	if fake.calls != 3 {
		t.Errorf("backend called %d times, want 3", fake.calls)
	}
	if g.State() != gobreaker.StateClosed {
		t.Fatalf("breaker state = %v, want closed", g.State())
	}

	if ids, err := signals.List(context.Background(), "popular"); err != nil || len(ids) != 3 {
		t.Errorf("List() after cancellations = %v, %v", ids, err)
	}
}

func TestGuardOwnTimeoutCountsAsFailure(t *testing.T) {
	g := NewGuard("test-own-timeout", 5*time.Millisecond, BreakerConfig{FailureThreshold: 2, Timeout: time.Minute}, zerolog.Nop())
	c := GuardCatalog(&fakeCatalog{delay: time.Second}, g)

	for i := 0; i < 2; i++ {
		if _, err := c.GetAll(context.Background()); !core.IsUnavailable(err) {
			t.Fatalf("call %d error = %v, want unavailable", i, err)
		}
	}
	if g.State() != gobreaker.StateOpen {
		t.Errorf("breaker state = %v, want open", g.State())
	}
}

func TestGuardIndex(t *testing.T) {
	m := NewMemoryStore(loadTestFixtures(t), 0.5)
	g := NewGuard("test-index", time.Second, BreakerConfig{}, zerolog.Nop())
	idx := GuardIndex(m.ItemVectors(), g)

	all, err := idx.All(context.Background())
	if err != nil || len(all) != 5 || idx.Dimension(context.Background()) != 5 {
		t.Fatalf("All() = %d vectors, dim %d, err %v", len(all), idx.Dimension(context.Background()), err)
	}
	signals := GuardSignals(m, g)
	if ids, err := signals.List(context.Background(), "popular"); err != nil || len(ids) != 3 {
		t.Fatalf("List() = %v, %v", ids, err)
	}
}
