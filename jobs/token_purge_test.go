package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	jobmetrics "github.com/readgate/readgate/internal/jobs"
)

type fakePurger struct {
	deleted int64
	err     error
	calls   int
	lastNow time.Time
}

func (f *fakePurger) DeleteExpiredRefreshTokens(_ context.Context, now time.Time) (int64, error) {
	f.calls++
	f.lastNow = now
	return f.deleted, f.err
}

func TestTokenPurgeHandle(t *testing.T) {
	purger := &fakePurger{deleted: 3}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	job := NewTokenPurgeJob(purger, logger, nil)

	if err := job.Handle(context.Background(), NewTokenPurgeTask()); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if purger.calls != 1 {
		t.Fatalf("expected one purge call, got %d", purger.calls)
	}
	if purger.lastNow.IsZero() {
		t.Fatal("expected a cutoff timestamp")
	}
}

func TestTokenPurgeHandlePropagatesError(t *testing.T) {
	wantErr := errors.New("boom")
	job := NewTokenPurgeJob(&fakePurger{err: wantErr}, nil, nil)

	if err := job.Handle(context.Background(), NewTokenPurgeTask()); !errors.Is(err, wantErr) {
		t.Fatalf("expected error to propagate, got %v", err)
	}
}

func TestTokenPurgeRecordsMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(registry)
	job := NewTokenPurgeJob(&fakePurger{deleted: 5}, nil, metrics)

	if err := job.Handle(context.Background(), NewTokenPurgeTask()); err != nil {
		t.Fatalf("handle: %v", err)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, name := range []string{"readgate_jobs_total", "readgate_refresh_tokens_purged_total"} {
		if !found[name] {
			t.Fatalf("expected metric %s to be recorded", name)
		}
	}
}
