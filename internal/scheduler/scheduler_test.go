// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/olegiv/ostore-go/internal/middleware"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	logger := testLogger()

	s := New(logger)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if s.logger != logger {
		t.Error("New() scheduler has wrong logger")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testLogger())
	if err := s.Add("noop", "@every 1h", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s.Start()
	s.Stop()
}

func TestScheduler_Add(t *testing.T) {
	s := New(testLogger())
	noop := func(context.Context) error { return nil }

	if err := s.Add("job", "*/5 * * * *", noop); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("job", "*/5 * * * *", noop); err == nil {
		t.Error("Add() with duplicate name should fail")
	}
	if err := s.Add("bad", "not a schedule", noop); err == nil {
		t.Error("Add() with invalid schedule should fail")
	}

	jobs := s.Jobs()
	if len(jobs) != 1 {
		t.Fatalf("Jobs() returned %d jobs, want 1", len(jobs))
	}
	if jobs[0].Name != "job" || jobs[0].Schedule != "*/5 * * * *" {
		t.Errorf("unexpected job info: %+v", jobs[0])
	}
}

func TestScheduler_JobsSorted(t *testing.T) {
	s := New(testLogger())
	noop := func(context.Context) error { return nil }
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.Add(name, "@daily", noop); err != nil {
			t.Fatalf("Add(%s) error = %v", name, err)
		}
	}

	jobs := s.Jobs()
	want := []string{"alpha", "mid", "zeta"}
	for i, name := range want {
		if jobs[i].Name != name {
			t.Errorf("jobs[%d] = %q, want %q", i, jobs[i].Name, name)
		}
	}
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(testLogger())

	calls := 0
	if err := s.Add("count", "@daily", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Error("job context should carry a deadline")
		}
		calls++
		return nil
	}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := s.RunNow("count"); err != nil {
		t.Fatalf("RunNow() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	if err := s.RunNow("missing"); err == nil {
		t.Error("RunNow() on unknown job should fail")
	}
}

func TestScheduler_RunNowPropagatesError(t *testing.T) {
	s := New(testLogger())
	boom := errors.New("boom")
	if err := s.Add("fail", "@daily", func(context.Context) error { return boom }); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := s.RunNow("fail"); !errors.Is(err, boom) {
		t.Errorf("RunNow() error = %v, want %v", err, boom)
	}
}

type fakePurger struct {
	olderThan time.Duration
	err       error
}

func (f *fakePurger) DeleteOldEvents(_ context.Context, olderThan time.Duration) error {
	f.olderThan = olderThan
	return f.err
}

type fakeCounter struct{ n int64 }

func (f fakeCounter) CountProducts(context.Context) (int64, error) { return f.n, nil }

func TestRegisterMaintenance(t *testing.T) {
	s := New(testLogger())
	purger := &fakePurger{}
	metrics := middleware.NewMetrics(prometheus.NewRegistry())

	if err := RegisterMaintenance(s, purger, 48*time.Hour, fakeCounter{n: 7}, metrics); err != nil {
		t.Fatalf("RegisterMaintenance() error = %v", err)
	}
	if len(s.Jobs()) != 2 {
		t.Fatalf("registered %d jobs, want 2", len(s.Jobs()))
	}

	if err := s.RunNow(JobPurgeEvents); err != nil {
		t.Fatalf("RunNow(%s) error = %v", JobPurgeEvents, err)
	}
	if purger.olderThan != 48*time.Hour {
		t.Errorf("purge cutoff = %v, want 48h", purger.olderThan)
	}

	if err := s.RunNow(JobCatalogGauges); err != nil {
		t.Fatalf("RunNow(%s) error = %v", JobCatalogGauges, err)
	}
	if got := testutil.ToFloat64(metrics.CatalogSize); got != 7 {
		t.Errorf("catalog gauge = %v, want 7", got)
	}
}

func TestRegisterMaintenance_WithoutGauges(t *testing.T) {
	s := New(testLogger())
	var metrics *middleware.Metrics
	if err := RegisterMaintenance(s, &fakePurger{}, time.Hour, fakeCounter{n: 1}, metrics); err != nil {
		t.Fatalf("RegisterMaintenance() error = %v", err)
	}

	jobs := s.Jobs()
	if len(jobs) != 1 || jobs[0].Name != JobPurgeEvents {
		t.Errorf("jobs = %+v, want only %s", jobs, JobPurgeEvents)
	}
	if err := s.RunNow(JobCatalogGauges); err == nil {
		t.Errorf("RunNow(%s) should fail when the job is not registered", JobCatalogGauges)
	}
}
