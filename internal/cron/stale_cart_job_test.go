package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/apmw/freshbrand-backend/pkg/logger"
)

type fakeCartRepo struct {
	cutoff  time.Time
	deleted int64
	err     error
}

func (f *fakeCartRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.deleted, f.err
}

func TestStaleCartJobUsesConfiguredWindow(t *testing.T) {
	repo := &fakeCartRepo{deleted: 4}
	job, err := NewStaleCartJob(StaleCartJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard}),
		Repository: repo,
		StaleAfter: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	job.(*staleCartJob).now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := now.Add(-7 * 24 * time.Hour)
	if !repo.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, repo.cutoff)
	}
}

func TestStaleCartJobDefaultsStaleWindow(t *testing.T) {
	job, err := NewStaleCartJob(StaleCartJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard}),
		Repository: &fakeCartRepo{},
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.(*staleCartJob).staleAfter != defaultCartStaleAfter {
		t.Fatalf("expected default stale window")
	}
}

func TestStaleCartJobPropagatesRepoError(t *testing.T) {
	job, err := NewStaleCartJob(StaleCartJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard}),
		Repository: &fakeCartRepo{err: errors.New("boom")},
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected error from repository")
	}
}

func TestStaleCartJobRequiresRepository(t *testing.T) {
	_, err := NewStaleCartJob(StaleCartJobParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard}),
	})
	if err == nil {
		t.Fatalf("expected construction error without repository")
	}
}
