package cron

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"
)

type passthroughRunner struct{}

func (passthroughRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type recordingCartRepo struct {
	cutoff  time.Time
	deleted int64
}

func (r *recordingCartRepo) DeleteGuestCartsBefore(_ context.Context, _ *gorm.DB, cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	return r.deleted, nil
}

func TestGuestCartCleanupUsesRetentionCutoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &recordingCartRepo{deleted: 3}

	job, err := NewGuestCartCleanupJob(GuestCartCleanupJobParams{
		Logger:     testLogger(),
		DB:         passthroughRunner{},
		Repository: repo,
		Retention:  48 * time.Hour,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	job.(*guestCartCleanupJob).now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := now.Add(-48 * time.Hour); !repo.cutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", repo.cutoff, want)
	}
}

func TestGuestCartCleanupDefaultsRetention(t *testing.T) {
	t.Parallel()

	job, err := NewGuestCartCleanupJob(GuestCartCleanupJobParams{
		Logger:     testLogger(),
		DB:         passthroughRunner{},
		Repository: &recordingCartRepo{},
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if got := job.(*guestCartCleanupJob).retention; got != defaultGuestCartRetention {
		t.Fatalf("retention = %v, want %v", got, defaultGuestCartRetention)
	}
}
