package cron

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"
)

type recordingNotificationRepo struct {
	cutoff  time.Time
	deleted int64
}

func (r *recordingNotificationRepo) DeleteOlderThan(_ context.Context, _ *gorm.DB, cutoff time.Time) (int64, error) {
	r.cutoff = cutoff
	return r.deleted, nil
}

func TestNotificationCleanupUsesRetentionCutoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &recordingNotificationRepo{deleted: 5}

	job, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:     testLogger(),
		DB:         passthroughRunner{},
		Repository: repo,
		Retention:  30 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	job.(*notificationCleanupJob).now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := now.Add(-30 * 24 * time.Hour); !repo.cutoff.Equal(want) {
		t.Fatalf("cutoff = %v, want %v", repo.cutoff, want)
	}
}

func TestNotificationCleanupDefaultsRetention(t *testing.T) {
	t.Parallel()

	job, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:     testLogger(),
		DB:         passthroughRunner{},
		Repository: &recordingNotificationRepo{},
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	if got := job.(*notificationCleanupJob).retention; got != defaultNotificationRetention {
		t.Fatalf("retention = %v, want %v", got, defaultNotificationRetention)
	}
}
