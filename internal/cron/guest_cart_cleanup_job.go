package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pawmart/backoffice-backend/pkg/logger"
)

const defaultGuestCartRetention = 7 * 24 * time.Hour

type guestCartCleanupRepo interface {
	DeleteGuestCartsBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

// GuestCartCleanupJobParams configure the guest cart sweep.
type GuestCartCleanupJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository guestCartCleanupRepo
	Retention  time.Duration
}

// NewGuestCartCleanupJob builds the job that prunes abandoned guest carts.
// Only carts untouched for the retention window are removed, so an active
// guest keeps their cart across sweeps.
func NewGuestCartCleanupJob(params GuestCartCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultGuestCartRetention
	}
	return &guestCartCleanupJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type guestCartCleanupJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      guestCartCleanupRepo
	retention time.Duration
	now       func() time.Time
}

func (j *guestCartCleanupJob) Name() string { return "guest-cart-cleanup" }

func (j *guestCartCleanupJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteGuestCartsBefore(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("guest cart cleanup: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":        cutoff,
		"carts_deleted": deleted,
	})
	j.logg.Info(logCtx, "guest cart cleanup complete")
	return nil
}
