package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/apmw/freshbrand-backend/pkg/logger"
)

const defaultCartStaleAfter = 30 * 24 * time.Hour

// staleCartRepo removes cart lines untouched since the cutoff.
type staleCartRepo interface {
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// StaleCartJobParams configure the abandoned-cart cleanup job.
type StaleCartJobParams struct {
	Logger     *logger.Logger
	Repository staleCartRepo
	StaleAfter time.Duration
}

// NewStaleCartJob deletes cart lines that have not been touched for the
// configured window. Carts are rebuilt from the catalog on demand, so a
// stale line is safe to drop without notice.
func NewStaleCartJob(params StaleCartJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	staleAfter := params.StaleAfter
	if staleAfter <= 0 {
		staleAfter = defaultCartStaleAfter
	}
	return &staleCartJob{
		logg:       params.Logger,
		repo:       params.Repository,
		staleAfter: staleAfter,
		now:        time.Now,
	}, nil
}

type staleCartJob struct {
	logg       *logger.Logger
	repo       staleCartRepo
	staleAfter time.Duration
	now        func() time.Time
}

func (j *staleCartJob) Name() string { return "stale-cart-cleanup" }

func (j *staleCartJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.staleAfter)
	deleted, err := j.repo.DeleteStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("stale cart cleanup: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"stale_after":  j.staleAfter.String(),
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "stale cart cleanup complete")
	return nil
}
