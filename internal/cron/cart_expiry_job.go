package cron

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/restaurant-backend/pkg/logger"
)

const CartExpiryJobName = "cart_expiry"

// cartPruner deletes stored carts that were not written since cutoff.
type cartPruner interface {
	PruneOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int64, error)
}

type CartExpiryJobParams struct {
	Logger    *logger.Logger
	Store     cartPruner
	KeyPrefix string
	Retention time.Duration
	Now       func() time.Time
}

// CartExpiryJob drops session carts left untouched for longer than the retention window.
type CartExpiryJob struct {
	logg      *logger.Logger
	store     cartPruner
	prefix    string
	retention time.Duration
	now       func() time.Time
}

func NewCartExpiryJob(params CartExpiryJobParams) (*CartExpiryJob, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Store == nil {
		return nil, errors.New("cart store required")
	}
	if params.KeyPrefix == "" {
		return nil, errors.New("cart key prefix required")
	}
	if params.Retention <= 0 {
		return nil, errors.New("retention must be positive")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &CartExpiryJob{
		logg:      params.Logger,
		store:     params.Store,
		prefix:    params.KeyPrefix + ":",
		retention: params.Retention,
		now:       now,
	}, nil
}

func (j *CartExpiryJob) Name() string { return CartExpiryJobName }

func (j *CartExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.retention)
	removed, err := j.store.PruneOlderThan(ctx, j.prefix, cutoff)
	if err != nil {
		return err
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"removed": removed,
		"cutoff":  cutoff.UTC().Format(time.RFC3339),
	}), "cron.carts_expired")
	return nil
}
