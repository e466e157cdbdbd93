package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/restaurant-backend/pkg/config"
	"github.com/angelmondragon/restaurant-backend/pkg/db"
	"github.com/angelmondragon/restaurant-backend/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in dev mode,
// the SQL storage driver is selected and the feature flag is enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if client == nil || !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dialect": Dialect(cfg.DB)}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "migrate.autorun_start")

	if err := RunEmbedded(ctx, sqlDB, Dialect(cfg.DB), "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "migrate.autorun_complete")
	return nil
}
