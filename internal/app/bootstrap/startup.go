// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/timeclock/internal/app/system/timeouts"
	"github.com/dalemusser/timeclock/internal/app/system/timezones"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built: the curated
// zone list, the fallback zone and the store timeout budget.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := timezones.Load(); err != nil {
		return fmt.Errorf("load time zones: %w", err)
	}
	if err := timezones.SetDefault(appCfg.DefaultTimeZone); err != nil {
		return fmt.Errorf("default time zone: %w", err)
	}

	timeouts.Configure(timeouts.Config{Lookup: appCfg.StoreTimeout})
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n))
	}

	cur := timeouts.Current()
	logger.Info("startup complete",
		zap.String("default_time_zone", timezones.Default()),
		zap.Duration("store_timeout", cur.Lookup),
		zap.Duration("clock_in_grace", appCfg.ClockInGrace))
	return nil
}
