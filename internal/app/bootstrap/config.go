// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/timeclock/internal/app/attendance"
	"github.com/dalemusser/timeclock/internal/app/system/auditlog"
	"github.com/dalemusser/timeclock/internal/app/system/inputval"
	"github.com/dalemusser/timeclock/internal/app/system/ratelimit"
	"github.com/dalemusser/timeclock/internal/app/system/timezones"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the time clock.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: TIMECLOCK_MONGO_URI, TIMECLOCK_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "timeclock", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "timeclock-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 12h, 720h)"},

	// Attendance rules
	{Name: "default_time_zone", Default: timezones.DefaultZone, Desc: "IANA zone for organizations whose time zone is unknown"},
	{Name: "clock_in_grace", Default: "15m", Desc: "How early before a shift starts clock-in is allowed"},
	{Name: "default_geofence_radius", Default: 100, Desc: "Geofence radius in meters for locations without one"},
	{Name: "clock_rate_limit", Default: ratelimit.DefaultClockLimit, Desc: "Clock-in/out requests per employee per minute"},

	{Name: "store_timeout", Default: "5s", Desc: "Timeout for single database operations in request handlers"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_attendance", Default: "all", Desc: "Clock-in/out event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "cors_allowed_origins", Default: "", Desc: "Comma-separated browser origins allowed to call the API"},

	// Admin bootstrap
	{Name: "bootstrap_admin_email", Default: "", Desc: "Email of the first admin (created with its organization on startup)"},
	{Name: "bootstrap_admin_name", Default: "Administrator", Desc: "Full name of the first admin"},
	{Name: "bootstrap_org_name", Default: "My Organization", Desc: "Organization created for the first admin"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, TIMECLOCK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TIMECLOCK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 30*24*time.Hour),

		// Attendance
		DefaultTimeZone:       appValues.String("default_time_zone"),
		ClockInGrace:          appValues.Duration("clock_in_grace", attendance.DefaultGrace),
		DefaultGeofenceRadius: float64(appValues.Int("default_geofence_radius")),
		ClockRateLimit:        appValues.Int("clock_rate_limit"),

		StoreTimeout: appValues.Duration("store_timeout", 5*time.Second),

		// Audit logging
		AuditLogAuth:       appValues.String("audit_log_auth"),
		AuditLogAttendance: appValues.String("audit_log_attendance"),
		AuditLogAdmin:      appValues.String("audit_log_admin"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		// Admin bootstrap
		BootstrapAdminEmail: strings.TrimSpace(appValues.String("bootstrap_admin_email")),
		BootstrapAdminName:  appValues.String("bootstrap_admin_name"),
		BootstrapOrgName:    appValues.String("bootstrap_org_name"),
	}

	return coreCfg, appCfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI, the zone and the attendance numbers are checked here so
// a bad setting fails before anything connects.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if _, err := timezones.LoadLocation(appCfg.DefaultTimeZone); err != nil {
		return fmt.Errorf("default_time_zone %q: %w", appCfg.DefaultTimeZone, err)
	}
	if appCfg.ClockInGrace <= 0 {
		return fmt.Errorf("clock_in_grace must be positive")
	}
	if appCfg.DefaultGeofenceRadius <= 0 {
		return fmt.Errorf("default_geofence_radius must be positive")
	}
	if appCfg.ClockRateLimit <= 0 {
		return fmt.Errorf("clock_rate_limit must be positive")
	}
	if appCfg.StoreTimeout <= 0 {
		return fmt.Errorf("store_timeout must be positive")
	}
	for name, v := range map[string]string{
		"audit_log_auth":       appCfg.AuditLogAuth,
		"audit_log_attendance": appCfg.AuditLogAttendance,
		"audit_log_admin":      appCfg.AuditLogAdmin,
	} {
		if !auditlog.Valid(v) {
			return fmt.Errorf("%s must be one of all, db, log, off (got %q)", name, v)
		}
	}
	if appCfg.BootstrapAdminEmail != "" && !inputval.IsValidEmail(appCfg.BootstrapAdminEmail) {
		return fmt.Errorf("bootstrap_admin_email %q is not a valid email address", appCfg.BootstrapAdminEmail)
	}
	if coreCfg != nil && coreCfg.Env == "prod" && strings.HasPrefix(appCfg.SessionKey, "dev-only") {
		return fmt.Errorf("session_key must be set in production")
	}
	return nil
}
