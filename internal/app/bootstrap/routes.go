// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/timeclock/internal/app/attendance"
	auditlogfeature "github.com/dalemusser/timeclock/internal/app/features/auditlog"
	calendarfeature "github.com/dalemusser/timeclock/internal/app/features/calendar"
	clockfeature "github.com/dalemusser/timeclock/internal/app/features/clock"
	healthfeature "github.com/dalemusser/timeclock/internal/app/features/health"
	loginfeature "github.com/dalemusser/timeclock/internal/app/features/login"
	logoutfeature "github.com/dalemusser/timeclock/internal/app/features/logout"
	organizationsfeature "github.com/dalemusser/timeclock/internal/app/features/organizations"
	shiftsfeature "github.com/dalemusser/timeclock/internal/app/features/shifts"
	templatesfeature "github.com/dalemusser/timeclock/internal/app/features/templates"
	timeentriesfeature "github.com/dalemusser/timeclock/internal/app/features/timeentries"
	"github.com/dalemusser/timeclock/internal/app/schedule"
	"github.com/dalemusser/timeclock/internal/app/store/audit"
	locationstore "github.com/dalemusser/timeclock/internal/app/store/locations"
	organizationstore "github.com/dalemusser/timeclock/internal/app/store/organizations"
	shiftstore "github.com/dalemusser/timeclock/internal/app/store/shifts"
	timeentrystore "github.com/dalemusser/timeclock/internal/app/store/timeentries"
	userstore "github.com/dalemusser/timeclock/internal/app/store/users"
	templatestore "github.com/dalemusser/timeclock/internal/app/store/weeklytemplates"
	"github.com/dalemusser/timeclock/internal/app/system/auditlog"
	"github.com/dalemusser/timeclock/internal/app/system/auth"
	"github.com/dalemusser/timeclock/internal/app/system/metrics"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. The attendance core (schedule resolver,
// clock gate and session manager) is assembled here from the Mongo stores and
// handed to the feature routers, which are mounted under /api.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:       appCfg.AuditLogAuth,
		Attendance: appCfg.AuditLogAttendance,
		Admin:      appCfg.AuditLogAdmin,
	})

	users := userstore.New(db)
	orgs := organizationstore.New(db)
	locations := locationstore.New(db)
	entries := timeentrystore.New(db)
	resolver := schedule.NewResolver(shiftstore.New(db), templatestore.New(db), logger)

	opts := attendance.Options{
		Grace:         appCfg.ClockInGrace,
		DefaultRadius: appCfg.DefaultGeofenceRadius,
		Logger:        logger,
		Audit:         auditLog,
	}
	sessions := attendance.NewSessions(entries, users, locations, opts)
	gate := attendance.NewGate(users, orgs, locations, resolver, sessions, opts)

	reg := metrics.NewRegistry()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(appCfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   appCfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           int((5 * time.Minute).Seconds()),
		}))
	}

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler(reg))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, auditLog, logger)
	loginfeature.MountRoutes(r, loginHandler)

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Clock-in / clock-out
	clockHandler := clockfeature.NewHandler(gate, sessions, coreCfg.Env != "prod", logger)
	clockfeature.MountRoutes(r, clockHandler, appCfg.ClockRateLimit)

	// Schedules
	calendarHandler := calendarfeature.NewHandler(orgs, resolver, logger)
	r.Mount("/api/schedule", calendarfeature.Routes(calendarHandler, sessionMgr))

	templatesHandler := templatesfeature.NewHandler(db, auditLog, logger)
	r.Mount("/api/templates", templatesfeature.Routes(templatesHandler, sessionMgr))

	shiftsHandler := shiftsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/api/shifts", shiftsfeature.Routes(shiftsHandler, sessionMgr))

	// Time entries
	entriesHandler := timeentriesfeature.NewHandler(orgs, entries, logger)
	r.Mount("/api/time-entries", timeentriesfeature.Routes(entriesHandler, sessionMgr))

	// Organization, locations and the zone list
	orgHandler := organizationsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/api/organization", organizationsfeature.Routes(orgHandler, sessionMgr))
	r.Get("/api/timezones", orgHandler.ServeTimeZones)

	// Audit log
	auditHandler := auditlogfeature.NewHandler(db, logger)
	r.Mount("/api/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}
