// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - Request body size limits
//
// AppConfig is where the time clock's own settings live: the database,
// sessions, the attendance rules and how audit events are recorded.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: timeclock-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Attendance rules
	DefaultTimeZone       string        // Zone used when an organization's display zone is unknown
	ClockInGrace          time.Duration // How early before a shift clock-in opens
	DefaultGeofenceRadius float64       // Meters, for locations without their own radius
	ClockRateLimit        int           // Clock-in/out requests per employee per minute

	// Store call budget for request handlers (timeouts.Lookup)
	StoreTimeout time.Duration

	// Audit logging destinations: all | db | log | off
	AuditLogAuth       string
	AuditLogAttendance string
	AuditLogAdmin      string

	// Browser origins allowed to call the API (empty: same-origin only)
	CORSAllowedOrigins []string

	// First admin, created with its organization when no user has this email.
	BootstrapAdminEmail string
	BootstrapAdminName  string
	BootstrapOrgName    string
}
