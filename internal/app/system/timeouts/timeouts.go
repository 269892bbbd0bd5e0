// Package timeouts holds the deadlines applied to store calls made while serving
// a request. Each operation class has its own budget so a slow calendar range
// query cannot eat into the budget of a clock-in.
//
// Budgets start at the defaults below and can be changed at startup with
// Configure or ConfigureFromEnv.
//
//   - Ping: database connectivity checks
//   - Lookup: one document by id, email or name
//   - Clock: a clock-in/out, several dependent reads then one write
//   - Range: calendar, time entry and audit queries over a date range
//   - Bulk: recurrence groups, index builds, the admin seed
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Defaults used until Configure is called.
const (
	DefaultPing   = 2 * time.Second
	DefaultLookup = 5 * time.Second
	DefaultClock  = 10 * time.Second
	DefaultRange  = 15 * time.Second
	DefaultBulk   = 60 * time.Second
)

// Config is a full set of budgets. Zero fields leave the current value alone.
type Config struct {
	Ping   time.Duration
	Lookup time.Duration
	Clock  time.Duration
	Range  time.Duration
	Bulk   time.Duration
}

func defaults() Config {
	return Config{
		Ping:   DefaultPing,
		Lookup: DefaultLookup,
		Clock:  DefaultClock,
		Range:  DefaultRange,
		Bulk:   DefaultBulk,
	}
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(cur)
}

func Ping() time.Duration   { return get(func(c Config) time.Duration { return c.Ping }) }
func Lookup() time.Duration { return get(func(c Config) time.Duration { return c.Lookup }) }
func Clock() time.Duration  { return get(func(c Config) time.Duration { return c.Clock }) }
func Range() time.Duration  { return get(func(c Config) time.Duration { return c.Range }) }
func Bulk() time.Duration   { return get(func(c Config) time.Duration { return c.Bulk }) }

// fields pairs each budget with its environment variable.
func (c *Config) fields() []struct {
	env string
	d   *time.Duration
} {
	return []struct {
		env string
		d   *time.Duration
	}{
		{"TIMECLOCK_TIMEOUT_PING", &c.Ping},
		{"TIMECLOCK_TIMEOUT_LOOKUP", &c.Lookup},
		{"TIMECLOCK_TIMEOUT_CLOCK", &c.Clock},
		{"TIMECLOCK_TIMEOUT_RANGE", &c.Range},
		{"TIMECLOCK_TIMEOUT_BULK", &c.Bulk},
	}
}

// Configure overrides the budgets set to a positive value in cfg.
//
//	timeouts.Configure(timeouts.Config{Lookup: appCfg.StoreTimeout})
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	src := cfg.fields()
	for i, f := range cur.fields() {
		if v := *src[i].d; v > 0 {
			*f.d = v
		}
	}
}

// Reset restores the defaults. Tests use it to undo Configure.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults()
}

// ConfigureFromEnv applies TIMECLOCK_TIMEOUT_{PING,LOOKUP,CLOCK,RANGE,BULK}
// ("750ms", "20s", ...). Unset, unparsable and non-positive values are skipped.
// It returns how many budgets changed.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	n := 0
	for _, f := range cur.fields() {
		v := os.Getenv(f.env)
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*f.d = d
			n++
		}
	}
	return n
}

// Current returns a copy of the budgets in effect.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when the
// deadline was what ended the operation.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Range(), h.Log, "audit log list")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout))
		}
		cancel()
	}
}
