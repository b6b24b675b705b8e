// Package timeouts provides centralized deadlines for record store calls.
//
// Values start at the defaults below and are overridden once at startup
// from the timeout_* configuration keys via Configure.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Read: one store read (fetch all, search, categories, get by id)
//   - Load: a full catalog load (both startup reads together)
//   - Write: admin create, update, delete
//   - Batch: seeding and CSV export
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing  = 2 * time.Second
	DefaultRead  = 5 * time.Second
	DefaultLoad  = 15 * time.Second
	DefaultWrite = 10 * time.Second
	DefaultBatch = 60 * time.Second
)

var (
	mu      sync.RWMutex
	current = defaults()
)

// Config holds timeout values. Zero values are ignored by Configure.
type Config struct {
	Ping  time.Duration
	Read  time.Duration
	Load  time.Duration
	Write time.Duration
	Batch time.Duration
}

func defaults() Config {
	return Config{
		Ping:  DefaultPing,
		Read:  DefaultRead,
		Load:  DefaultLoad,
		Write: DefaultWrite,
		Batch: DefaultBatch,
	}
}

func get(f func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return f(current)
}

func Ping() time.Duration  { return get(func(c Config) time.Duration { return c.Ping }) }
func Read() time.Duration  { return get(func(c Config) time.Duration { return c.Read }) }
func Load() time.Duration  { return get(func(c Config) time.Duration { return c.Load }) }
func Write() time.Duration { return get(func(c Config) time.Duration { return c.Write }) }
func Batch() time.Duration { return get(func(c Config) time.Duration { return c.Batch }) }

// Configure overrides the non-zero values in cfg. Call it during startup
// before handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	set := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	set(&current.Ping, cfg.Ping)
	set(&current.Read, cfg.Read)
	set(&current.Load, cfg.Load)
	set(&current.Write, cfg.Write)
	set(&current.Batch, cfg.Batch)
}

// Reset restores the defaults. Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaults()
}

// Current returns the active configuration, for logging.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context was canceled due to deadline exceeded.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Load(), h.Log, "catalog load")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
