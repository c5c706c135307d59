package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the full process configuration, read once at startup.
type Config struct {
	Server    Server
	Log       Log
	CEP       CEP
	RateLimit RateLimit
	Redis     RedisConfig
	Tracing   Tracing
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// Log selects the slog handler.
type Log struct {
	Level  string
	Format string // "json" or "text"
}

// CEP tunes the lookup pipeline.
type CEP struct {
	AttemptDelay     time.Duration
	UserAgent        string
	BatchConcurrency int
}

// RateLimit configures the per-IP limit on the lookup API.
type RateLimit struct {
	Disabled bool
	Requests int
	Window   time.Duration
}

// RedisConfig holds connection settings. An empty URL means Redis is not used.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Tracing configures span export. An empty ZipkinURL disables export.
type Tracing struct {
	ZipkinURL   string
	ServiceName string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	e := env{lookup: lookup}

	cfg := Config{
		Server: Server{
			Addr:            e.str("BRASILSEARCH_ADDR", ":8080"),
			ShutdownTimeout: e.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: Log{
			Level:  e.str("LOG_LEVEL", "info"),
			Format: e.str("LOG_FORMAT", "json"),
		},
		CEP: CEP{
			AttemptDelay:     e.duration("CEP_ATTEMPT_DELAY", 300*time.Millisecond),
			UserAgent:        e.str("CEP_USER_AGENT", "Brasil-Search/1.0"),
			BatchConcurrency: e.integer("CEP_BATCH_CONCURRENCY", 4),
		},
		RateLimit: RateLimit{
			Disabled: e.boolean("RATE_LIMIT_DISABLED", false),
			Requests: e.integer("RATE_LIMIT_REQUESTS", 60),
			Window:   e.duration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Redis: RedisConfig{
			URL:          e.str("REDIS_URL", ""),
			PoolSize:     e.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: e.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  e.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  e.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: e.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Tracing: Tracing{
			ZipkinURL:   e.str("ZIPKIN_URL", ""),
			ServiceName: e.str("SERVICE_NAME", "brasilsearch"),
		},
	}

	if cfg.CEP.AttemptDelay < 0 {
		e.fail("CEP_ATTEMPT_DELAY", "must not be negative")
	}
	if cfg.CEP.BatchConcurrency < 1 {
		e.fail("CEP_BATCH_CONCURRENCY", "must be at least 1")
	}
	if !cfg.RateLimit.Disabled {
		if cfg.RateLimit.Requests < 1 {
			e.fail("RATE_LIMIT_REQUESTS", "must be at least 1")
		}
		if cfg.RateLimit.Window <= 0 {
			e.fail("RATE_LIMIT_WINDOW", "must be positive")
		}
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		e.fail("LOG_FORMAT", `must be "json" or "text"`)
	}

	if err := errors.Join(e.errs...); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// env reads typed values and accumulates parse errors.
type env struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *env) fail(key, msg string) {
	e.errs = append(e.errs, fmt.Errorf("%s %s", key, msg))
}

func (e *env) str(key, def string) string {
	if v, ok := e.lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (e *env) integer(key string, def int) int {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, fmt.Sprintf("is not an integer: %q", v))
		return def
	}
	return n
}

func (e *env) duration(key string, def time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, fmt.Sprintf("is not a duration: %q", v))
		return def
	}
	return d
}

func (e *env) boolean(key string, def bool) bool {
	v, ok := e.lookup(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.fail(key, fmt.Sprintf("is not a boolean: %q", v))
		return def
	}
	return b
}
