// Package logging provides category-scoped structured logging for labsim.
// Each subsystem logs through a named child of one process-wide zap logger.
// Until Init is called every logger is a no-op, so library code can log
// unconditionally without configuration.
package logging

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category identifies a logging subsystem.
type Category string

const (
	CategoryCatalog  Category = "catalog"
	CategoryGrammar  Category = "grammar"
	CategoryEngine   Category = "engine"
	CategoryProgress Category = "progress"
	CategorySession  Category = "session"
	CategoryStore    Category = "store"
	CategoryCLI      Category = "cli"
)

var (
	mu    sync.RWMutex
	base  = zap.NewNop()
	named = make(map[Category]*zap.Logger)
)

// Field helpers, re-exported so call sites only import this package.
var (
	String   = zap.String
	Strings  = zap.Strings
	Int      = zap.Int
	Bool     = zap.Bool
	Float64  = zap.Float64
	Duration = zap.Duration
	Err      = zap.Error
	Any      = zap.Any
)

// Init builds the process logger. level is one of debug, info, warn,
// error; development selects the human-readable console encoder.
func Init(level string, development bool) error {
	var lvl zapcore.Level
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "", "info":
		lvl = zapcore.InfoLevel
	case "warn", "warning":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		return fmt.Errorf("unknown log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	SetBase(logger)
	return nil
}

// SetBase replaces the process logger. Tests use this to install
// zaptest or observer loggers.
func SetBase(logger *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = logger
	named = make(map[Category]*zap.Logger)
}

// L returns the logger for a category. Safe to call before Init.
func L(category Category) *zap.Logger {
	mu.RLock()
	if l, ok := named[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := named[category]; ok {
		return l
	}
	l := base.Named(string(category))
	named[category] = l
	return l
}

// Sync flushes buffered log entries. Call at shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = base.Sync()
}
