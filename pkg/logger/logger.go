// Package logger holds the process-wide zerolog logger for the BeSide API and
// its tools.
//
// main calls Init once with the values from config (LOG_LEVEL, LOG_PRETTY,
// ENV). Every subsystem then takes its own child logger through Component,
// so each entry carries "service", "env" and "component" fields:
//
//	{"level":"info","service":"beside-api","env":"production","component":"auth",...}
//
// Production writes one JSON object per line to stdout. LOG_PRETTY switches to
// zerolog's console writer for local work.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options are read by the first Init call only.
type Options struct {
	Level   string    // trace, debug, info, warn or error; anything else means info
	Pretty  bool      // console output instead of JSON
	Output  io.Writer // os.Stdout when nil
	Service string    // "service" field
	Env     string    // "env" field
}

var (
	mu    sync.Mutex
	once  sync.Once
	root  zerolog.Logger
	ready bool
)

// Init builds the shared logger from opts and returns it. Later calls return
// the logger built by the first one and ignore their options.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	once.Do(func() {
		root = build(opts)
		ready = true
	})
	return root
}

func build(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	w := opts.Output
	if w == nil {
		w = os.Stdout
	}
	if opts.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	level := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(level)

	fields := zerolog.New(w).Level(level).With().Timestamp().Caller()
	if opts.Service != "" {
		fields = fields.Str("service", opts.Service)
	}
	if opts.Env != "" {
		fields = fields.Str("env", opts.Env)
	}
	return fields.Logger()
}

// Component returns a child logger for one subsystem, e.g. "auth", "mail" or
// "trips".
func Component(name string) zerolog.Logger {
	return Get().With().Str("component", name).Logger()
}

// Get returns the shared logger. It panics before Init.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if !ready {
		panic("logger: Get() called before Init()")
	}
	return root
}

// Reset drops the shared logger so tests can call Init again.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	once = sync.Once{}
	root = zerolog.Logger{}
	ready = false
}

func parseLevel(s string) zerolog.Level {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warning" {
		name = "warn"
	}
	switch level, err := zerolog.ParseLevel(name); {
	case err != nil:
		return zerolog.InfoLevel
	case level < zerolog.TraceLevel, level > zerolog.ErrorLevel:
		return zerolog.InfoLevel
	default:
		return level
	}
}
