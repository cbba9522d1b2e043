// Package logger holds the process-wide slog logger. Commands run inside a
// workspace append JSON lines to <root>/.beerprep/logs/beerprep.log; before
// Setup and after its cleanup every record is discarded.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	DefaultDir = ".beerprep/logs"
	FileName   = "beerprep.log"
)

type Config struct {
	Root    string // workspace root
	Dir     string // relative to Root; DefaultDir when empty
	Debug   bool   // debug level and source locations
	Command string // added to every record as "cmd" when set
}

type sink struct {
	log  *slog.Logger
	file *os.File
	path string
}

var (
	mu  sync.RWMutex
	cur = sink{log: discard()}
)

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Setup opens the log file and installs it as the global logger. On error
// the logger is reset to discard and the command carries on.
func Setup(cfg Config) (func() error, error) {
	root := cfg.Root
	if root == "" {
		root = "."
	}
	dir := cfg.Dir
	if dir == "" {
		dir = filepath.FromSlash(DefaultDir)
	}
	path := filepath.Join(filepath.Clean(root), dir, FileName)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		reset()
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		reset()
		return nil, fmt.Errorf("open log file: %w", err)
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo, ReplaceAttr: utcTime}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}
	l := slog.New(slog.NewJSONHandler(f, opts))
	if cfg.Command != "" {
		l = l.With("cmd", cfg.Command)
	}

	mu.Lock()
	cur = sink{log: l, file: f, path: path}
	mu.Unlock()

	l.Info("logger.initialized", "path", path, "debug", cfg.Debug)

	return func() error {
		mu.Lock()
		defer mu.Unlock()
		if cur.file != f {
			// A later Setup already replaced this file.
			return f.Close()
		}
		cur = sink{log: discard()}
		return f.Close()
	}, nil
}

func utcTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
		a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
	}
	return a
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = sink{log: discard()}
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return cur.log
}

// Path is the active log file, or "" when logs are discarded.
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return cur.path
}
