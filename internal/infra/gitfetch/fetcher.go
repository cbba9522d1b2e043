package gitfetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/ports"
)

// RunFunc executes a command. Errors should carry the tail of its stderr.
type RunFunc func(ctx context.Context, name string, args ...string) error

// Fetcher clones corpora with the git binary.
type Fetcher struct {
	git     string
	depth   int
	timeout time.Duration
	run     RunFunc
}

type Option func(*Fetcher)

// WithGit overrides the git executable (default "git").
func WithGit(path string) Option {
	return func(f *Fetcher) {
		if strings.TrimSpace(path) != "" {
			f.git = path
		}
	}
}

// WithDepth makes clones shallow when depth > 0.
func WithDepth(depth int) Option {
	return func(f *Fetcher) { f.depth = depth }
}

// WithTimeout bounds a single clone. Zero means no extra bound.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithRunner replaces command execution (useful for tests).
func WithRunner(run RunFunc) Option {
	return func(f *Fetcher) {
		if run != nil {
			f.run = run
		}
	}
}

func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		git: "git",
		run: execRun,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ ports.CorpusFetcher = (*Fetcher)(nil)

// Fetch clones url into dest. A dest that is already a git checkout is
// left untouched.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) error {
	if strings.TrimSpace(url) == "" {
		return &domain.OpError{
			Op:   "gitfetch.fetch",
			Kind: domain.KindInvalidConfig,
			Path: dest,
			Err:  errors.New("corpus url is empty"),
		}
	}

	if _, err := os.Stat(filepath.Join(dest, ".git")); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return &domain.OpError{
			Op:   "gitfetch.mkdir",
			Kind: domain.KindExecution,
			Path: filepath.Dir(dest),
			Err:  err,
		}
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	if err := f.run(ctx, f.git, f.cloneArgs(url, dest)...); err != nil {
		// A failed clone can leave a partial checkout behind; the next run
		// would then skip cloning, so remove it.
		_ = os.RemoveAll(dest)
		return &domain.OpError{
			Op:   "gitfetch.clone",
			Kind: domain.KindExecution,
			Path: dest,
			Err:  fmt.Errorf("git clone %s: %w", url, err),
		}
	}
	return nil
}

func (f *Fetcher) cloneArgs(url, dest string) []string {
	args := []string{"clone", "--quiet"}
	if f.depth > 0 {
		args = append(args, "--depth", strconv.Itoa(f.depth))
	}
	return append(args, url, dest)
}

func execRun(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if msg := tail(stderr.String(), 512); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
