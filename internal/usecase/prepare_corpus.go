package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/ports"
)

// PrepareCorpus stages the corpus under a data directory: clone if needed,
// then write one listing per split.
type PrepareCorpus struct {
	fetcher  ports.CorpusFetcher
	listings ports.ListingStore
	store    ports.ArtifactStore // nil disables manifests

	log       *slog.Logger
	now       func() time.Time
	skipClone bool
}

type PrepareOption func(*PrepareCorpus)

func WithLogger(l *slog.Logger) PrepareOption {
	return func(uc *PrepareCorpus) {
		if l != nil {
			uc.log = l
		}
	}
}

func WithClock(now func() time.Time) PrepareOption {
	return func(uc *PrepareCorpus) { uc.now = now }
}

// WithSkipClone makes a missing corpus directory an error instead of
// triggering a clone.
func WithSkipClone(skip bool) PrepareOption {
	return func(uc *PrepareCorpus) { uc.skipClone = skip }
}

func NewPrepareCorpus(f ports.CorpusFetcher, ls ports.ListingStore, store ports.ArtifactStore, opts ...PrepareOption) *PrepareCorpus {
	uc := &PrepareCorpus{
		fetcher:  f,
		listings: ls,
		store:    store,
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute runs the staging steps for dataDir. The returned id is empty when
// no artifact store is configured.
func (uc *PrepareCorpus) Execute(ctx context.Context, dataDir string, spec domain.CorpusSpec) (domain.PrepResult, string, error) {
	if err := spec.Validate(); err != nil {
		return domain.PrepResult{}, "", err
	}

	res := domain.PrepResult{
		DataDir:   dataDir,
		CorpusDir: filepath.Join(dataDir, spec.Dir),
		CorpusURL: spec.URL,
		StartedAt: uc.now(),
	}

	cloned, err := uc.EnsureCorpus(ctx, res.CorpusDir, spec.URL)
	if err != nil {
		return res, "", err
	}
	res.Cloned = cloned

	splits, err := uc.stageSplits(ctx, dataDir, spec)
	if err != nil {
		return res, "", err
	}
	res.Splits = splits
	res.EndedAt = uc.now()

	uc.log.Info("prep.done",
		"data_dir", dataDir,
		"cloned", res.Cloned,
		"utterances", res.TotalUtterances(),
		"duration_ms", res.Duration().Milliseconds(),
	)

	if uc.store == nil {
		return res, "", nil
	}
	id, err := uc.store.SavePrep(domain.PrepArtifact{PrepResult: res})
	if err != nil {
		return res, "", fmt.Errorf("save manifest: %w", err)
	}
	return res, id, nil
}

// EnsureCorpus clones url into corpusDir unless the directory already
// exists. It reports whether a clone happened.
func (uc *PrepareCorpus) EnsureCorpus(ctx context.Context, corpusDir, url string) (bool, error) {
	info, err := os.Stat(corpusDir)
	switch {
	case err == nil && info.IsDir():
		uc.log.Debug("prep.clone.skip", "dir", corpusDir)
		return false, nil
	case err == nil:
		return false, &domain.OpError{
			Op:   "prep.corpus",
			Kind: domain.KindInvalidConfig,
			Path: corpusDir,
			Err:  errors.New("corpus path exists but is not a directory"),
		}
	case !errors.Is(err, os.ErrNotExist):
		return false, &domain.OpError{Op: "prep.corpus", Kind: domain.KindExecution, Path: corpusDir, Err: err}
	}

	if uc.skipClone {
		return false, &domain.OpError{
			Op:   "prep.corpus",
			Kind: domain.KindNotFound,
			Path: corpusDir,
			Err:  fmt.Errorf("corpus not present and cloning is disabled: %w", domain.ErrNotFound),
		}
	}

	uc.log.Info("prep.clone.start", "url", url, "dir", corpusDir)
	if err := uc.fetcher.Fetch(ctx, url, corpusDir); err != nil {
		uc.log.Error("prep.clone.failed", "url", url, "err", err)
		return false, err
	}
	uc.log.Info("prep.clone.done", "dir", corpusDir)
	return true, nil
}

// ScanSplit lists the wavs of one split of the corpus.
func (uc *PrepareCorpus) ScanSplit(ctx context.Context, dataDir string, spec domain.CorpusSpec, split string) (domain.SplitListing, error) {
	return uc.listings.Scan(ctx, split, splitSource(dataDir, spec, split))
}

// WriteListing writes the list files of a split under dataDir/<split>.
func (uc *PrepareCorpus) WriteListing(dataDir string, l domain.SplitListing) error {
	return uc.listings.Write(filepath.Join(dataDir, l.Split), l)
}

// Splits own disjoint output directories, so they are staged concurrently.
// Results keep the order of spec.Splits.
func (uc *PrepareCorpus) stageSplits(ctx context.Context, dataDir string, spec domain.CorpusSpec) ([]domain.SplitResult, error) {
	out := make([]domain.SplitResult, len(spec.Splits))

	g, gctx := errgroup.WithContext(ctx)
	for i, split := range spec.Splits {
		i, split := i, split
		g.Go(func() error {
			l, err := uc.ScanSplit(gctx, dataDir, spec, split)
			if err != nil {
				return err
			}
			if err := uc.WriteListing(dataDir, l); err != nil {
				return err
			}

			outDir := filepath.Join(dataDir, split)
			out[i] = domain.SplitResult{
				Split:      split,
				Source:     splitSource(dataDir, spec, split),
				Utterances: l.Len(),
				ScpPath:    filepath.Join(outDir, domain.ScpFile),
				UttIDsPath: filepath.Join(outDir, domain.UttIDsFile),
			}
			uc.log.Info("prep.split.written", "split", split, "utterances", l.Len())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func splitSource(dataDir string, spec domain.CorpusSpec, split string) string {
	return filepath.Join(dataDir, spec.Dir, spec.SplitsDir, split)
}
