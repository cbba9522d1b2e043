package fslisting

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/ports"
)

// Store reads and writes split listings on the local filesystem.
type Store struct {
	fileMode fs.FileMode
}

type Option func(*Store)

// WithFileMode overrides the permissions of written list files.
func WithFileMode(mode fs.FileMode) Option {
	return func(s *Store) { s.fileMode = mode }
}

func NewStore(opts ...Option) *Store {
	s := &Store{fileMode: 0o644}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ListingStore = (*Store)(nil)

// Scan walks srcDir and collects every regular file ending in .wav.
// Paths are kept as joined from srcDir so wavs.scp mirrors how the data
// directory was given.
func (s *Store) Scan(ctx context.Context, split, srcDir string) (domain.SplitListing, error) {
	info, err := os.Stat(srcDir)
	if err != nil {
		return domain.SplitListing{}, &domain.OpError{
			Op:   "listing.scan",
			Kind: domain.KindNotFound,
			Path: srcDir,
			Err:  err,
		}
	}
	if !info.IsDir() {
		return domain.SplitListing{}, &domain.OpError{
			Op:   "listing.scan",
			Kind: domain.KindInvalidConfig,
			Path: srcDir,
			Err:  errors.New("split source is not a directory"),
		}
	}

	var wavs []string
	walkErr := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}
		if !strings.HasSuffix(d.Name(), domain.WavExt) {
			return nil
		}
		if err := domain.ValidateUttID(domain.UttIDFromPath(p)); err != nil {
			return &domain.OpError{
				Op:   "listing.scan",
				Kind: domain.KindInvalidConfig,
				Path: p,
				Err:  err,
			}
		}
		wavs = append(wavs, p)
		return nil
	})
	if walkErr != nil {
		if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
			return domain.SplitListing{}, walkErr
		}
		var opErr *domain.OpError
		if errors.As(walkErr, &opErr) {
			return domain.SplitListing{}, opErr
		}
		return domain.SplitListing{}, &domain.OpError{
			Op:   "listing.scan",
			Kind: domain.KindExecution,
			Path: srcDir,
			Err:  walkErr,
		}
	}

	return domain.NewListing(split, wavs), nil
}

// Write creates outDir and writes wavs.scp and uttids.
func (s *Store) Write(outDir string, l domain.SplitListing) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return &domain.OpError{
			Op:   "listing.mkdir",
			Kind: domain.KindExecution,
			Path: outDir,
			Err:  err,
		}
	}

	if err := s.writeAtomic(filepath.Join(outDir, domain.ScpFile), l.ScpContent()); err != nil {
		return err
	}
	return s.writeAtomic(filepath.Join(outDir, domain.UttIDsFile), l.UttIDsContent())
}

// Read parses outDir/wavs.scp back into a listing. The uttids file must
// agree with it line by line.
func (s *Store) Read(outDir, split string) (domain.SplitListing, error) {
	scpPath := filepath.Join(outDir, domain.ScpFile)
	utts, err := readScp(scpPath)
	if err != nil {
		return domain.SplitListing{}, err
	}

	idsPath := filepath.Join(outDir, domain.UttIDsFile)
	ids, err := readLines(idsPath)
	if err != nil {
		return domain.SplitListing{}, err
	}
	if len(ids) != len(utts) {
		return domain.SplitListing{}, &domain.OpError{
			Op:   "listing.read",
			Kind: domain.KindInvalidConfig,
			Path: idsPath,
			Err:  fmt.Errorf("%d ids for %d scp entries", len(ids), len(utts)),
		}
	}
	for i := range ids {
		if ids[i] != utts[i].ID {
			return domain.SplitListing{}, &domain.OpError{
				Op:   "listing.read",
				Kind: domain.KindInvalidConfig,
				Path: idsPath,
				Err:  fmt.Errorf("line %d: id %q does not match scp id %q", i+1, ids[i], utts[i].ID),
			}
		}
	}

	return domain.SplitListing{Split: split, Utterances: utts}, nil
}

func (s *Store) writeAtomic(path, content string) error {
	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), s.fileMode); err != nil {
		return &domain.OpError{
			Op:   "listing.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "listing.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return nil
}

func readScp(path string) ([]domain.Utterance, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Utterance, 0, len(lines))
	for i, line := range lines {
		u, perr := domain.ParseScpLine(line)
		if perr != nil {
			return nil, &domain.OpError{
				Op:   "listing.read",
				Kind: domain.KindInvalidConfig,
				Path: path,
				Err:  fmt.Errorf("line %d: %w", i+1, perr),
			}
		}
		out = append(out, u)
	}
	return out, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "listing.read",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.OpError{
			Op:   "listing.read",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}
	return lines, nil
}
