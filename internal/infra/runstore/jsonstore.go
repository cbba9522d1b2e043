package runstore

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/ports"
)

const defaultRunsDir = ".beerprep/runs"

// maskValue matches what url.URL.Redacted uses for passwords.
const maskValue = "xxxxx"
const indexFile = "index.jsonl"

type JSONStore struct {
	rootDir     string
	runsDirName string
	writeIndex  bool
	now         func() time.Time
	newID       func() string
}

type Option func(*JSONStore)

// WithIndex enables a simple JSONL index: <runs>/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

// WithIDGenerator overrides run id generation (useful for tests).
func WithIDGenerator(gen func() string) Option {
	return func(s *JSONStore) { s.newID = gen }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	runsDir := cfg.Paths.RunsDir
	if strings.TrimSpace(runsDir) == "" {
		runsDir = defaultRunsDir
	}

	s := &JSONStore{
		rootDir:     root,
		runsDirName: runsDir,
		writeIndex:  false,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ArtifactStore = (*JSONStore)(nil)

// Dir is the directory manifests are written to.
func (s *JSONStore) Dir() string {
	return filepath.Join(s.rootDir, s.runsDirName)
}

func (s *JSONStore) SavePrep(run domain.PrepArtifact) (string, error) {
	dir := s.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := run.StartedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	toSave := maskArtifact(run)
	if toSave.StartedAt.IsZero() {
		toSave.StartedAt = ts
	}
	if strings.TrimSpace(toSave.ID) == "" {
		toSave.ID = s.newID()
	}

	slug := slugify(filepath.Base(filepath.Clean(run.DataDir)))
	if slug == "" {
		slug = "prep"
	}

	filename := fmt.Sprintf("%s_%s.json", ts.Format("20060102T150405Z"), slug)
	path := filepath.Join(dir, filename)

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "runstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "runstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, filename, toSave)
	}

	return toSave.ID, nil
}

// IndexEntry is one line of index.jsonl.
type IndexEntry struct {
	ID         string    `json:"id"`
	File       string    `json:"file"`
	DataDir    string    `json:"data_dir"`
	Cloned     bool      `json:"cloned"`
	Utterances int       `json:"utterances"`
	StartedAt  time.Time `json:"started_at"`
}

func (s *JSONStore) appendIndex(dir, filename string, run domain.PrepArtifact) error {
	line, err := json.Marshal(IndexEntry{
		ID:         run.ID,
		File:       filename,
		DataDir:    run.DataDir,
		Cloned:     run.Cloned,
		Utterances: run.TotalUtterances(),
		StartedAt:  run.StartedAt,
	})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(dir, indexFile)
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
	return nil
}

// ListPreps returns the indexed runs, newest first. A missing index yields
// an empty list. Malformed lines are skipped.
func (s *JSONStore) ListPreps() ([]IndexEntry, error) {
	indexPath := filepath.Join(s.Dir(), indexFile)
	f, err := os.Open(indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []IndexEntry{}, nil
		}
		return nil, &domain.OpError{
			Op:   "runstore.list",
			Kind: domain.KindExecution,
			Path: indexPath,
			Err:  err,
		}
	}
	defer f.Close()

	var out []IndexEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e IndexEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.OpError{
			Op:   "runstore.list",
			Kind: domain.KindExecution,
			Path: indexPath,
			Err:  err,
		}
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	if out == nil {
		out = []IndexEntry{}
	}
	return out, nil
}

// maskArtifact returns a masked copy (does NOT mutate the input).
// Credentials embedded in the corpus URL are never written to disk.
func maskArtifact(run domain.PrepArtifact) domain.PrepArtifact {
	out := run
	out.CorpusURL = maskURL(run.CorpusURL)
	out.Splits = cloneSplits(run.Splits)
	return out
}

func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, hasPass := u.User.Password(); hasPass {
		return u.Redacted()
	}
	if isSensitiveKey(u.User.Username()) || looksLikeToken(u.User.Username()) {
		u.User = url.User(maskValue)
		return u.String()
	}
	return raw
}

func isSensitiveKey(k string) bool {
	kk := strings.ToLower(k)
	return strings.Contains(kk, "token") ||
		strings.Contains(kk, "secret") ||
		strings.Contains(kk, "password")
}

// looksLikeToken flags long opaque usernames such as GitHub personal access
// tokens used as https://<token>@github.com/...
func looksLikeToken(s string) bool {
	if len(s) < 20 {
		return false
	}
	return strings.HasPrefix(s, "ghp_") ||
		strings.HasPrefix(s, "github_pat_") ||
		strings.HasPrefix(s, "glpat-") ||
		!strings.ContainsAny(s, ".@-")
}

func cloneSplits(in []domain.SplitResult) []domain.SplitResult {
	if in == nil {
		return []domain.SplitResult{}
	}
	out := make([]domain.SplitResult, len(in))
	copy(out, in)
	return out
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastDash = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
