package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/infra/fslisting"
)

// fakeFetcher lays out a tiny corpus instead of cloning.
type fakeFetcher struct {
	calls atomic.Int32
	files map[string]string // path relative to dest -> content
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string, dest string) error {
	f.calls.Add(1)
	if f.err != nil {
		return f.err
	}
	for rel, content := range f.files {
		p := filepath.Join(dest, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

type fakeStore struct {
	saved []domain.PrepArtifact
	err   error
}

func (s *fakeStore) SavePrep(run domain.PrepArtifact) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, run)
	return "run-1", nil
}

func mboshiFiles() map[string]string {
	base := "full_corpus_newsplit"
	return map[string]string{
		base + "/train/abiayi_2015-09-08-11-11-12_samsung-SM-T530_mdw_elicit_Dico18_1.wav":        "",
		base + "/train/abiayi_2015-09-08-11-11-12_samsung-SM-T530_mdw_elicit_Dico18_1.mb":         "mboshi text",
		base + "/train/sub/kouarata_2015-10-05-12-13-12_samsung-SM-T530_mdw_elicit_Dico18_44.wav": "",
		base + "/train/abiayi_2015-09-08-11-00-00_samsung-SM-T530_mdw_elicit_Dico18_2.wav":        "",
		base + "/dev/martial_2015-09-08-10-00-00_samsung-SM-T530_mdw_elicit_Dico17_7.wav":         "",
	}
}

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
}

func TestPrepareCorpus_ClonesAndWritesListings(t *testing.T) {
	dataDir := t.TempDir()
	f := &fakeFetcher{files: mboshiFiles()}
	store := &fakeStore{}

	uc := NewPrepareCorpus(f, fslisting.NewStore(), store, WithClock(fixedClock()))
	res, id, err := uc.Execute(context.Background(), dataDir, domain.DefaultConfig().Corpus)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if id != "run-1" || len(store.saved) != 1 {
		t.Fatalf("expected one saved manifest, got id=%q saved=%d", id, len(store.saved))
	}
	if !res.Cloned || f.calls.Load() != 1 {
		t.Fatalf("expected a single clone, cloned=%v calls=%d", res.Cloned, f.calls.Load())
	}
	if res.TotalUtterances() != 4 {
		t.Fatalf("expected 4 utterances, got %d", res.TotalUtterances())
	}
	if res.Duration() != time.Second {
		t.Fatalf("unexpected duration %s", res.Duration())
	}
	if res.Splits[0].Split != "train" || res.Splits[1].Split != "dev" {
		t.Fatalf("split order must follow the configured splits: %+v", res.Splits)
	}

	scp, err := os.ReadFile(filepath.Join(dataDir, "train", domain.ScpFile))
	if err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(dataDir, "local", "mboshi", "full_corpus_newsplit", "train")
	want := strings.Join([]string{
		"abiayi_2015-09-08-11-00-00_samsung-SM-T530_mdw_elicit_Dico18_2 " + filepath.Join(src, "abiayi_2015-09-08-11-00-00_samsung-SM-T530_mdw_elicit_Dico18_2.wav"),
		"abiayi_2015-09-08-11-11-12_samsung-SM-T530_mdw_elicit_Dico18_1 " + filepath.Join(src, "abiayi_2015-09-08-11-11-12_samsung-SM-T530_mdw_elicit_Dico18_1.wav"),
		"kouarata_2015-10-05-12-13-12_samsung-SM-T530_mdw_elicit_Dico18_44 " + filepath.Join(src, "sub", "kouarata_2015-10-05-12-13-12_samsung-SM-T530_mdw_elicit_Dico18_44.wav"),
	}, "\n") + "\n"
	if string(scp) != want {
		t.Fatalf("unexpected wavs.scp:\n got %q\nwant %q", scp, want)
	}

	ids, err := os.ReadFile(filepath.Join(dataDir, "train", domain.UttIDsFile))
	if err != nil {
		t.Fatal(err)
	}
	wantIDs := "abiayi_2015-09-08-11-00-00_samsung-SM-T530_mdw_elicit_Dico18_2\n" +
		"abiayi_2015-09-08-11-11-12_samsung-SM-T530_mdw_elicit_Dico18_1\n" +
		"kouarata_2015-10-05-12-13-12_samsung-SM-T530_mdw_elicit_Dico18_44\n"
	if string(ids) != wantIDs {
		t.Fatalf("unexpected uttids:\n%s", ids)
	}
}

func TestPrepareCorpus_IdempotentRerun(t *testing.T) {
	dataDir := t.TempDir()
	f := &fakeFetcher{files: mboshiFiles()}
	uc := NewPrepareCorpus(f, fslisting.NewStore(), nil)

	if _, _, err := uc.Execute(context.Background(), dataDir, domain.DefaultConfig().Corpus); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := readListings(t, dataDir)

	res, id, err := uc.Execute(context.Background(), dataDir, domain.DefaultConfig().Corpus)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if id != "" {
		t.Fatalf("no store configured, expected empty id, got %q", id)
	}
	if res.Cloned || f.calls.Load() != 1 {
		t.Fatalf("second run must not clone, cloned=%v calls=%d", res.Cloned, f.calls.Load())
	}
	if second := readListings(t, dataDir); second != first {
		t.Fatalf("list files changed between runs")
	}
}

func TestPrepareCorpus_SkipCloneWithoutCorpus(t *testing.T) {
	f := &fakeFetcher{}
	uc := NewPrepareCorpus(f, fslisting.NewStore(), nil, WithSkipClone(true))

	_, _, err := uc.Execute(context.Background(), t.TempDir(), domain.DefaultConfig().Corpus)
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if f.calls.Load() != 0 {
		t.Fatalf("fetcher must not be called")
	}
}

func TestPrepareCorpus_CloneFailure(t *testing.T) {
	cloneErr := &domain.OpError{Op: "gitfetch.clone", Kind: domain.KindExecution, Err: errors.New("network down")}
	uc := NewPrepareCorpus(&fakeFetcher{err: cloneErr}, fslisting.NewStore(), &fakeStore{})

	_, id, err := uc.Execute(context.Background(), t.TempDir(), domain.DefaultConfig().Corpus)
	if !errors.Is(err, domain.ErrExecution) {
		t.Fatalf("expected execution error, got %v", err)
	}
	if id != "" {
		t.Fatalf("no manifest expected on failure")
	}
}

func TestPrepareCorpus_MissingSplitDir(t *testing.T) {
	files := mboshiFiles()
	for k := range files {
		if strings.Contains(k, "/dev/") {
			delete(files, k)
		}
	}
	uc := NewPrepareCorpus(&fakeFetcher{files: files}, fslisting.NewStore(), nil)

	_, _, err := uc.Execute(context.Background(), t.TempDir(), domain.DefaultConfig().Corpus)
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found for missing dev split, got %v", err)
	}
	if !strings.Contains(err.Error(), filepath.Join("full_corpus_newsplit", "dev")) {
		t.Fatalf("expected split path in error, got %v", err)
	}
}

func TestPrepareCorpus_InvalidSpec(t *testing.T) {
	spec := domain.DefaultConfig().Corpus
	spec.Splits = []string{"train", "train"}

	uc := NewPrepareCorpus(&fakeFetcher{}, fslisting.NewStore(), nil)
	if _, _, err := uc.Execute(context.Background(), t.TempDir(), spec); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestPrepareCorpus_CorpusPathIsFile(t *testing.T) {
	dataDir := t.TempDir()
	p := filepath.Join(dataDir, "local", "mboshi")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	uc := NewPrepareCorpus(&fakeFetcher{}, fslisting.NewStore(), nil)
	if _, err := uc.EnsureCorpus(context.Background(), p, "u"); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestPrepareCorpus_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := NewPrepareCorpus(&fakeFetcher{files: mboshiFiles()}, fslisting.NewStore(), nil)
	_, _, err := uc.Execute(ctx, t.TempDir(), domain.DefaultConfig().Corpus)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func readListings(t *testing.T, dataDir string) string {
	t.Helper()
	var b strings.Builder
	for _, split := range domain.DefaultSplits() {
		for _, name := range []string{domain.ScpFile, domain.UttIDsFile} {
			data, err := os.ReadFile(filepath.Join(dataDir, split, name))
			if err != nil {
				t.Fatal(err)
			}
			b.Write(data)
		}
	}
	return b.String()
}
