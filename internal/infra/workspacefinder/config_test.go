package workspacefinder

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/srinivasaraghavankm/beer/internal/domain"
)

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ConfigFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	root := filepath.Join(t.TempDir(), "ws")

	// Partial config (only clone depth)
	writeConfig(t, root, "beerprep:\n  clone:\n    depth: 1\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Clone.Depth != 1 {
		t.Fatalf("expected depth=1, got=%d", cfg.Clone.Depth)
	}
	if cfg.Corpus.URL != domain.DefaultCorpusURL {
		t.Fatalf("expected default url, got=%s", cfg.Corpus.URL)
	}
	if cfg.Corpus.Dir != "local/mboshi" {
		t.Fatalf("expected default dir, got=%s", cfg.Corpus.Dir)
	}
	if cfg.Corpus.SplitsDir != "full_corpus_newsplit" {
		t.Fatalf("expected default splits dir, got=%s", cfg.Corpus.SplitsDir)
	}
	if !reflect.DeepEqual(cfg.Corpus.Splits, []string{"train", "dev"}) {
		t.Fatalf("expected default splits, got=%v", cfg.Corpus.Splits)
	}
	if cfg.Clone.Timeout != 30*time.Minute {
		t.Fatalf("expected default timeout, got=%s", cfg.Clone.Timeout)
	}
	if cfg.Paths.RunsDir != ".beerprep/runs" {
		t.Fatalf("expected default runs dir, got=%s", cfg.Paths.RunsDir)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `beerprep:
  corpus:
    url: https://example.com/other.git
    dir: corpora/other
    splits_dir: ""
    splits: [train, dev, test]
  clone:
    timeout: 90s
  paths:
    runs_dir: runs
    model_config: conf/model.yaml
`)

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	want := domain.CorpusSpec{
		URL:       "https://example.com/other.git",
		Dir:       "corpora/other",
		SplitsDir: "",
		Splits:    []string{"train", "dev", "test"},
	}
	if !reflect.DeepEqual(cfg.Corpus, want) {
		t.Fatalf("unexpected corpus spec: %#v", cfg.Corpus)
	}
	if cfg.Clone.Timeout != 90*time.Second {
		t.Fatalf("expected timeout 90s, got %s", cfg.Clone.Timeout)
	}
	if cfg.Paths.RunsDir != "runs" || cfg.Paths.ModelConfig != "conf/model.yaml" {
		t.Fatalf("unexpected paths: %#v", cfg.Paths)
	}
	if cfg.Paths.LogsDir != ".beerprep/logs" {
		t.Fatalf("expected default logs dir, got %s", cfg.Paths.LogsDir)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		kind    domain.ErrorKind
		want    string
	}{
		{"bad yaml", "beerprep: [", domain.KindInvalidConfig, ConfigFile},
		{"bad timeout", "beerprep:\n  clone:\n    timeout: soon\n", domain.KindInvalidConfig, "clone.timeout"},
		{"bad split", "beerprep:\n  corpus:\n    splits: [\"../x\"]\n", domain.KindInvalidConfig, "corpus.splits[0]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			root := t.TempDir()
			writeConfig(t, root, c.content)

			_, err := LoadConfig(root)
			if !domain.IsKind(err, c.kind) {
				t.Fatalf("expected %s, got %v", c.kind, err)
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Fatalf("expected %q in %v", c.want, err)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if cfg.Corpus.URL != domain.DefaultCorpusURL {
		t.Fatalf("expected defaults even on error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{EnvCorpusURL: " https://mirror.example.com/mboshi.git "}
	cfg := ApplyEnv(domain.DefaultConfig(), func(k string) string { return env[k] })
	if cfg.Corpus.URL != "https://mirror.example.com/mboshi.git" {
		t.Fatalf("expected env override, got %s", cfg.Corpus.URL)
	}

	cfg = ApplyEnv(domain.DefaultConfig(), func(string) string { return "" })
	if cfg.Corpus.URL != domain.DefaultCorpusURL {
		t.Fatalf("expected default url, got %s", cfg.Corpus.URL)
	}
}
