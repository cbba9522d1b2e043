package domain

import "time"

// Config represents the beerprep configuration loaded from beerprep.yaml.
type Config struct {
	Corpus CorpusSpec
	Clone  CloneConfig
	Paths  PathsConfig
}

type CloneConfig struct {
	// Depth is passed as --depth to git clone when > 0.
	Depth   int
	Timeout time.Duration
}

type PathsConfig struct {
	RunsDir     string
	LogsDir     string
	ModelConfig string
}

// Default corpus location and layout of the Mboshi-French parallel corpus.
const (
	DefaultCorpusURL       = "https://github.com/besacier/mboshi-french-parallel-corpus"
	DefaultCorpusDir       = "local/mboshi"
	DefaultCorpusSplitsDir = "full_corpus_newsplit"
)

// DefaultSplits are the dataset splits emitted by a staging run.
func DefaultSplits() []string {
	return []string{"train", "dev"}
}

// DefaultConfig provides sane defaults if beerprep.yaml is missing or partial.
func DefaultConfig() Config {
	return Config{
		Corpus: CorpusSpec{
			URL:       DefaultCorpusURL,
			Dir:       DefaultCorpusDir,
			SplitsDir: DefaultCorpusSplitsDir,
			Splits:    DefaultSplits(),
		},
		Clone: CloneConfig{
			Timeout: 30 * time.Minute,
		},
		Paths: PathsConfig{
			RunsDir:     ".beerprep/runs",
			LogsDir:     ".beerprep/logs",
			ModelConfig: "conf/vae_nflow.yaml",
		},
	}
}

// WorkspaceSpec describes where a workspace is initialized.
type WorkspaceSpec struct {
	Root string
}
