package workspacefinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/srinivasaraghavankm/beer/internal/domain"
)

// ConfigFile is the name of the workspace configuration file.
const ConfigFile = "beerprep.yaml"

// EnvCorpusURL overrides the corpus URL of any workspace.
const EnvCorpusURL = "BEERPREP_CORPUS_URL"

// LoadConfig loads beerprep.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	c := y.Beerprep
	if v := strings.TrimSpace(c.Corpus.URL); v != "" {
		cfg.Corpus.URL = v
	}
	if v := strings.TrimSpace(c.Corpus.Dir); v != "" {
		cfg.Corpus.Dir = v
	}
	if c.Corpus.SplitsDir != nil {
		// An explicit empty value means splits live directly under dir.
		cfg.Corpus.SplitsDir = strings.TrimSpace(*c.Corpus.SplitsDir)
	}
	if len(c.Corpus.Splits) > 0 {
		cfg.Corpus.Splits = append([]string(nil), c.Corpus.Splits...)
	}
	if c.Clone.Depth != nil {
		cfg.Clone.Depth = *c.Clone.Depth
	}
	if v := strings.TrimSpace(c.Clone.Timeout); v != "" {
		d, perr := time.ParseDuration(v)
		if perr != nil || d < 0 {
			return cfg, &domain.OpError{
				Op:   "workspacefinder.loadconfig",
				Kind: domain.KindInvalidConfig,
				Path: path,
				Err:  fmt.Errorf("field clone.timeout: invalid duration %q: %w", v, domain.ErrInvalidConfig),
			}
		}
		cfg.Clone.Timeout = d
	}
	if v := strings.TrimSpace(c.Paths.RunsDir); v != "" {
		cfg.Paths.RunsDir = v
	}
	if v := strings.TrimSpace(c.Paths.LogsDir); v != "" {
		cfg.Paths.LogsDir = v
	}
	if v := strings.TrimSpace(c.Paths.ModelConfig); v != "" {
		cfg.Paths.ModelConfig = v
	}

	if err := cfg.Corpus.Validate(); err != nil {
		var oe *domain.OpError
		if errors.As(err, &oe) {
			oe.Path = path
		}
		return cfg, err
	}

	return cfg, nil
}

// ApplyEnv overlays environment overrides onto cfg.
func ApplyEnv(cfg domain.Config, getenv func(string) string) domain.Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvCorpusURL)); v != "" {
		cfg.Corpus.URL = v
	}
	return cfg
}

type yamlConfig struct {
	Beerprep struct {
		Corpus struct {
			URL       string   `yaml:"url"`
			Dir       string   `yaml:"dir"`
			SplitsDir *string  `yaml:"splits_dir"`
			Splits    []string `yaml:"splits"`
		} `yaml:"corpus"`

		Clone struct {
			Depth   *int   `yaml:"depth"`
			Timeout string `yaml:"timeout"`
		} `yaml:"clone"`

		Paths struct {
			RunsDir     string `yaml:"runs_dir"`
			LogsDir     string `yaml:"logs_dir"`
			ModelConfig string `yaml:"model_config"`
		} `yaml:"paths"`
	} `yaml:"beerprep"`
}
