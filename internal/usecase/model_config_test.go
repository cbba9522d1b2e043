package usecase

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/infra/modelyaml"
)

const smallModelYAML = `name: small
vars:
  feadim: 4
data_dim: "{{feadim}}"
latent_dim: "{{latent}}"
encoder:
  hidden_dim: 8
  n_layers: 1
  activation: tanh
  out_dim: 6
  cov_type: diagonal
flow:
  type: planar
  n_blocks: 1
decoder:
  hidden_dim: 8
  n_layers: 1
  activation: tanh
  cov_type: isotropic
`

func writeModel(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "model.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func newModelConfigs() *ModelConfigs {
	l := modelyaml.NewLoader()
	return NewModelConfigs(l, l)
}

func TestModelConfigs_Resolve(t *testing.T) {
	p := writeModel(t, smallModelYAML)

	m, err := newModelConfigs().Resolve(p, domain.Vars{"latent": "2"})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if m.DataDim != domain.IntDim(4) || m.LatentDim != domain.IntDim(2) {
		t.Fatalf("unexpected dims: data=%s latent=%s", m.DataDim, m.LatentDim)
	}
}

func TestModelConfigs_CLIVarsOverrideConfigVars(t *testing.T) {
	p := writeModel(t, smallModelYAML)

	m, err := newModelConfigs().Resolve(p, domain.Vars{"latent": "2", "feadim": "39"})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if m.DataDim != domain.IntDim(39) {
		t.Fatalf("expected command-line feadim to win, got %s", m.DataDim)
	}
}

func TestModelConfigs_MissingVar(t *testing.T) {
	p := writeModel(t, smallModelYAML)

	_, err := newModelConfigs().Resolve(p, nil)
	if !domain.IsKind(err, domain.KindMissingVar) {
		t.Fatalf("expected missing_variable, got %v", err)
	}
	if !strings.Contains(err.Error(), "latent_dim") || !strings.Contains(err.Error(), p) {
		t.Fatalf("expected field and path in error, got %v", err)
	}
}

func TestModelConfigs_InvalidAfterResolve(t *testing.T) {
	p := writeModel(t, smallModelYAML)

	_, err := newModelConfigs().Resolve(p, domain.Vars{"latent": "0"})
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestModelConfigs_Summarize(t *testing.T) {
	p := writeModel(t, smallModelYAML)

	s, err := newModelConfigs().Summarize(p, domain.Vars{"latent": "2"})
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if s.Name != "small" || len(s.Layers) != 6 || s.Params != 226 {
		t.Fatalf("unexpected summary: name=%s layers=%d params=%d", s.Name, len(s.Layers), s.Params)
	}
}

func TestModelConfigs_RenderAndQuery(t *testing.T) {
	p := writeModel(t, smallModelYAML)
	uc := newModelConfigs()
	vars := domain.Vars{"latent": "2"}

	out, err := uc.Render(p, vars)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if strings.Contains(string(out), "{{") {
		t.Fatalf("rendered config must be resolved:\n%s", out)
	}

	got, err := uc.Query(p, vars, "$.latent_dim")
	if err != nil || got != "2" {
		t.Fatalf("Query latent_dim = %q err=%v", got, err)
	}
	got, err = uc.Query(p, vars, "$.flow.type")
	if err != nil || got != "planar" {
		t.Fatalf("Query flow.type = %q err=%v", got, err)
	}
	if _, err := uc.Query(p, vars, "$.nope"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestModelConfigs_LoadMissingFile(t *testing.T) {
	_, err := newModelConfigs().Resolve(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}
