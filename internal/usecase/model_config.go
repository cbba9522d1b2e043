package usecase

import (
	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/ports"
	ucquery "github.com/srinivasaraghavankm/beer/internal/usecase/query"
)

// ModelConfigs loads, resolves and inspects VAE configurations.
type ModelConfigs struct {
	loader   ports.ModelLoader
	renderer ports.ModelRenderer
}

func NewModelConfigs(l ports.ModelLoader, r ports.ModelRenderer) *ModelConfigs {
	return &ModelConfigs{loader: l, renderer: r}
}

// ModelSummary is the layer breakdown of a resolved configuration.
type ModelSummary struct {
	Name   string
	Layers []domain.LayerShape
	Params int
}

// Resolve loads path, applies config vars then cliVars, and validates.
func (uc *ModelConfigs) Resolve(path string, cliVars domain.Vars) (domain.ModelConfig, error) {
	raw, err := uc.loader.LoadModel(path)
	if err != nil {
		return domain.ModelConfig{}, err
	}

	// config vars < command-line vars
	resolved, err := domain.NewVarResolver(raw.Vars, cliVars).ResolveModel(raw)
	if err != nil {
		return domain.ModelConfig{}, withPath(err, path)
	}
	if err := resolved.Validate(); err != nil {
		return domain.ModelConfig{}, withPath(err, path)
	}
	return resolved, nil
}

func (uc *ModelConfigs) Render(path string, cliVars domain.Vars) ([]byte, error) {
	m, err := uc.Resolve(path, cliVars)
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderModel(m)
}

func (uc *ModelConfigs) Summarize(path string, cliVars domain.Vars) (ModelSummary, error) {
	m, err := uc.Resolve(path, cliVars)
	if err != nil {
		return ModelSummary{}, err
	}
	layers, err := m.Layers()
	if err != nil {
		return ModelSummary{}, err
	}
	return ModelSummary{
		Name:   m.Name,
		Layers: layers,
		Params: domain.ParamCount(layers),
	}, nil
}

// Query evaluates a JSONPath expression on the resolved configuration and
// returns the formatted match.
func (uc *ModelConfigs) Query(path string, cliVars domain.Vars, expr string) (string, error) {
	out, err := uc.Render(path, cliVars)
	if err != nil {
		return "", err
	}
	doc, err := ucquery.Document(out)
	if err != nil {
		return "", err
	}
	v, err := ucquery.Eval(doc, expr)
	if err != nil {
		return "", err
	}
	return ucquery.Format(v)
}

func withPath(err error, path string) error {
	return &domain.OpError{
		Op:   "model.resolve",
		Kind: domain.KindOf(err),
		Path: path,
		Err:  err,
	}
}
