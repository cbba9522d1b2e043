package modelyaml

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/ports"
)

var _ ports.ModelRenderer = (*Loader)(nil)

// RenderModel lets the loader act as the renderer of what it loads.
func (l *Loader) RenderModel(m domain.ModelConfig) ([]byte, error) {
	return Render(m)
}

// Render encodes the model as YAML with two-space indentation. A resolved
// model renders every dimension as an integer.
func Render(m domain.ModelConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(UnmapModel(m)); err != nil {
		return nil, &domain.OpError{
			Op:   "modelyaml.render",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	if err := enc.Close(); err != nil {
		return nil, &domain.OpError{
			Op:   "modelyaml.render",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	return buf.Bytes(), nil
}
