package modelyaml

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/srinivasaraghavankm/beer/internal/domain"
	"github.com/srinivasaraghavankm/beer/internal/ports"
)

// Loader reads model configurations from YAML files.
type Loader struct {
	strict bool
}

type Option func(*Loader)

// WithStrict rejects unknown keys (default true), which catches typos such
// as "hiden_dim" that would otherwise silently fall back to zero.
func WithStrict(strict bool) Option {
	return func(l *Loader) { l.strict = strict }
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{strict: true}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.ModelLoader = (*Loader)(nil)

func (l *Loader) LoadModel(path string) (domain.ModelConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.ModelConfig{}, &domain.OpError{
			Op:   "modelyaml.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	return l.Parse(path, b)
}

// Parse decodes a YAML document; path is only used for error context.
func (l *Loader) Parse(path string, b []byte) (domain.ModelConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(l.strict)

	var dto YAMLModel
	if err := dec.Decode(&dto); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("document is empty")
		}
		return domain.ModelConfig{}, &domain.OpError{
			Op:   "modelyaml.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapModel(path, dto)
}
