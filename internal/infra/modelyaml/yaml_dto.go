package modelyaml

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

type YAMLModel struct {
	Name      string            `yaml:"name,omitempty"`
	Vars      map[string]string `yaml:"vars,omitempty"`
	DataDim   YAMLDim           `yaml:"data_dim"`
	LatentDim YAMLDim           `yaml:"latent_dim"`
	Encoder   YAMLEncoder       `yaml:"encoder"`
	Flow      YAMLFlow          `yaml:"flow"`
	Decoder   YAMLDecoder       `yaml:"decoder"`
	Prior     YAMLPrior         `yaml:"prior"`
}

type YAMLEncoder struct {
	HiddenDim  YAMLDim `yaml:"hidden_dim"`
	NLayers    int     `yaml:"n_layers"`
	Activation string  `yaml:"activation"`
	OutDim     YAMLDim `yaml:"out_dim"`
	CovType    string  `yaml:"cov_type"`
}

type YAMLFlow struct {
	Type       string  `yaml:"type"`
	NBlocks    int     `yaml:"n_blocks"`
	HiddenDim  YAMLDim `yaml:"hidden_dim,omitempty"`
	NLayers    int     `yaml:"n_layers,omitempty"`
	Activation string  `yaml:"activation,omitempty"`
}

type YAMLDecoder struct {
	HiddenDim  YAMLDim `yaml:"hidden_dim"`
	NLayers    int     `yaml:"n_layers"`
	Activation string  `yaml:"activation"`
	CovType    string  `yaml:"cov_type"`
}

type YAMLPrior struct {
	Type string `yaml:"type"`
}

// YAMLDim accepts either an integer or a quoted placeholder string such as
// "{{feadim}}".
type YAMLDim string

func (d *YAMLDim) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		// An unquoted {{x}} parses as a flow mapping.
		return fmt.Errorf("line %d: dimension must be an integer or a quoted placeholder like \"{{name}}\"", n.Line)
	}
	*d = YAMLDim(n.Value)
	return nil
}

// MarshalYAML writes resolved dimensions as plain integers.
func (d YAMLDim) MarshalYAML() (any, error) {
	if n, err := strconv.Atoi(string(d)); err == nil {
		return n, nil
	}
	return string(d), nil
}

// IsZero lets omitempty drop unset dimensions.
func (d YAMLDim) IsZero() bool {
	return d == "" || d == "0"
}
