package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Activation names a nonlinearity understood by the external trainer.
type Activation string

const (
	ActTanh     Activation = "tanh"
	ActReLU     Activation = "relu"
	ActELU      Activation = "elu"
	ActSigmoid  Activation = "sigmoid"
	ActSoftplus Activation = "softplus"
	ActIdentity Activation = "identity"
)

// CovType is the covariance structure of a Normal output layer.
type CovType string

const (
	CovIsotropic CovType = "isotropic"
	CovDiagonal  CovType = "diagonal"
)

// FlowType selects the normalizing-flow family applied to the posterior.
type FlowType string

const (
	// FlowIAF stacks inverse autoregressive blocks, each an MLP over the
	// latent sample and the encoder output.
	FlowIAF FlowType = "iaf"
	// FlowPlanar stacks planar transforms whose parameters are predicted
	// from the encoder output.
	FlowPlanar FlowType = "planar"
)

// PriorType is the latent prior. Only a standard Normal is supported.
type PriorType string

const PriorNormal PriorType = "normal"

// Dim is a layer dimension. Until resolved it may hold a "{{name}}"
// placeholder in Expr; once resolved Expr is empty and Value is set.
type Dim struct {
	Value int
	Expr  string
}

// IntDim returns a resolved dimension.
func IntDim(v int) Dim { return Dim{Value: v} }

// ParseDim reads a dimension from its textual form: a base-10 integer or an
// expression containing placeholders.
func ParseDim(s string) Dim {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return Dim{Value: n}
	}
	return Dim{Expr: s}
}

// Resolved reports whether the dimension no longer carries a placeholder.
func (d Dim) Resolved() bool { return d.Expr == "" }

func (d Dim) String() string {
	if !d.Resolved() {
		return d.Expr
	}
	return strconv.Itoa(d.Value)
}

// EncoderSpec is the MLP mapping features to the posterior parameters.
type EncoderSpec struct {
	HiddenDim  Dim
	NLayers    int
	Activation Activation
	OutDim     Dim
	CovType    CovType
}

// FlowSpec is the normalizing flow enriching the Normal posterior.
type FlowSpec struct {
	Type       FlowType
	NBlocks    int
	HiddenDim  Dim
	NLayers    int
	Activation Activation
}

// DecoderSpec is the MLP mapping latent samples back to feature space.
type DecoderSpec struct {
	HiddenDim  Dim
	NLayers    int
	Activation Activation
	CovType    CovType
}

type PriorSpec struct {
	Type PriorType
}

// ModelConfig is the declarative description of a VAE with a
// normalizing-flow posterior. It is data only: training and inference live
// in the framework that consumes it.
type ModelConfig struct {
	Name string

	DataDim   Dim
	LatentDim Dim

	Encoder EncoderSpec
	Flow    FlowSpec
	Decoder DecoderSpec
	Prior   PriorSpec

	// Vars holds default values for placeholders.
	Vars Vars
}

// Vars maps placeholder names to their values.
type Vars map[string]string

// Validate checks the invariants of a resolved configuration. Every
// problem is reported with the field path that caused it.
func (m ModelConfig) Validate() error {
	dims := []dimField{
		{"data_dim", m.DataDim},
		{"latent_dim", m.LatentDim},
		{"encoder.hidden_dim", m.Encoder.HiddenDim},
		{"encoder.out_dim", m.Encoder.OutDim},
		{"decoder.hidden_dim", m.Decoder.HiddenDim},
	}
	if m.Flow.Type == FlowIAF {
		dims = append(dims, dimField{"flow.hidden_dim", m.Flow.HiddenDim})
	}

	for _, it := range dims {
		if err := checkDim(it.field, it.d); err != nil {
			return err
		}
	}

	if m.Encoder.NLayers < 1 {
		return invalidModel("encoder.n_layers", fmt.Sprintf("must be >= 1, got %d", m.Encoder.NLayers))
	}
	if m.Decoder.NLayers < 1 {
		return invalidModel("decoder.n_layers", fmt.Sprintf("must be >= 1, got %d", m.Decoder.NLayers))
	}
	if m.Flow.NBlocks < 1 {
		return invalidModel("flow.n_blocks", fmt.Sprintf("must be >= 1, got %d", m.Flow.NBlocks))
	}

	if err := checkActivation("encoder.activation", m.Encoder.Activation); err != nil {
		return err
	}
	if err := checkActivation("decoder.activation", m.Decoder.Activation); err != nil {
		return err
	}
	if err := checkCov("encoder.cov_type", m.Encoder.CovType); err != nil {
		return err
	}
	if err := checkCov("decoder.cov_type", m.Decoder.CovType); err != nil {
		return err
	}

	switch m.Flow.Type {
	case FlowIAF:
		if m.Flow.NLayers < 1 {
			return invalidModel("flow.n_layers", fmt.Sprintf("must be >= 1 for %s flows, got %d", FlowIAF, m.Flow.NLayers))
		}
		if err := checkActivation("flow.activation", m.Flow.Activation); err != nil {
			return err
		}
	case FlowPlanar:
	default:
		return invalidModel("flow.type", fmt.Sprintf("unsupported flow type %q", m.Flow.Type))
	}

	if m.Prior.Type != PriorNormal {
		return invalidModel("prior.type", fmt.Sprintf("unsupported prior %q", m.Prior.Type))
	}

	return nil
}

// ParseActivation normalizes and checks an activation name.
func ParseActivation(s string) (Activation, error) {
	a := Activation(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActTanh, ActReLU, ActELU, ActSigmoid, ActSoftplus, ActIdentity:
		return a, nil
	default:
		return "", fmt.Errorf("unsupported activation %q", s)
	}
}

// ParseCovType normalizes and checks a covariance type.
func ParseCovType(s string) (CovType, error) {
	c := CovType(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CovIsotropic, CovDiagonal:
		return c, nil
	default:
		return "", fmt.Errorf("unsupported covariance type %q (expected isotropic|diagonal)", s)
	}
}

// ParseFlowType normalizes and checks a flow type.
func ParseFlowType(s string) (FlowType, error) {
	f := FlowType(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FlowIAF, FlowPlanar:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported flow type %q (expected iaf|planar)", s)
	}
}

type dimField struct {
	field string
	d     Dim
}

func checkDim(field string, d Dim) error {
	if !d.Resolved() {
		return &OpError{
			Op:   "model.validate",
			Kind: KindMissingVar,
			Err:  fmt.Errorf("field %s: unresolved %q: %w", field, d.Expr, ErrMissingVar),
		}
	}
	if d.Value <= 0 {
		return invalidModel(field, fmt.Sprintf("must be > 0, got %d", d.Value))
	}
	return nil
}

func checkActivation(field string, a Activation) error {
	if _, err := ParseActivation(string(a)); err != nil {
		return invalidModel(field, err.Error())
	}
	return nil
}

func checkCov(field string, c CovType) error {
	if _, err := ParseCovType(string(c)); err != nil {
		return invalidModel(field, err.Error())
	}
	return nil
}

func invalidModel(field, msg string) error {
	return &OpError{
		Op:   "model.validate",
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, ErrInvalidConfig),
	}
}
