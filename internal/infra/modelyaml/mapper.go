package modelyaml

import (
	"fmt"
	"strings"

	"github.com/srinivasaraghavankm/beer/internal/domain"
)

// MapModel converts the YAML DTO into the domain model. Dimensions may
// still be placeholders; enumerations are normalized here.
func MapModel(path string, ym YAMLModel) (domain.ModelConfig, error) {
	m := domain.ModelConfig{
		Name: strings.TrimSpace(ym.Name),
		Vars: domain.Vars(ym.Vars),
	}
	if m.Vars == nil {
		m.Vars = domain.Vars{}
	}

	var err error
	if m.DataDim, err = mapDim(path, "data_dim", ym.DataDim, true); err != nil {
		return domain.ModelConfig{}, err
	}
	if m.LatentDim, err = mapDim(path, "latent_dim", ym.LatentDim, true); err != nil {
		return domain.ModelConfig{}, err
	}

	enc := ym.Encoder
	if m.Encoder.HiddenDim, err = mapDim(path, "encoder.hidden_dim", enc.HiddenDim, true); err != nil {
		return domain.ModelConfig{}, err
	}
	if m.Encoder.OutDim, err = mapDim(path, "encoder.out_dim", enc.OutDim, true); err != nil {
		return domain.ModelConfig{}, err
	}
	m.Encoder.NLayers = enc.NLayers
	if m.Encoder.Activation, err = domain.ParseActivation(enc.Activation); err != nil {
		return domain.ModelConfig{}, invalidField(path, "encoder.activation", err.Error())
	}
	if m.Encoder.CovType, err = domain.ParseCovType(enc.CovType); err != nil {
		return domain.ModelConfig{}, invalidField(path, "encoder.cov_type", err.Error())
	}

	fl := ym.Flow
	if m.Flow.Type, err = domain.ParseFlowType(fl.Type); err != nil {
		return domain.ModelConfig{}, invalidField(path, "flow.type", err.Error())
	}
	m.Flow.NBlocks = fl.NBlocks
	m.Flow.NLayers = fl.NLayers
	needsMLP := m.Flow.Type == domain.FlowIAF
	if m.Flow.HiddenDim, err = mapDim(path, "flow.hidden_dim", fl.HiddenDim, needsMLP); err != nil {
		return domain.ModelConfig{}, err
	}
	if needsMLP || strings.TrimSpace(fl.Activation) != "" {
		if m.Flow.Activation, err = domain.ParseActivation(fl.Activation); err != nil {
			return domain.ModelConfig{}, invalidField(path, "flow.activation", err.Error())
		}
	}

	dec := ym.Decoder
	if m.Decoder.HiddenDim, err = mapDim(path, "decoder.hidden_dim", dec.HiddenDim, true); err != nil {
		return domain.ModelConfig{}, err
	}
	m.Decoder.NLayers = dec.NLayers
	if m.Decoder.Activation, err = domain.ParseActivation(dec.Activation); err != nil {
		return domain.ModelConfig{}, invalidField(path, "decoder.activation", err.Error())
	}
	if m.Decoder.CovType, err = domain.ParseCovType(dec.CovType); err != nil {
		return domain.ModelConfig{}, invalidField(path, "decoder.cov_type", err.Error())
	}

	prior := strings.ToLower(strings.TrimSpace(ym.Prior.Type))
	if prior == "" {
		prior = string(domain.PriorNormal)
	}
	m.Prior.Type = domain.PriorType(prior)
	if m.Prior.Type != domain.PriorNormal {
		return domain.ModelConfig{}, invalidField(path, "prior.type", fmt.Sprintf("unsupported prior %q", ym.Prior.Type))
	}

	return m, nil
}

// UnmapModel converts a domain model back into its YAML DTO.
func UnmapModel(m domain.ModelConfig) YAMLModel {
	ym := YAMLModel{
		Name:      m.Name,
		DataDim:   YAMLDim(m.DataDim.String()),
		LatentDim: YAMLDim(m.LatentDim.String()),
		Encoder: YAMLEncoder{
			HiddenDim:  YAMLDim(m.Encoder.HiddenDim.String()),
			NLayers:    m.Encoder.NLayers,
			Activation: string(m.Encoder.Activation),
			OutDim:     YAMLDim(m.Encoder.OutDim.String()),
			CovType:    string(m.Encoder.CovType),
		},
		Flow: YAMLFlow{
			Type:       string(m.Flow.Type),
			NBlocks:    m.Flow.NBlocks,
			HiddenDim:  YAMLDim(m.Flow.HiddenDim.String()),
			NLayers:    m.Flow.NLayers,
			Activation: string(m.Flow.Activation),
		},
		Decoder: YAMLDecoder{
			HiddenDim:  YAMLDim(m.Decoder.HiddenDim.String()),
			NLayers:    m.Decoder.NLayers,
			Activation: string(m.Decoder.Activation),
			CovType:    string(m.Decoder.CovType),
		},
		Prior: YAMLPrior{Type: string(m.Prior.Type)},
	}
	if len(m.Vars) > 0 {
		ym.Vars = map[string]string(m.Vars)
	}
	return ym
}

func mapDim(path, field string, v YAMLDim, required bool) (domain.Dim, error) {
	s := strings.TrimSpace(string(v))
	if s == "" {
		if required {
			return domain.Dim{}, invalidField(path, field, "is required")
		}
		return domain.Dim{}, nil
	}

	d := domain.ParseDim(s)
	if !d.Resolved() && !strings.Contains(d.Expr, "{{") {
		return domain.Dim{}, invalidField(path, field, fmt.Sprintf("%q is neither an integer nor a placeholder", s))
	}
	return d, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "modelyaml.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
