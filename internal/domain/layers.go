package domain

import "fmt"

// LayerShape is one affine layer implied by the configuration.
type LayerShape struct {
	Name       string
	In         int
	Out        int
	Activation Activation
}

// Params is the number of weights plus biases of the layer.
func (l LayerShape) Params() int {
	return l.In*l.Out + l.Out
}

// Layers expands a validated configuration into the affine layers the
// trainer will build, in forward order: encoder, posterior head, flow
// blocks, decoder, likelihood head.
func (m ModelConfig) Layers() ([]LayerShape, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	data := m.DataDim.Value
	latent := m.LatentDim.Value
	encOut := m.Encoder.OutDim.Value

	var layers []LayerShape

	layers = append(layers, mlp("encoder", data, m.Encoder.HiddenDim.Value, m.Encoder.NLayers, m.Encoder.Activation)...)
	layers = append(layers,
		LayerShape{Name: "encoder.out", In: m.Encoder.HiddenDim.Value, Out: encOut, Activation: m.Encoder.Activation},
		LayerShape{Name: "posterior", In: encOut, Out: normalParams(latent, m.Encoder.CovType), Activation: ActIdentity},
	)

	for b := 0; b < m.Flow.NBlocks; b++ {
		prefix := fmt.Sprintf("flow[%d]", b)
		switch m.Flow.Type {
		case FlowIAF:
			layers = append(layers, mlp(prefix, latent+encOut, m.Flow.HiddenDim.Value, m.Flow.NLayers, m.Flow.Activation)...)
			layers = append(layers, LayerShape{Name: prefix + ".out", In: m.Flow.HiddenDim.Value, Out: 2 * latent, Activation: ActIdentity})
		case FlowPlanar:
			// u, w and b of one planar transform.
			layers = append(layers, LayerShape{Name: prefix + ".params", In: encOut, Out: 2*latent + 1, Activation: ActIdentity})
		}
	}

	layers = append(layers, mlp("decoder", latent, m.Decoder.HiddenDim.Value, m.Decoder.NLayers, m.Decoder.Activation)...)
	layers = append(layers, LayerShape{Name: "likelihood", In: m.Decoder.HiddenDim.Value, Out: normalParams(data, m.Decoder.CovType), Activation: ActIdentity})

	return layers, nil
}

// ParamCount is the total number of trainable parameters of the layers.
func ParamCount(layers []LayerShape) int {
	n := 0
	for _, l := range layers {
		n += l.Params()
	}
	return n
}

func mlp(prefix string, in, hidden, n int, act Activation) []LayerShape {
	out := make([]LayerShape, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, LayerShape{
			Name:       fmt.Sprintf("%s.hidden[%d]", prefix, i),
			In:         in,
			Out:        hidden,
			Activation: act,
		})
		in = hidden
	}
	return out
}

// normalParams is the output width of a Normal layer over dim variables:
// a mean per variable plus one shared variance (isotropic) or one variance
// per variable (diagonal).
func normalParams(dim int, cov CovType) int {
	if cov == CovIsotropic {
		return dim + 1
	}
	return 2 * dim
}
