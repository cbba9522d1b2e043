package domain

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// VarResolver resolves {{var}} placeholders in model dimensions.
//
// Layers are applied in order, later layers override earlier ones, so
// NewVarResolver(cfg.Vars, cliVars) lets command-line values win.
type VarResolver struct {
	vars Vars
}

func NewVarResolver(layers ...Vars) *VarResolver {
	merged := Vars{}
	for _, l := range layers {
		for k, v := range l {
			merged[k] = v
		}
	}
	return &VarResolver{vars: merged}
}

// Vars returns a copy of the merged variable set.
func (r *VarResolver) Vars() Vars {
	out := make(Vars, len(r.vars))
	for k, v := range r.vars {
		out[k] = v
	}
	return out
}

// ResolveString resolves placeholders in a string.
func (r *VarResolver) ResolveString(s string) (string, error) {
	// Fast path: no token start.
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s) + 16)

	for i := 0; i < len(s); {
		if i+1 < len(s) && s[i] == '{' && s[i+1] == '{' {
			start := i + 2

			end := strings.Index(s[start:], "}}")
			if end < 0 {
				return "", &OpError{
					Op:   "vars.resolve",
					Kind: KindInvalidConfig,
					Err:  errors.New("unclosed placeholder"),
				}
			}
			end = start + end

			name := strings.TrimSpace(s[start:end])
			if name == "" {
				return "", &OpError{
					Op:   "vars.resolve",
					Kind: KindInvalidConfig,
					Err:  errors.New("empty placeholder"),
				}
			}

			val, ok := r.vars[name]
			if !ok {
				return "", &OpError{
					Op:   "vars.resolve",
					Kind: KindMissingVar,
					Err:  fmt.Errorf("missing variable: %s: %w", name, ErrMissingVar),
				}
			}

			b.WriteString(val)
			i = end + 2
			continue
		}

		b.WriteByte(s[i])
		i++
	}

	return b.String(), nil
}

// ResolveDim resolves a placeholder dimension into an integer.
func (r *VarResolver) ResolveDim(d Dim) (Dim, error) {
	if d.Resolved() {
		return d, nil
	}

	s, err := r.ResolveString(d.Expr)
	if err != nil {
		return Dim{}, err
	}

	n, convErr := strconv.Atoi(strings.TrimSpace(s))
	if convErr != nil {
		return Dim{}, &OpError{
			Op:   "vars.resolve",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("%q resolved to %q, which is not an integer", d.Expr, s),
		}
	}
	return IntDim(n), nil
}

// ResolveModel returns a copy of m with every dimension resolved.
// It does not validate the result; call Validate for that.
func (r *VarResolver) ResolveModel(m ModelConfig) (ModelConfig, error) {
	out := m

	fields := []struct {
		name string
		dim  *Dim
	}{
		{"data_dim", &out.DataDim},
		{"latent_dim", &out.LatentDim},
		{"encoder.hidden_dim", &out.Encoder.HiddenDim},
		{"encoder.out_dim", &out.Encoder.OutDim},
		{"flow.hidden_dim", &out.Flow.HiddenDim},
		{"decoder.hidden_dim", &out.Decoder.HiddenDim},
	}

	for _, f := range fields {
		d, err := r.ResolveDim(*f.dim)
		if err != nil {
			return ModelConfig{}, wrapField(err, f.name)
		}
		*f.dim = d
	}

	out.Vars = r.Vars()
	return out, nil
}

// Placeholders lists the distinct placeholder names referenced by the
// unresolved dimensions of m, sorted.
func Placeholders(m ModelConfig) []string {
	seen := map[string]bool{}
	for _, d := range []Dim{
		m.DataDim, m.LatentDim,
		m.Encoder.HiddenDim, m.Encoder.OutDim,
		m.Flow.HiddenDim, m.Decoder.HiddenDim,
	} {
		rest := d.Expr
		for {
			start := strings.Index(rest, "{{")
			if start < 0 {
				break
			}
			rest = rest[start+2:]
			end := strings.Index(rest, "}}")
			if end < 0 {
				break
			}
			if name := strings.TrimSpace(rest[:end]); name != "" {
				seen[name] = true
			}
			rest = rest[end+2:]
		}
	}

	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParseVarAssignments parses "name=value" pairs as given on the command line.
func ParseVarAssignments(in []string) (Vars, error) {
	out := Vars{}
	for _, kv := range in {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, &OpError{
				Op:   "vars.parse",
				Kind: KindInvalidConfig,
				Err:  fmt.Errorf("expected name=value, got %q", kv),
			}
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}

func wrapField(err error, field string) error {
	// Keep Kind information, but add context about which field was being resolved.
	return &OpError{
		Op:   "vars.resolve",
		Kind: KindOf(err),
		Err:  fmt.Errorf("%s: %w", field, err),
	}
}
