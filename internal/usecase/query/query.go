// Package query evaluates JSONPath expressions against a rendered model
// configuration.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"gopkg.in/yaml.v3"

	"github.com/srinivasaraghavankm/beer/internal/domain"
)

// Document decodes a rendered configuration into the generic tree jsonpath
// walks (maps, slices and scalars).
func Document(rendered []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(rendered, &doc); err != nil {
		return nil, &domain.OpError{
			Op:   "query.document",
			Kind: domain.KindInvalidConfig,
			Err:  err,
		}
	}
	if doc == nil {
		return nil, &domain.OpError{
			Op:   "query.document",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("document is empty"),
		}
	}
	return doc, nil
}

// Eval runs expr against doc. A path that matches nothing is not_found.
func Eval(doc any, expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, &domain.OpError{
			Op:   "query.eval",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("empty jsonpath expression"),
		}
	}

	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		// jsonpath reports both syntax errors and missing keys here; an
		// unknown key reads as "unknown key <name>".
		kind := domain.KindInvalidConfig
		if strings.Contains(err.Error(), "unknown key") {
			kind = domain.KindNotFound
		}
		return nil, &domain.OpError{
			Op:   "query.eval",
			Kind: kind,
			Err:  fmt.Errorf("%s: %w", expr, err),
		}
	}

	if isEmptyValue(val) {
		return nil, &domain.OpError{
			Op:   "query.eval",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("%s: no value found: %w", expr, domain.ErrNotFound),
		}
	}
	return val, nil
}

// Format renders a query result for the terminal: scalars as text, a
// single-element match unwrapped, anything else as compact JSON.
func Format(v any) (string, error) {
	if arr, ok := v.([]any); ok {
		if len(arr) == 1 {
			return Format(arr[0])
		}
		return marshal(arr)
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(t), nil
	case map[string]any:
		return marshal(t)
	default:
		return fmt.Sprint(t), nil
	}
}

func marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
