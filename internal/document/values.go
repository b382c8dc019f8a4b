package document

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/spf13/cast"

	"dpcheck/internal/errors"
)

// Decoders hand back different numeric and container types: encoding/json (with
// UseNumber) yields json.Number, yaml.v3 yields int and float64, go-toml yields
// int64 and float64. cast normalizes them; strings and booleans, which cast would
// happily parse, are refused so a quoted number stays a payload error.

func scalar(v any) (any, bool) {
	switch n := v.(type) {
	case string, bool, nil:
		return nil, false
	case json.Number:
		return n.String(), true
	default:
		return v, true
	}
}

func asFloat(v any) (float64, bool) {
	s, ok := scalar(v)
	if !ok {
		return 0, false
	}
	f, err := cast.ToFloat64E(s)
	return f, err == nil
}

func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	s, _ := scalar(v)
	if i, err := cast.ToIntE(s); err == nil {
		return i, true
	}
	return int(f), true
}

func asList(v any) ([]any, bool) {
	if _, isString := v.(string); isString || v == nil {
		return nil, false
	}
	l, err := cast.ToSliceE(v)
	return l, err == nil
}

func asMap(v any) (map[string]any, bool) {
	if _, isString := v.(string); isString || v == nil {
		return nil, false
	}
	m, err := cast.ToStringMapE(v)
	return m, err == nil
}

func invalid(path, format string, args ...any) error {
	return errors.Newf(errors.PayloadInvalid, "%s: %s", path, fmt.Sprintf(format, args...))
}

func floats(path string, v any, n int) ([]float64, error) {
	l, ok := asList(v)
	if !ok {
		return nil, invalid(path, "want a list of %d numbers, got %T", n, v)
	}
	if len(l) != n {
		return nil, invalid(path, "want %d numbers, got %d", n, len(l))
	}
	out := make([]float64, n)
	for i, e := range l {
		f, ok := asFloat(e)
		if !ok {
			return nil, invalid(fmt.Sprintf("%s[%d]", path, i), "want a number, got %T", e)
		}
		out[i] = f
	}
	return out, nil
}

func ints(path string, v any, n int) ([]int, error) {
	l, ok := asList(v)
	if !ok {
		return nil, invalid(path, "want a list of %d integers, got %T", n, v)
	}
	if len(l) != n {
		return nil, invalid(path, "want %d integers, got %d", n, len(l))
	}
	out := make([]int, n)
	for i, e := range l {
		x, ok := asInt(e)
		if !ok {
			return nil, invalid(fmt.Sprintf("%s[%d]", path, i), "want an integer, got %v", e)
		}
		out[i] = x
	}
	return out, nil
}
