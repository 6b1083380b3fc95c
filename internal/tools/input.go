package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// InputError reports a parameter that failed validation.
type InputError struct {
	Tool   string
	Param  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: parameter %q %s", e.Tool, e.Param, e.Reason)
}

// Input holds validated, typed parameter values for one invocation.
// Values are string, bool or int64 according to the declared ParamType;
// int64 values only reach the request through path substitution.
type Input struct {
	values map[string]interface{}
}

// Has reports whether the parameter was supplied or defaulted.
func (in Input) Has(name string) bool {
	_, ok := in.values[name]
	return ok
}

// String returns a string parameter, or "" when absent.
func (in Input) String(name string) string {
	s, _ := in.values[name].(string)
	return s
}

// Bool returns a boolean parameter, or false when absent.
func (in Input) Bool(name string) bool {
	b, _ := in.values[name].(bool)
	return b
}

// DecodeInput validates raw invocation arguments against the definition.
// Required parameters must be present; path parameters must be non-empty;
// defaults fill missing optional parameters. Unknown arguments are ignored.
func DecodeInput(def Definition, args map[string]interface{}) (Input, error) {
	in := Input{values: make(map[string]interface{}, len(def.Params))}

	for _, p := range def.Params {
		raw, present := args[p.Name]
		if present && raw == nil {
			present = false
		}
		// An empty optional path segment means "not given", as for list_repos.
		if s, ok := raw.(string); present && ok && s == "" && !p.Required && p.In == InPath {
			present = false
		}

		if !present {
			if p.Required {
				return Input{}, &InputError{Tool: def.Name, Param: p.Name, Reason: "is required"}
			}
			if p.Default != nil {
				in.values[p.Name] = p.Default
			}
			continue
		}

		val, err := coerce(p.Type, raw)
		if err != nil {
			return Input{}, &InputError{Tool: def.Name, Param: p.Name, Reason: err.Error()}
		}
		if s, ok := val.(string); ok && p.In == InPath && strings.TrimSpace(s) == "" {
			return Input{}, &InputError{Tool: def.Name, Param: p.Name, Reason: "must not be empty"}
		}
		in.values[p.Name] = val
	}

	return in, nil
}

// coerce converts a decoded JSON value to the Go type for t.
func coerce(t ParamType, raw interface{}) (interface{}, error) {
	switch t {
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("must be a string, got %T", raw)
		}
		return s, nil

	case TypeBoolean:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("must be a boolean, got %q", v)
			}
			return b, nil
		}
		return nil, fmt.Errorf("must be a boolean, got %T", raw)

	case TypeInteger:
		switch v := raw.(type) {
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		case float64:
			if math.IsNaN(v) || v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
				return nil, fmt.Errorf("must be an integer, got %v", v)
			}
			return int64(v), nil
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				return nil, fmt.Errorf("must be an integer, got %q", v.String())
			}
			return n, nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("must be an integer, got %q", v)
			}
			return n, nil
		}
		return nil, fmt.Errorf("must be an integer, got %T", raw)
	}

	return nil, fmt.Errorf("has unsupported type %s", t)
}
