// Package jsonx is the codec between JSON text and the structured argument
// maps the provider API works with.
package jsonx

import "github.com/bytedance/sonic"

// Marshal encodes v as JSON text.
func Marshal(v any) (string, error) {
	return sonic.MarshalString(v)
}

// Unmarshal decodes JSON text into a generic value.
func Unmarshal(data string) (any, error) {
	var v any
	if err := sonic.UnmarshalString(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// UnmarshalObject decodes JSON text into a map. Non-object values are
// wrapped under a "result" key, since the provider requires a JSON object
// for function arguments and responses.
func UnmarshalObject(data string) (map[string]any, error) {
	v, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	return map[string]any{"result": v}, nil
}
