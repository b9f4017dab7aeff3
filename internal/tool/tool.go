// Package tool holds the function declarations a chat model may call and the
// registries they are resolved from.
package tool

import (
	"context"
	"fmt"
)

// Handler executes a tool. argsJSON is the raw JSON argument object sent by
// the model; the returned string must be the JSON-encoded result.
type Handler func(ctx context.Context, argsJSON string) (string, error)

// Declaration describes one callable function: its descriptor as presented to
// the model plus the handler that executes it.
type Declaration struct {
	Name        string
	Description string

	// Parameters is the JSON-schema object describing the argument payload.
	Parameters map[string]any

	// Response optionally describes the result payload, also as JSON schema.
	Response map[string]any

	Handler Handler
}

func (d *Declaration) validate() error {
	if d == nil {
		return fmt.Errorf("tool: declaration cannot be nil")
	}
	if d.Name == "" {
		return fmt.Errorf("tool: name cannot be empty")
	}
	if d.Handler == nil {
		return fmt.Errorf("tool %q: handler cannot be nil", d.Name)
	}
	if d.Parameters != nil {
		typ, ok := d.Parameters["type"].(string)
		if !ok || typ != "object" {
			return fmt.Errorf("tool %q: parameters schema must have type \"object\"", d.Name)
		}
	}
	return nil
}
