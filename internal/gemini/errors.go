package gemini

import (
	"errors"
	"fmt"

	"github.com/m2tx/geminichat/internal/chat"
)

var (
	// ErrMissingClient is returned by New when no provider client is given.
	ErrMissingClient = errors.New("gemini: client must be provided")

	// ErrMissingModel is returned by New when the default options carry no
	// model identifier.
	ErrMissingModel = errors.New("gemini: model must be set")

	// ErrTooManyToolCalls aborts a generation whose tool-call recursion
	// exceeds the configured hop limit.
	ErrTooManyToolCalls = errors.New("gemini: tool call hop limit exceeded")
)

// UnsupportedMessageTypeError reports a message role the translator cannot
// map to provider content.
type UnsupportedMessageTypeError struct {
	Role chat.Role
}

func (e *UnsupportedMessageTypeError) Error() string {
	return fmt.Sprintf("gemini: unsupported message type %q", e.Role)
}

// UnknownFunctionError reports an enabled function name with no registered
// declaration.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("gemini: no function registered under %q", e.Name)
}

// ProviderError wraps a failure of the underlying provider call.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gemini: generate content: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// FunctionExecutionError wraps a tool handler failure. The whole batch the
// call belonged to is abandoned.
type FunctionExecutionError struct {
	Name string
	Err  error
}

func (e *FunctionExecutionError) Error() string {
	return fmt.Sprintf("gemini: execute function %q: %v", e.Name, e.Err)
}

func (e *FunctionExecutionError) Unwrap() error { return e.Err }
