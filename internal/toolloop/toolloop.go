// Package toolloop implements the provider-agnostic half of the tool-call
// protocol: deciding whether a response is a tool request and turning an
// executed request into the continuation conversation.
package toolloop

import (
	"context"

	"github.com/m2tx/geminichat/internal/chat"
)

// Caps are the capabilities a model adapter plugs into the loop for its
// provider response type R.
type Caps[R any] struct {
	// Detect reports whether resp asks for tool execution.
	Detect func(resp R) bool

	// Extract collects the tool calls from resp, in part order.
	Extract func(resp R) ([]chat.ToolCall, error)

	// Execute runs the calls in order and returns one result per call,
	// matching the request order.
	Execute func(ctx context.Context, calls []chat.ToolCall) ([]chat.ToolResult, error)
}

// Continue executes the tool calls in resp and returns the continuation
// conversation: a copy of conv with a synthetic assistant turn (carrying the
// calls) and a tool turn (carrying the results) appended. conv itself is
// never mutated.
func (c Caps[R]) Continue(ctx context.Context, conv []chat.Message, resp R) ([]chat.Message, error) {
	calls, err := c.Extract(resp)
	if err != nil {
		return nil, err
	}

	results, err := c.Execute(ctx, calls)
	if err != nil {
		return nil, err
	}

	next := make([]chat.Message, 0, len(conv)+2)
	next = append(next, conv...)
	next = append(next, chat.Message{Role: chat.RoleAssistant, ToolCalls: calls})
	next = append(next, chat.ToolMessage(results...))
	return next, nil
}
