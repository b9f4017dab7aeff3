// Package gemini adapts the generic chat abstraction to Google's Gemini API,
// including the tool-call loop for both blocking and streaming generation.
package gemini

import (
	"context"
	"io"
	"iter"
	"sync"

	"google.golang.org/genai"

	"github.com/m2tx/geminichat/internal/chat"
	"github.com/m2tx/geminichat/internal/tool"
	"github.com/m2tx/geminichat/internal/toolloop"
)

// DefaultMaxToolHops bounds how many times one generation call may loop
// through tool execution before giving up on a model that keeps asking.
const DefaultMaxToolHops = 10

// Config assembles a ChatModel.
type Config struct {
	// Client is the provider client. Required.
	Client Client

	// Options are the default generation options. Options.Model is required.
	Options chat.Options

	// Registry is the process-default tool registry. Optional; per-call
	// options may still carry request-scoped declarations.
	Registry *tool.Registry

	// MaxToolHops overrides DefaultMaxToolHops when positive.
	MaxToolHops int

	// Closer, when set, is released by Close.
	Closer io.Closer
}

// ChatModel drives Gemini generation over generic conversations.
// Safe for concurrent use.
type ChatModel struct {
	client      Client
	defaults    chat.Options
	registry    *tool.Registry
	maxToolHops int

	closeOnce sync.Once
	closer    io.Closer
}

// New validates cfg and builds a ChatModel.
func New(cfg *Config) (*ChatModel, error) {
	if cfg == nil || cfg.Client == nil {
		return nil, ErrMissingClient
	}
	if cfg.Options.Model == "" {
		return nil, ErrMissingModel
	}

	hops := cfg.MaxToolHops
	if hops <= 0 {
		hops = DefaultMaxToolHops
	}

	return &ChatModel{
		client:      cfg.Client,
		defaults:    cfg.Options,
		registry:    cfg.Registry,
		maxToolHops: hops,
		closer:      cfg.Closer,
	}, nil
}

// DefaultOptions returns a copy of the model's default options.
func (m *ChatModel) DefaultOptions() chat.Options {
	return m.defaults
}

// Call runs one blocking generation. When the model requests tool execution
// the requested functions run in order and generation is re-entered with the
// call and its results appended to a copy of the conversation, until a final
// textual response arrives.
func (m *ChatModel) Call(ctx context.Context, messages []chat.Message, opts *chat.Options) (*chat.Result, error) {
	return m.call(ctx, messages, opts, 0)
}

func (m *ChatModel) call(ctx context.Context, messages []chat.Message, opts *chat.Options, hop int) (*chat.Result, error) {
	req, eff, err := m.buildRequest(messages, opts)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.GenerateContent(ctx, req.model, req.contents, req.config)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	loop := m.loop(eff)
	if loop.Detect(resp) {
		if hop >= m.maxToolHops {
			return nil, ErrTooManyToolCalls
		}
		next, err := loop.Continue(ctx, messages, resp)
		if err != nil {
			return nil, err
		}
		return m.call(ctx, next, opts, hop+1)
	}

	return toResult(resp), nil
}

// Stream runs one streaming generation, yielding a Result per received
// response item. A tool-requesting item abandons the remainder of the
// current provider sequence: the requested functions run and the yielded
// items continue from a fresh stream over the extended conversation.
// The sequence is lazy and single-use; errors terminate it.
func (m *ChatModel) Stream(ctx context.Context, messages []chat.Message, opts *chat.Options) iter.Seq2[*chat.Result, error] {
	return m.stream(ctx, messages, opts, 0)
}

func (m *ChatModel) stream(ctx context.Context, messages []chat.Message, opts *chat.Options, hop int) iter.Seq2[*chat.Result, error] {
	return func(yield func(*chat.Result, error) bool) {
		req, eff, err := m.buildRequest(messages, opts)
		if err != nil {
			yield(nil, err)
			return
		}

		loop := m.loop(eff)
		for resp, err := range m.client.GenerateContentStream(ctx, req.model, req.contents, req.config) {
			if err != nil {
				yield(nil, &ProviderError{Err: err})
				return
			}

			if loop.Detect(resp) {
				if hop >= m.maxToolHops {
					yield(nil, ErrTooManyToolCalls)
					return
				}
				next, err := loop.Continue(ctx, messages, resp)
				if err != nil {
					yield(nil, err)
					return
				}
				for res, err := range m.stream(ctx, next, opts, hop+1) {
					if !yield(res, err) {
						return
					}
				}
				return
			}

			if !yield(toResult(resp), nil) {
				return
			}
		}
	}
}

// Close releases the provider handle. Safe to call more than once; only the
// first call has effect.
func (m *ChatModel) Close() error {
	var err error
	m.closeOnce.Do(func() {
		if m.closer != nil {
			err = m.closer.Close()
		}
	})
	return err
}

func (m *ChatModel) loop(eff chat.Options) toolloop.Caps[*genai.GenerateContentResponse] {
	return toolloop.Caps[*genai.GenerateContentResponse]{
		Detect:  isToolCall,
		Extract: extractToolCalls,
		Execute: func(ctx context.Context, calls []chat.ToolCall) ([]chat.ToolResult, error) {
			return m.executeCalls(ctx, calls, eff)
		},
	}
}

// executeCalls runs the batch in request order; one result per call. Any
// failure abandons the batch.
func (m *ChatModel) executeCalls(ctx context.Context, calls []chat.ToolCall, eff chat.Options) ([]chat.ToolResult, error) {
	results := make([]chat.ToolResult, 0, len(calls))
	for _, call := range calls {
		d, ok := m.lookup(call.Name, eff)
		if !ok {
			return nil, &UnknownFunctionError{Name: call.Name}
		}
		out, err := d.Handler(ctx, call.Arguments)
		if err != nil {
			return nil, &FunctionExecutionError{Name: call.Name, Err: err}
		}
		results = append(results, chat.ToolResult{ID: call.ID, Name: call.Name, Content: out})
	}
	return results, nil
}
