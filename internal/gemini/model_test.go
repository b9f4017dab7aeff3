package gemini

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/m2tx/geminichat/internal/chat"
	"github.com/m2tx/geminichat/internal/tool"
)

// fakeClient replays canned responses and records every request it receives.
type fakeClient struct {
	responses []*genai.GenerateContentResponse
	streams   [][]*genai.GenerateContentResponse
	err       error

	calls       int
	streamCalls int
	gotContents [][]*genai.Content
	gotConfigs  []*genai.GenerateContentConfig
	gotModels   []string
}

func (f *fakeClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.record(model, contents, config)
	if f.err != nil {
		return nil, f.err
	}
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func (f *fakeClient) GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.record(model, contents, config)
	items := f.streams[f.streamCalls]
	f.streamCalls++
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		if f.err != nil {
			yield(nil, f.err)
			return
		}
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

func (f *fakeClient) record(model string, contents []*genai.Content, config *genai.GenerateContentConfig) {
	f.gotModels = append(f.gotModels, model)
	f.gotContents = append(f.gotContents, contents)
	f.gotConfigs = append(f.gotConfigs, config)
}

func newTestModel(t *testing.T, client Client, decls ...*tool.Declaration) *ChatModel {
	t.Helper()

	registry, err := tool.NewRegistry(decls...)
	require.NoError(t, err)

	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, d.Name)
	}

	model, err := New(&Config{
		Client:   client,
		Registry: registry,
		Options:  chat.Options{Model: "gemini-2.5-flash", Functions: names},
	})
	require.NoError(t, err)
	return model
}

func echoTool(name string, calls *int) *tool.Declaration {
	return &tool.Declaration{
		Name:        name,
		Description: "test tool",
		Handler: func(ctx context.Context, argsJSON string) (string, error) {
			if calls != nil {
				*calls++
			}
			return `{"ok":true}`, nil
		},
	}
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrMissingClient)

	_, err = New(&Config{Client: &fakeClient{}})
	assert.ErrorIs(t, err, ErrMissingModel)
}

func TestCallFinalResponseSingleProviderCall(t *testing.T) {
	client := &fakeClient{responses: []*genai.GenerateContentResponse{
		textResponse("olá", " mundo"),
	}}
	model := newTestModel(t, client)

	result, err := model.Call(context.Background(), []chat.Message{chat.UserMessage("oi")}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "olá mundo", result.Text())
}

func TestCallOneHopToolRecursion(t *testing.T) {
	client := &fakeClient{responses: []*genai.GenerateContentResponse{
		toolCallResponse("get_weather", map[string]any{"location": "Recife"}),
		textResponse("faz 22°C"),
	}}

	executions := 0
	model := newTestModel(t, client, echoTool("get_weather", &executions))

	original := []chat.Message{chat.UserMessage("clima em Recife?")}
	result, err := model.Call(context.Background(), original, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, client.calls)
	assert.Equal(t, 1, executions)
	assert.Equal(t, "faz 22°C", result.Text())

	// The caller's conversation is untouched.
	require.Len(t, original, 1)

	// The second request carries, in order: original user turn, synthetic
	// assistant turn with the call, tool results turn.
	second := client.gotContents[1]
	require.Len(t, second, 3)
	assert.Equal(t, "clima em Recife?", second[0].Parts[0].Text)
	require.NotNil(t, second[1].Parts[0].FunctionCall)
	assert.Equal(t, "model", second[1].Role)
	assert.Equal(t, "get_weather", second[1].Parts[0].FunctionCall.Name)
	require.NotNil(t, second[2].Parts[0].FunctionResponse)
	assert.Equal(t, "user", second[2].Role)
	assert.Equal(t, map[string]any{"ok": true}, second[2].Parts[0].FunctionResponse.Response)
}

func TestCallTextLeadingPartIsFinal(t *testing.T) {
	mixed := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []*genai.Part{
				{Text: "done"},
				{FunctionCall: &genai.FunctionCall{Name: "get_weather"}},
			}}},
		},
	}
	client := &fakeClient{responses: []*genai.GenerateContentResponse{mixed}}
	model := newTestModel(t, client, echoTool("get_weather", nil))

	result, err := model.Call(context.Background(), []chat.Message{chat.UserMessage("oi")}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "done", result.Text())
}

func TestCallUnknownFunctionFailsBeforeProviderCall(t *testing.T) {
	client := &fakeClient{}
	model, err := New(&Config{
		Client:  client,
		Options: chat.Options{Model: "gemini-2.5-flash", Functions: []string{"missing"}},
	})
	require.NoError(t, err)

	_, err = model.Call(context.Background(), []chat.Message{chat.UserMessage("oi")}, nil)

	var unknown *UnknownFunctionError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Name)
	assert.Equal(t, 0, client.calls)
}

func TestCallToolHopLimit(t *testing.T) {
	// The model keeps asking for tools; every provider call returns a
	// tool request.
	client := &fakeClient{responses: []*genai.GenerateContentResponse{
		toolCallResponse("get_weather", nil),
		toolCallResponse("get_weather", nil),
		toolCallResponse("get_weather", nil),
	}}

	registry, err := tool.NewRegistry(echoTool("get_weather", nil))
	require.NoError(t, err)

	model, err := New(&Config{
		Client:      client,
		Registry:    registry,
		MaxToolHops: 2,
		Options:     chat.Options{Model: "gemini-2.5-flash", Functions: []string{"get_weather"}},
	})
	require.NoError(t, err)

	_, err = model.Call(context.Background(), []chat.Message{chat.UserMessage("oi")}, nil)
	assert.ErrorIs(t, err, ErrTooManyToolCalls)
	assert.Equal(t, 3, client.calls)
}

func TestCallWrapsProviderError(t *testing.T) {
	cause := errors.New("boom")
	client := &fakeClient{err: cause}
	model := newTestModel(t, client)

	_, err := model.Call(context.Background(), []chat.Message{chat.UserMessage("oi")}, nil)

	var provider *ProviderError
	require.ErrorAs(t, err, &provider)
	assert.ErrorIs(t, err, cause)
}

func TestCallToolExecutionErrorAbortsBatch(t *testing.T) {
	client := &fakeClient{responses: []*genai.GenerateContentResponse{
		toolCallResponse("get_weather", nil),
	}}

	failing := &tool.Declaration{
		Name: "get_weather",
		Handler: func(ctx context.Context, argsJSON string) (string, error) {
			return "", errors.New("no forecast available")
		},
	}
	model := newTestModel(t, client, failing)

	_, err := model.Call(context.Background(), []chat.Message{chat.UserMessage("oi")}, nil)

	var execErr *FunctionExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "get_weather", execErr.Name)
	assert.Equal(t, 1, client.calls)
}

func TestCallRequestScopedTools(t *testing.T) {
	client := &fakeClient{responses: []*genai.GenerateContentResponse{
		toolCallResponse("lookup", nil),
		textResponse("pronto"),
	}}

	model, err := New(&Config{
		Client:  client,
		Options: chat.Options{Model: "gemini-2.5-flash"},
	})
	require.NoError(t, err)

	executions := 0
	result, err := model.Call(context.Background(), []chat.Message{chat.UserMessage("oi")}, &chat.Options{
		Tools: []*tool.Declaration{echoTool("lookup", &executions)},
	})
	require.NoError(t, err)

	assert.Equal(t, "pronto", result.Text())
	assert.Equal(t, 1, executions)
	require.NotNil(t, client.gotConfigs[0].Tools)
	assert.Equal(t, "lookup", client.gotConfigs[0].Tools[0].FunctionDeclarations[0].Name)
}

func TestCallOmitsUnsetGenerationParameters(t *testing.T) {
	client := &fakeClient{responses: []*genai.GenerateContentResponse{textResponse("ok")}}
	model := newTestModel(t, client)

	_, err := model.Call(context.Background(), []chat.Message{chat.UserMessage("oi")}, nil)
	require.NoError(t, err)

	config := client.gotConfigs[0]
	assert.Nil(t, config.Temperature)
	assert.Nil(t, config.TopP)
	assert.Nil(t, config.TopK)
	assert.Zero(t, config.MaxOutputTokens)
	assert.Zero(t, config.CandidateCount)
	assert.Empty(t, config.StopSequences)
}

func TestCallModelOverridePerCall(t *testing.T) {
	client := &fakeClient{responses: []*genai.GenerateContentResponse{textResponse("ok")}}
	model := newTestModel(t, client)

	_, err := model.Call(context.Background(), []chat.Message{chat.UserMessage("oi")}, &chat.Options{
		Model: "gemini-2.5-pro",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"gemini-2.5-pro"}, client.gotModels)
}

func TestCallAttachesSystemInstruction(t *testing.T) {
	client := &fakeClient{responses: []*genai.GenerateContentResponse{textResponse("ok")}}
	model := newTestModel(t, client)

	_, err := model.Call(context.Background(), []chat.Message{
		chat.SystemMessage("seja breve"),
		chat.UserMessage("oi"),
	}, nil)
	require.NoError(t, err)

	config := client.gotConfigs[0]
	require.NotNil(t, config.SystemInstruction)
	assert.Equal(t, "seja breve", config.SystemInstruction.Parts[0].Text)

	// System turns never appear as content.
	require.Len(t, client.gotContents[0], 1)
}

func TestStreamFinalItemsInOrder(t *testing.T) {
	client := &fakeClient{streams: [][]*genai.GenerateContentResponse{
		{textResponse("um"), textResponse("dois")},
	}}
	model := newTestModel(t, client)

	var texts []string
	for result, err := range model.Stream(context.Background(), []chat.Message{chat.UserMessage("oi")}, nil) {
		require.NoError(t, err)
		texts = append(texts, result.Text())
	}

	assert.Equal(t, []string{"um", "dois"}, texts)
	assert.Equal(t, 1, client.streamCalls)
}

func TestStreamToolRequestSwitchesToContinuation(t *testing.T) {
	client := &fakeClient{streams: [][]*genai.GenerateContentResponse{
		{
			textResponse("antes"),
			toolCallResponse("get_weather", map[string]any{"location": "Recife"}),
			textResponse("nunca emitido"),
		},
		{textResponse("depois")},
	}}

	executions := 0
	model := newTestModel(t, client, echoTool("get_weather", &executions))

	var texts []string
	for result, err := range model.Stream(context.Background(), []chat.Message{chat.UserMessage("oi")}, nil) {
		require.NoError(t, err)
		texts = append(texts, result.Text())
	}

	// The trailing item of the interrupted stream is never surfaced.
	assert.Equal(t, []string{"antes", "depois"}, texts)
	assert.Equal(t, 2, client.streamCalls)
	assert.Equal(t, 1, executions)

	// The continuation request extends the original conversation.
	second := client.gotContents[1]
	require.Len(t, second, 3)
	require.NotNil(t, second[1].Parts[0].FunctionCall)
	require.NotNil(t, second[2].Parts[0].FunctionResponse)
}

func TestStreamSurfacesProviderErrorAsTerminal(t *testing.T) {
	cause := errors.New("stream down")
	client := &fakeClient{err: cause, streams: [][]*genai.GenerateContentResponse{nil}}
	model := newTestModel(t, client)

	var got error
	count := 0
	for _, err := range model.Stream(context.Background(), []chat.Message{chat.UserMessage("oi")}, nil) {
		count++
		got = err
	}

	assert.Equal(t, 1, count)
	var provider *ProviderError
	require.ErrorAs(t, got, &provider)
}

func TestStreamEarlyBreakAbandonsSequence(t *testing.T) {
	client := &fakeClient{streams: [][]*genai.GenerateContentResponse{
		{textResponse("um"), textResponse("dois"), textResponse("três")},
	}}
	model := newTestModel(t, client)

	var texts []string
	for result, err := range model.Stream(context.Background(), []chat.Message{chat.UserMessage("oi")}, nil) {
		require.NoError(t, err)
		texts = append(texts, result.Text())
		break
	}

	assert.Equal(t, []string{"um"}, texts)
}

type countingCloser struct {
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func TestCloseIsIdempotent(t *testing.T) {
	closer := &countingCloser{}
	model, err := New(&Config{
		Client:  &fakeClient{},
		Closer:  closer,
		Options: chat.Options{Model: "gemini-2.5-flash"},
	})
	require.NoError(t, err)

	require.NoError(t, model.Close())
	require.NoError(t, model.Close())
	assert.Equal(t, 1, closer.closed)
}
