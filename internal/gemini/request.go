package gemini

import (
	"google.golang.org/genai"

	"github.com/m2tx/geminichat/internal/chat"
	"github.com/m2tx/geminichat/internal/tool"
)

// request is one fully assembled generation attempt. Building it performs no
// network calls.
type request struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// buildRequest merges options, resolves enabled tools, computes the system
// instruction, and translates the conversation. The effective options are
// returned alongside so the tool loop resolves handlers against the same
// view the request was built with.
func (m *ChatModel) buildRequest(messages []chat.Message, perCall *chat.Options) (*request, chat.Options, error) {
	opts := chat.MergeOptions(perCall, m.defaults)

	config := toGenerateConfig(opts)

	if names := opts.EnabledFunctions(); len(names) > 0 {
		decls, err := m.resolveFunctions(names, opts)
		if err != nil {
			return nil, opts, err
		}
		config.Tools = []*genai.Tool{{FunctionDeclarations: toFunctionDeclarations(decls)}}
	}

	if sys := systemInstruction(messages); sys != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: sys}},
		}
	}

	contents, err := toContents(messages)
	if err != nil {
		return nil, opts, err
	}

	return &request{model: opts.Model, contents: contents, config: config}, opts, nil
}

// toGenerateConfig maps the effective options onto the provider config.
// Unset fields stay unset; the provider applies its own defaults.
func toGenerateConfig(opts chat.Options) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if opts.Temperature != nil {
		config.Temperature = opts.Temperature
	}
	if opts.TopP != nil {
		config.TopP = opts.TopP
	}
	if opts.TopK != nil {
		config.TopK = opts.TopK
	}
	if opts.MaxOutputTokens != nil {
		config.MaxOutputTokens = *opts.MaxOutputTokens
	}
	if opts.CandidateCount != nil {
		config.CandidateCount = *opts.CandidateCount
	}
	if len(opts.StopSequences) > 0 {
		config.StopSequences = opts.StopSequences
	}
	return config
}

// resolveFunctions looks up each enabled name, request-scoped declarations
// first, then the model's default registry.
func (m *ChatModel) resolveFunctions(names []string, opts chat.Options) ([]*tool.Declaration, error) {
	decls := make([]*tool.Declaration, 0, len(names))
	for _, name := range names {
		d, ok := m.lookup(name, opts)
		if !ok {
			return nil, &UnknownFunctionError{Name: name}
		}
		decls = append(decls, d)
	}
	return decls, nil
}

func (m *ChatModel) lookup(name string, opts chat.Options) (*tool.Declaration, bool) {
	for _, d := range opts.Tools {
		if d.Name == name {
			return d, true
		}
	}
	return m.registry.Lookup(name)
}

func toFunctionDeclarations(decls []*tool.Declaration) []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(decls))
	for _, d := range decls {
		fd := &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
		}
		if d.Parameters != nil {
			fd.ParametersJsonSchema = d.Parameters
		}
		if d.Response != nil {
			fd.ResponseJsonSchema = d.Response
		}
		out = append(out, fd)
	}
	return out
}
