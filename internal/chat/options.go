package chat

import "github.com/m2tx/geminichat/internal/tool"

// Options are generation settings for a chat model. Pointer fields
// distinguish "explicitly set" from "use the provider default"; unset fields
// are omitted from the outbound request entirely.
type Options struct {
	// Model overrides the model identifier for this call.
	Model string

	Temperature     *float32
	TopP            *float32
	TopK            *float32
	MaxOutputTokens *int32
	CandidateCount  *int32
	StopSequences   []string

	// Functions are names of tools to enable for this call. They are
	// resolved against the request-scoped declarations in Tools first, then
	// the model's default registry.
	Functions []string

	// Tools are request-scoped tool declarations. Registering a declaration
	// here also enables it by name.
	Tools []*tool.Declaration
}

// MergeOptions combines per-call options with defaults into the effective
// options for one generation attempt. Scalar fields set on perCall win;
// unset fields fall back to defaults. Function name sets are unioned.
// A nil perCall yields the defaults verbatim.
func MergeOptions(perCall *Options, defaults Options) Options {
	if perCall == nil {
		return defaults
	}

	merged := defaults
	if perCall.Model != "" {
		merged.Model = perCall.Model
	}
	if perCall.Temperature != nil {
		merged.Temperature = perCall.Temperature
	}
	if perCall.TopP != nil {
		merged.TopP = perCall.TopP
	}
	if perCall.TopK != nil {
		merged.TopK = perCall.TopK
	}
	if perCall.MaxOutputTokens != nil {
		merged.MaxOutputTokens = perCall.MaxOutputTokens
	}
	if perCall.CandidateCount != nil {
		merged.CandidateCount = perCall.CandidateCount
	}
	if perCall.StopSequences != nil {
		merged.StopSequences = perCall.StopSequences
	}

	merged.Functions = unionNames(defaults.Functions, perCall.Functions)
	merged.Tools = perCall.Tools

	return merged
}

// EnabledFunctions returns the effective set of enabled function names:
// the explicit Functions list plus the names of request-scoped Tools.
func (o Options) EnabledFunctions() []string {
	names := o.Functions
	for _, d := range o.Tools {
		names = append(names, d.Name)
	}
	return unionNames(nil, names)
}

func unionNames(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, name := range a {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, name := range b {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
