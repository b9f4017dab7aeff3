package chat

// Generation is one generated text segment.
type Generation struct {
	Text string `json:"text"`
}

// Usage carries the token counters reported by the provider.
type Usage struct {
	PromptTokens     int32 `json:"prompt_tokens"`
	CompletionTokens int32 `json:"completion_tokens"`
	TotalTokens      int32 `json:"total_tokens"`
}

// Result is the outcome of one generation call: the generated segments in
// order plus usage metadata.
type Result struct {
	Generations []Generation `json:"generations"`
	Usage       Usage        `json:"usage"`
}

// Text concatenates all generated segments.
func (r *Result) Text() string {
	var out string
	for _, g := range r.Generations {
		out += g.Text
	}
	return out
}
