package gemini

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/m2tx/geminichat/internal/chat"
	"github.com/m2tx/geminichat/internal/jsonx"
)

const (
	roleUser  = "user"
	roleModel = "model"
)

// systemInstruction joins the text of all system messages with newlines.
// Empty when the conversation has no system turns.
func systemInstruction(messages []chat.Message) string {
	var parts []string
	for _, m := range messages {
		if m.Role == chat.RoleSystem {
			parts = append(parts, m.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// toContents translates the conversation into provider content turns.
// System messages are skipped; they travel as the system instruction.
func toContents(messages []chat.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		if m.Role == chat.RoleSystem {
			continue
		}
		role, parts, err := messageParts(m)
		if err != nil {
			return nil, err
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}
	return contents, nil
}

func messageParts(m chat.Message) (string, []*genai.Part, error) {
	switch m.Role {
	case chat.RoleUser:
		// A user turn always leads with a text part, even when no text was
		// given; the placeholder keeps request shape stable.
		text := m.Text
		if text == "" {
			text = "null"
		}
		parts := make([]*genai.Part, 0, 1+len(m.Media))
		parts = append(parts, &genai.Part{Text: text})
		for _, media := range m.Media {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{MIMEType: media.MIMEType, Data: media.Data},
			})
		}
		return roleUser, parts, nil

	case chat.RoleAssistant:
		var parts []*genai.Part
		if m.Text != "" {
			parts = append(parts, &genai.Part{Text: m.Text})
		}
		for _, call := range m.ToolCalls {
			args, err := jsonx.UnmarshalObject(call.Arguments)
			if err != nil {
				return "", nil, fmt.Errorf("gemini: decode arguments of call %q: %w", call.Name, err)
			}
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{ID: call.ID, Name: call.Name, Args: args},
			})
		}
		return roleModel, parts, nil

	case chat.RoleTool:
		parts := make([]*genai.Part, 0, len(m.ToolResults))
		for _, res := range m.ToolResults {
			response, err := jsonx.UnmarshalObject(res.Content)
			if err != nil {
				return "", nil, fmt.Errorf("gemini: decode result of %q: %w", res.Name, err)
			}
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{ID: res.ID, Name: res.Name, Response: response},
			})
		}
		// Tool results are sent back under the user role, per provider
		// convention.
		return roleUser, parts, nil

	default:
		return "", nil, &UnsupportedMessageTypeError{Role: m.Role}
	}
}

// isToolCall classifies a response as a tool request. Only the first part of
// the first candidate is inspected.
func isToolCall(resp *genai.GenerateContentResponse) bool {
	if resp == nil || len(resp.Candidates) == 0 {
		return false
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return false
	}
	return content.Parts[0].FunctionCall != nil
}

// extractToolCalls collects every function-call part of the first candidate,
// in order, encoding the structured arguments back to JSON text.
func extractToolCalls(resp *genai.GenerateContentResponse) ([]chat.ToolCall, error) {
	content := resp.Candidates[0].Content
	var calls []chat.ToolCall
	for _, part := range content.Parts {
		fc := part.FunctionCall
		if fc == nil {
			continue
		}
		args, err := jsonx.Marshal(fc.Args)
		if err != nil {
			return nil, fmt.Errorf("gemini: encode arguments of call %q: %w", fc.Name, err)
		}
		id := fc.ID
		if id == "" {
			id = fmt.Sprintf("%s_%s", fc.Name, uuid.NewString())
		}
		calls = append(calls, chat.ToolCall{
			ID:        id,
			Kind:      chat.ToolCallKind,
			Name:      fc.Name,
			Arguments: args,
		})
	}
	return calls, nil
}

// toResult flattens all candidates into ordered text generations and copies
// the usage counters. Non-text parts contribute empty segments.
func toResult(resp *genai.GenerateContentResponse) *chat.Result {
	result := &chat.Result{}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			result.Generations = append(result.Generations, chat.Generation{Text: part.Text})
		}
	}
	if usage := resp.UsageMetadata; usage != nil {
		result.Usage = chat.Usage{
			PromptTokens:     usage.PromptTokenCount,
			CompletionTokens: usage.CandidatesTokenCount,
			TotalTokens:      usage.TotalTokenCount,
		}
	}
	return result
}
