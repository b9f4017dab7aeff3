package chat

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCallKind is the only call kind the adapter emits.
const ToolCallKind = "function"

// Media is a binary attachment on a user message.
type Media struct {
	MIMEType string `json:"mime_type" bson:"mime_type"`
	Data     []byte `json:"data" bson:"data"`
}

// ToolCall is a function invocation requested by the model. Arguments is the
// JSON-encoded argument object.
type ToolCall struct {
	ID        string `json:"id,omitempty" bson:"id,omitempty"`
	Kind      string `json:"kind" bson:"kind"`
	Name      string `json:"name" bson:"name"`
	Arguments string `json:"arguments" bson:"arguments"`
}

// ToolResult is the outcome of one executed tool call. Content is the
// JSON-encoded result payload.
type ToolResult struct {
	ID      string `json:"id,omitempty" bson:"id,omitempty"`
	Name    string `json:"name" bson:"name"`
	Content string `json:"content" bson:"content"`
}

// Message is a single conversation turn, tagged by Role.
//
// Which fields are meaningful depends on the role: user messages carry Text
// and Media, assistant messages carry Text and ToolCalls, tool messages carry
// ToolResults, system messages carry Text only.
type Message struct {
	Role Role   `json:"role" bson:"role"`
	Text string `json:"text,omitempty" bson:"text,omitempty"`

	Media []Media `json:"media,omitempty" bson:"media,omitempty"`

	ToolCalls []ToolCall `json:"tool_calls,omitempty" bson:"tool_calls,omitempty"`

	ToolResults []ToolResult `json:"tool_results,omitempty" bson:"tool_results,omitempty"`
}

// SystemMessage returns a system turn with the given instruction text.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Text: text}
}

// UserMessage returns a user turn with the given text.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text}
}

// AssistantMessage returns an assistant turn with the given text.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Text: text}
}

// ToolMessage returns a tool turn carrying the given results in order.
func ToolMessage(results ...ToolResult) Message {
	return Message{Role: RoleTool, ToolResults: results}
}
