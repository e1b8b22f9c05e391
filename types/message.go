package types

import (
	"encoding/json"
	"time"
)

// Message is a single user or assistant message.
type Message struct {
	ID              string           `json:"id"`
	ConversationID  string           `json:"conversationId"`
	BranchID        string           `json:"branchId,omitempty"`
	ParentMessageID string           `json:"parentMessageId,omitempty"`
	Role            string           `json:"role"`
	Content         string           `json:"content"`
	Model           string           `json:"model,omitempty"`
	ContentHash     string           `json:"contentHash,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	Metadata        *MessageMetadata `json:"metadata,omitempty"`
}

// MessageMetadata carries generation details. Keys the model does not name
// (checkpoint_used, prompt_tokens, ...) are kept in Extra.
type MessageMetadata struct {
	Model        string         `json:"model,omitempty"`
	FinishReason string         `json:"finishReason,omitempty"`
	Extra        map[string]any `json:"-"`
}

// MarshalJSON flattens Extra next to the named fields.
func (m MessageMetadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+2)
	for k, v := range m.Extra {
		out[k] = v
	}
	if m.Model != "" {
		out["model"] = m.Model
	}
	if m.FinishReason != "" {
		out["finishReason"] = m.FinishReason
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the named fields and keeps the rest in Extra.
func (m *MessageMetadata) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = MessageMetadata{}
	for k, v := range raw {
		switch k {
		case "model":
			m.Model, _ = v.(string)
		case "finishReason", "finish_reason":
			m.FinishReason, _ = v.(string)
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]any)
			}
			m.Extra[k] = v
		}
	}
	return nil
}

// Usage reports token consumption of a non-streaming send.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// SendMessageResponse is the pair of messages produced by one send.
//
// Streaming sends synthesize it from the aggregated chunks. Non-streaming
// sends may also populate Message, Usage and Model.
type SendMessageResponse struct {
	UserMessage      Message  `json:"userMessage"`
	AssistantMessage Message  `json:"assistantMessage"`
	Message          *Message `json:"message,omitempty"`
	Usage            *Usage   `json:"usage,omitempty"`
	Model            string   `json:"model,omitempty"`
}
