package mockserver

import (
	"fmt"
	"strings"
	"time"

	"github.com/chatroutes/chatroutes-go/types"
)

const replyPrefix = "You said: "

// replyFor is the deterministic assistant answer to content.
func replyFor(content string) string {
	return replyPrefix + content
}

// splitReply cuts text into word-sized pieces that concatenate back to text.
func splitReply(text string) []string {
	parts := strings.SplitAfter(text, " ")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func summaryText(messages int) string {
	return fmt.Sprintf("Summary of %d messages", messages)
}

func usageFor(prompt, completion string) *types.Usage {
	p, c := len(strings.Fields(prompt)), len(strings.Fields(completion))
	return &types.Usage{PromptTokens: p, CompletionTokens: c, TotalTokens: p + c}
}

// checkpointWire is the snake_case form the checkpoint endpoints emit.
type checkpointWire struct {
	ID              string    `json:"id"`
	ConversationID  string    `json:"conversation_id"`
	BranchID        string    `json:"branch_id"`
	AnchorMessageID string    `json:"anchor_message_id"`
	Summary         string    `json:"summary"`
	TokenCount      int       `json:"token_count"`
	CreatedAt       time.Time `json:"created_at"`
}

func toCheckpointWire(cp types.Checkpoint) checkpointWire {
	return checkpointWire(cp)
}

func toCheckpointWires(cps []types.Checkpoint) []checkpointWire {
	out := make([]checkpointWire, len(cps))
	for i, cp := range cps {
		out[i] = toCheckpointWire(cp)
	}
	return out
}

// chunkBuilder produces stream chunks in one wire shape.
type chunkBuilder struct {
	flat  bool
	model string
}

func (b chunkBuilder) content(text string, first bool) types.StreamChunk {
	if b.flat {
		return types.StreamChunk{Type: types.ChunkTypeContent, Content: text, Model: b.model}
	}
	delta := types.Delta{Content: text}
	if first {
		delta.Role = types.RoleAssistant
	}
	return types.StreamChunk{Model: b.model, Choices: []types.Choice{{Index: 0, Delta: delta}}}
}

func (b chunkBuilder) done(finishReason, userID, assistantID string) types.StreamChunk {
	var c types.StreamChunk
	if b.flat {
		c = types.StreamChunk{Type: types.ChunkTypeDone, FinishReason: finishReason, Model: b.model}
	} else {
		c = types.StreamChunk{Model: b.model, Choices: []types.Choice{{Index: 0, FinishReason: finishReason}}}
	}
	c.UserMessageID = userID
	c.AssistantMessageID = assistantID
	return c
}
