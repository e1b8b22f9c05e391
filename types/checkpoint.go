package types

import (
	"encoding/json"
	"time"
)

// Checkpoint is a server-generated summary anchored at a message, used to
// shorten the context of long branches.
type Checkpoint struct {
	ID              string    `json:"id"`
	ConversationID  string    `json:"conversationId"`
	BranchID        string    `json:"branchId"`
	AnchorMessageID string    `json:"anchorMessageId"`
	Summary         string    `json:"summary"`
	TokenCount      int       `json:"tokenCount"`
	CreatedAt       time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts the snake_case keys the checkpoint endpoints emit
// as well as camelCase.
func (c *Checkpoint) UnmarshalJSON(data []byte) error {
	type camel Checkpoint
	var wire struct {
		camel
		SnakeConversationID  string     `json:"conversation_id"`
		SnakeBranchID        string     `json:"branch_id"`
		SnakeAnchorMessageID string     `json:"anchor_message_id"`
		SnakeTokenCount      *int       `json:"token_count"`
		SnakeCreatedAt       *time.Time `json:"created_at"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*c = Checkpoint(wire.camel)
	c.ConversationID = firstNonEmpty(c.ConversationID, wire.SnakeConversationID)
	c.BranchID = firstNonEmpty(c.BranchID, wire.SnakeBranchID)
	c.AnchorMessageID = firstNonEmpty(c.AnchorMessageID, wire.SnakeAnchorMessageID)
	if c.TokenCount == 0 && wire.SnakeTokenCount != nil {
		c.TokenCount = *wire.SnakeTokenCount
	}
	if c.CreatedAt.IsZero() && wire.SnakeCreatedAt != nil {
		c.CreatedAt = *wire.SnakeCreatedAt
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
