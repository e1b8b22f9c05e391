package types

import "time"

// Role values for Message.Role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Context modes for branches.
const (
	ContextModeFull    = "FULL"
	ContextModeSummary = "SUMMARY"
	ContextModeNone    = "NONE"
)

// Conversation is a chat thread owning one or more branches.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Model     string    `json:"model,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Branches  []Branch  `json:"branches,omitempty"`
	Messages  []Message `json:"messages,omitempty"`
}

// MainBranch returns the branch flagged as main, if the conversation carries branches.
func (c *Conversation) MainBranch() (Branch, bool) {
	for _, b := range c.Branches {
		if b.IsMain {
			return b, true
		}
	}
	return Branch{}, false
}

// Branch is an alternative line of messages forked from a conversation.
type Branch struct {
	ID                 string    `json:"id"`
	ConversationID     string    `json:"conversationId"`
	Title              string    `json:"title"`
	BaseNodeID         string    `json:"baseNodeId,omitempty"`
	ForkPointMessageID string    `json:"forkPointMessageId,omitempty"`
	ContextMode        string    `json:"contextMode,omitempty"`
	IsMain             bool      `json:"isMain"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// TreeNode is one message node of a conversation tree.
type TreeNode struct {
	ID       string     `json:"id"`
	Message  *Message   `json:"message,omitempty"`
	BranchID string     `json:"branchId,omitempty"`
	Children []TreeNode `json:"children,omitempty"`
	Depth    int        `json:"depth"`
}

// TreeMetadata summarises the shape of a conversation tree.
type TreeMetadata struct {
	TotalNodes    int `json:"totalNodes"`
	TotalBranches int `json:"totalBranches"`
	MaxDepth      int `json:"maxDepth"`
}

// ConversationTree is the branch structure of a conversation.
type ConversationTree struct {
	Conversation Conversation `json:"conversation"`
	MainBranch   []TreeNode   `json:"mainBranch,omitempty"`
	Branches     []Branch     `json:"branches,omitempty"`
	Metadata     TreeMetadata `json:"metadata"`
}
