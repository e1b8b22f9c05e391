package types

// SendMessageRequest is the body of a send or stream call.
type SendMessageRequest struct {
	Content     string   `json:"content" validate:"required"`
	Model       string   `json:"model,omitempty"`
	BranchID    string   `json:"branchId,omitempty"`
	Temperature *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
}

// CreateConversationRequest creates a conversation.
type CreateConversationRequest struct {
	Title string `json:"title" validate:"required"`
	Model string `json:"model,omitempty"`
}

// UpdateConversationRequest renames or archives a conversation.
type UpdateConversationRequest struct {
	Title      string `json:"title,omitempty"`
	IsArchived *bool  `json:"isArchived,omitempty"`
}

// CreateBranchRequest creates a branch.
type CreateBranchRequest struct {
	Title              string `json:"title" validate:"required"`
	BaseNodeID         string `json:"baseNodeId,omitempty"`
	ForkPointMessageID string `json:"forkPointMessageId,omitempty"`
	ContextMode        string `json:"contextMode,omitempty" validate:"omitempty,oneof=FULL SUMMARY NONE"`
	Description        string `json:"description,omitempty"`
}

// ForkConversationRequest forks a conversation at a message.
type ForkConversationRequest struct {
	ForkPointMessageID string `json:"forkPointMessageId" validate:"required"`
	Title              string `json:"title,omitempty"`
	ContextMode        string `json:"contextMode,omitempty" validate:"omitempty,oneof=FULL SUMMARY NONE"`
}

// UpdateBranchRequest updates branch attributes.
type UpdateBranchRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// MergeBranchRequest merges a branch into a target branch.
type MergeBranchRequest struct {
	TargetBranchID string `json:"targetBranchId" validate:"required"`
}

// CreateCheckpointRequest anchors a checkpoint at a message of a branch.
type CreateCheckpointRequest struct {
	BranchID        string `json:"branchId" validate:"required"`
	AnchorMessageID string `json:"anchorMessageId" validate:"required"`
}

// UpdateMessageRequest edits a message.
type UpdateMessageRequest struct {
	Content string `json:"content" validate:"required"`
}
