package chatroutes

import (
	"context"

	"github.com/chatroutes/chatroutes-go/types"
	"github.com/chatroutes/chatroutes-go/validation"
)

// Branches manages alternative lines of a conversation.
type Branches struct {
	c *Client
}

// List returns every branch of a conversation, the main branch included.
func (r *Branches) List(ctx context.Context, conversationID string) ([]types.Branch, error) {
	if err := validation.Required("conversationId", conversationID); err != nil {
		return nil, err
	}
	resp, err := r.c.get(ctx, path("conversations", conversationID, "branches"))
	if err != nil {
		return nil, err
	}
	return unwrapField[[]types.Branch](resp, "branches", "Failed to list branches")
}

// Create adds a branch to a conversation.
func (r *Branches) Create(ctx context.Context, conversationID string, req types.CreateBranchRequest) (*types.Branch, error) {
	if err := validation.Required("conversationId", conversationID); err != nil {
		return nil, err
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	resp, err := r.c.post(ctx, path("conversations", conversationID, "branches"), req)
	if err != nil {
		return nil, err
	}
	return r.branch(resp, "Failed to create branch")
}

// Fork creates a branch starting at an existing message.
func (r *Branches) Fork(ctx context.Context, conversationID string, req types.ForkConversationRequest) (*types.Branch, error) {
	if err := validation.Required("conversationId", conversationID); err != nil {
		return nil, err
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	resp, err := r.c.post(ctx, path("conversations", conversationID, "branches", "fork"), req)
	if err != nil {
		return nil, err
	}
	return r.branch(resp, "Failed to fork conversation")
}

// Update changes branch attributes.
func (r *Branches) Update(ctx context.Context, conversationID, branchID string, req types.UpdateBranchRequest) (*types.Branch, error) {
	if err := requireBranch(conversationID, branchID); err != nil {
		return nil, err
	}
	resp, err := r.c.patch(ctx, path("conversations", conversationID, "branches", branchID), req)
	if err != nil {
		return nil, err
	}
	return r.branch(resp, "Failed to update branch")
}

// Delete removes a branch.
func (r *Branches) Delete(ctx context.Context, conversationID, branchID string) error {
	if err := requireBranch(conversationID, branchID); err != nil {
		return err
	}
	return r.c.remove(ctx, path("conversations", conversationID, "branches", branchID), "Failed to delete branch")
}

// Messages returns the messages on a branch.
func (r *Branches) Messages(ctx context.Context, conversationID, branchID string) ([]types.Message, error) {
	if err := requireBranch(conversationID, branchID); err != nil {
		return nil, err
	}
	resp, err := r.c.get(ctx, path("conversations", conversationID, "branches", branchID, "messages"))
	if err != nil {
		return nil, err
	}
	return unwrapField[[]types.Message](resp, "messages", "Failed to list branch messages")
}

// Merge merges a branch into req.TargetBranchID and returns the target branch.
func (r *Branches) Merge(ctx context.Context, conversationID, branchID string, req types.MergeBranchRequest) (*types.Branch, error) {
	if err := requireBranch(conversationID, branchID); err != nil {
		return nil, err
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	resp, err := r.c.post(ctx, path("conversations", conversationID, "branches", branchID, "merge"), req)
	if err != nil {
		return nil, err
	}
	return r.branch(resp, "Failed to merge branch")
}

func (r *Branches) branch(resp *envelopeResponse, fallback string) (*types.Branch, error) {
	b, err := unwrapField[types.Branch](resp, "branch", fallback)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func requireBranch(conversationID, branchID string) error {
	return validation.New().
		Required("conversationId", conversationID).
		Required("branchId", branchID).
		Validate()
}
