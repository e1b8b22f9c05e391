package chatroutes

import (
	"context"

	"github.com/chatroutes/chatroutes-go/types"
	"github.com/chatroutes/chatroutes-go/validation"
)

// Conversations manages conversations.
type Conversations struct {
	c *Client
}

// Create starts a new conversation.
func (r *Conversations) Create(ctx context.Context, req types.CreateConversationRequest) (*types.Conversation, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	resp, err := r.c.post(ctx, "/conversations", req)
	if err != nil {
		return nil, err
	}
	conv, err := unwrapField[types.Conversation](resp, "conversation", "Failed to create conversation")
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// List returns the caller's conversations.
func (r *Conversations) List(ctx context.Context) (*types.ConversationList, error) {
	resp, err := r.c.get(ctx, "/conversations")
	if err != nil {
		return nil, err
	}
	list, err := unwrap[types.ConversationList](resp, "Failed to list conversations")
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Get fetches a conversation by id.
func (r *Conversations) Get(ctx context.Context, conversationID string) (*types.Conversation, error) {
	if err := validation.Required("conversationId", conversationID); err != nil {
		return nil, err
	}
	resp, err := r.c.get(ctx, path("conversations", conversationID))
	if err != nil {
		return nil, err
	}
	conv, err := unwrapField[types.Conversation](resp, "conversation", "Failed to get conversation")
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// Update renames or archives a conversation.
func (r *Conversations) Update(ctx context.Context, conversationID string, req types.UpdateConversationRequest) (*types.Conversation, error) {
	if err := validation.Required("conversationId", conversationID); err != nil {
		return nil, err
	}
	resp, err := r.c.patch(ctx, path("conversations", conversationID), req)
	if err != nil {
		return nil, err
	}
	conv, err := unwrapField[types.Conversation](resp, "conversation", "Failed to update conversation")
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// Delete removes a conversation with all of its branches and messages.
func (r *Conversations) Delete(ctx context.Context, conversationID string) error {
	if err := validation.Required("conversationId", conversationID); err != nil {
		return err
	}
	return r.c.remove(ctx, path("conversations", conversationID), "Failed to delete conversation")
}

// Tree returns the branch structure of a conversation.
func (r *Conversations) Tree(ctx context.Context, conversationID string) (*types.ConversationTree, error) {
	if err := validation.Required("conversationId", conversationID); err != nil {
		return nil, err
	}
	resp, err := r.c.get(ctx, path("conversations", conversationID, "tree"))
	if err != nil {
		return nil, err
	}
	tree, err := unwrap[types.ConversationTree](resp, "Failed to get conversation tree")
	if err != nil {
		return nil, err
	}
	return &tree, nil
}
