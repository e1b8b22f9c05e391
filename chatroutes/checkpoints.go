package chatroutes

import (
	"context"

	"github.com/chatroutes/chatroutes-go/httpclient"
	"github.com/chatroutes/chatroutes-go/types"
	"github.com/chatroutes/chatroutes-go/validation"
)

// Checkpoints manages context summaries of long branches.
type Checkpoints struct {
	c *Client
}

// Create summarises a branch up to anchorMessageID.
func (r *Checkpoints) Create(ctx context.Context, conversationID, branchID, anchorMessageID string) (*types.Checkpoint, error) {
	req := types.CreateCheckpointRequest{BranchID: branchID, AnchorMessageID: anchorMessageID}
	if err := validation.Required("conversationId", conversationID); err != nil {
		return nil, err
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	resp, err := r.c.post(ctx, path("conversations", conversationID, "checkpoints"), req)
	if err != nil {
		return nil, err
	}
	return r.checkpoint(resp, "Failed to create checkpoint")
}

// List returns the checkpoints of a conversation, optionally limited to one branch.
func (r *Checkpoints) List(ctx context.Context, conversationID, branchID string) ([]types.Checkpoint, error) {
	if err := validation.Required("conversationId", conversationID); err != nil {
		return nil, err
	}
	resp, err := r.c.get(ctx, path("conversations", conversationID, "checkpoints"),
		httpclient.WithQueryParam("branchId", branchID))
	if err != nil {
		return nil, err
	}
	return unwrapField[[]types.Checkpoint](resp, "checkpoints", "Failed to list checkpoints")
}

// Get fetches a checkpoint by id.
func (r *Checkpoints) Get(ctx context.Context, checkpointID string) (*types.Checkpoint, error) {
	if err := validation.Required("checkpointId", checkpointID); err != nil {
		return nil, err
	}
	resp, err := r.c.get(ctx, path("checkpoints", checkpointID))
	if err != nil {
		return nil, err
	}
	return r.checkpoint(resp, "Failed to get checkpoint")
}

// Delete removes a checkpoint.
func (r *Checkpoints) Delete(ctx context.Context, checkpointID string) error {
	if err := validation.Required("checkpointId", checkpointID); err != nil {
		return err
	}
	return r.c.remove(ctx, path("checkpoints", checkpointID), "Failed to delete checkpoint")
}

// Recreate regenerates the summary of a checkpoint.
func (r *Checkpoints) Recreate(ctx context.Context, checkpointID string) (*types.Checkpoint, error) {
	if err := validation.Required("checkpointId", checkpointID); err != nil {
		return nil, err
	}
	resp, err := r.c.post(ctx, path("checkpoints", checkpointID, "recreate"), nil)
	if err != nil {
		return nil, err
	}
	return r.checkpoint(resp, "Failed to recreate checkpoint")
}

func (r *Checkpoints) checkpoint(resp *envelopeResponse, fallback string) (*types.Checkpoint, error) {
	cp, err := unwrapField[types.Checkpoint](resp, "checkpoint", fallback)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}
