package chatroutes

import (
	"context"
	stderrors "errors"

	"github.com/chatroutes/chatroutes-go/httpclient"
	"github.com/chatroutes/chatroutes-go/logger"
	"github.com/chatroutes/chatroutes-go/stream"
	"github.com/chatroutes/chatroutes-go/types"
	"github.com/chatroutes/chatroutes-go/validation"
)

// ErrStreamIncomplete is returned by StreamAndWait when the stream closed
// normally without ever reporting a finish reason.
var ErrStreamIncomplete = stderrors.New("chatroutes: stream closed without a finish reason")

// Messages sends, streams and edits messages.
type Messages struct {
	c *Client
}

// Send posts a user message and waits for the full assistant reply.
func (r *Messages) Send(ctx context.Context, conversationID string, req types.SendMessageRequest) (*types.SendMessageResponse, error) {
	if err := validation.Required("conversationId", conversationID); err != nil {
		return nil, err
	}
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	resp, err := r.c.post(ctx, path("conversations", conversationID, "messages"), req)
	if err != nil {
		return nil, err
	}
	out, err := unwrap[types.SendMessageResponse](resp, "Failed to send message")
	if err != nil {
		return nil, err
	}
	r.c.log.Debug("message sent", logger.Fields(
		logger.FieldConversationID, conversationID,
		logger.FieldModel, out.Model,
	))
	return &out, nil
}

// Stream posts a user message and delivers the reply incrementally to obs.
// See stream.Aggregator.Stream for the delivery contract.
func (r *Messages) Stream(ctx context.Context, conversationID string, req types.SendMessageRequest, obs stream.ChunkObserver) error {
	return r.c.aggregator.Stream(ctx, conversationID, req, obs)
}

// StreamAndWait streams a reply, calling onChunk (may be nil) for every
// chunk, and returns the aggregated response once the stream ends.
func (r *Messages) StreamAndWait(ctx context.Context, conversationID string, req types.SendMessageRequest, onChunk func(types.StreamChunk)) (*types.SendMessageResponse, error) {
	var result *types.SendMessageResponse
	err := r.Stream(ctx, conversationID, req, stream.ObserverFuncs{
		Chunk:    onChunk,
		Complete: func(resp *types.SendMessageResponse) { result = resp },
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrStreamIncomplete
	}
	return result, nil
}

// List returns the messages of a conversation, optionally limited to one branch.
func (r *Messages) List(ctx context.Context, conversationID, branchID string) ([]types.Message, error) {
	if err := validation.Required("conversationId", conversationID); err != nil {
		return nil, err
	}
	resp, err := r.c.get(ctx, path("conversations", conversationID, "messages"),
		httpclient.WithQueryParam("branchId", branchID))
	if err != nil {
		return nil, err
	}
	return unwrapField[[]types.Message](resp, "messages", "Failed to list messages")
}

// Update replaces the content of a message.
func (r *Messages) Update(ctx context.Context, messageID, content string) (*types.Message, error) {
	req := types.UpdateMessageRequest{Content: content}
	if err := validation.New().
		Required("messageId", messageID).
		Required("content", content).
		Validate(); err != nil {
		return nil, err
	}
	resp, err := r.c.patch(ctx, path("messages", messageID), req)
	if err != nil {
		return nil, err
	}
	msg, err := unwrapField[types.Message](resp, "message", "Failed to update message")
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Delete removes a message.
func (r *Messages) Delete(ctx context.Context, messageID string) error {
	if err := validation.Required("messageId", messageID); err != nil {
		return err
	}
	return r.c.remove(ctx, path("messages", messageID), "Failed to delete message")
}
