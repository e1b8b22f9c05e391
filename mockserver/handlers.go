package mockserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chatroutes/chatroutes-go/logger"
	"github.com/chatroutes/chatroutes-go/stream"
	"github.com/chatroutes/chatroutes-go/types"
	"github.com/chatroutes/chatroutes-go/validation"
)

// HeaderFailAfter makes the stream endpoint emit an error event after n chunks.
const HeaderFailAfter = "X-Mock-Fail-After"

type handlers struct {
	store  *store
	config Config
	log    *logger.Logger
}

func (h *handlers) register(r gin.IRouter) {
	r.POST("/conversations", h.createConversation)
	r.GET("/conversations", h.listConversations)
	r.GET("/conversations/:id", h.getConversation)
	r.PATCH("/conversations/:id", h.updateConversation)
	r.DELETE("/conversations/:id", h.deleteConversation)
	r.GET("/conversations/:id/tree", h.tree)

	r.POST("/conversations/:id/messages", h.sendMessage)
	r.POST("/conversations/:id/messages/stream", h.streamMessage)
	r.GET("/conversations/:id/messages", h.listMessages)
	r.PATCH("/messages/:messageId", h.updateMessage)
	r.DELETE("/messages/:messageId", h.deleteMessage)

	r.GET("/conversations/:id/branches", h.listBranches)
	r.POST("/conversations/:id/branches", h.createBranch)
	r.POST("/conversations/:id/branches/fork", h.forkBranch)
	r.PATCH("/conversations/:id/branches/:branchId", h.updateBranch)
	r.DELETE("/conversations/:id/branches/:branchId", h.deleteBranch)
	r.GET("/conversations/:id/branches/:branchId/messages", h.branchMessages)
	r.POST("/conversations/:id/branches/:branchId/merge", h.mergeBranch)

	r.POST("/conversations/:id/checkpoints", h.createCheckpoint)
	r.GET("/conversations/:id/checkpoints", h.listCheckpoints)
	r.GET("/checkpoints/:checkpointId", h.getCheckpoint)
	r.DELETE("/checkpoints/:checkpointId", h.deleteCheckpoint)
	r.POST("/checkpoints/:checkpointId/recreate", h.recreateCheckpoint)
}

// bind decodes and validates the JSON body, answering 400 on failure.
func (h *handlers) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, badRequest("Invalid request body: "+err.Error()))
		return false
	}
	if err := validation.Validate(dst); err != nil {
		respondError(c, badRequest(err.Error()))
		return false
	}
	return true
}

// --- conversations ---

func (h *handlers) createConversation(c *gin.Context) {
	var req types.CreateConversationRequest
	if !h.bind(c, &req) {
		return
	}
	model := req.Model
	if model == "" {
		model = h.config.Model
	}
	respondCreated(c, h.store.createConversation(req.Title, model))
}

func (h *handlers) listConversations(c *gin.Context) {
	convs := h.store.listConversations()
	respondOK(c, gin.H{"conversations": convs, "total": len(convs)})
}

func (h *handlers) getConversation(c *gin.Context) {
	conv, err := h.store.getConversation(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, conv)
}

func (h *handlers) updateConversation(c *gin.Context) {
	var req types.UpdateConversationRequest
	if !h.bind(c, &req) {
		return
	}
	conv, err := h.store.updateConversation(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, conv)
}

func (h *handlers) deleteConversation(c *gin.Context) {
	if err := h.store.deleteConversation(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondDeleted(c, "Conversation")
}

func (h *handlers) tree(c *gin.Context) {
	tree, err := h.store.tree(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, tree)
}

// --- messages ---

func (h *handlers) modelFor(req types.SendMessageRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return h.config.Model
}

func (h *handlers) sendMessage(c *gin.Context) {
	var req types.SendMessageRequest
	if !h.bind(c, &req) {
		return
	}
	user, err := h.store.addUserMessage(c.Param("id"), req.BranchID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	model := h.modelFor(req)
	reply := replyFor(req.Content)
	assistant := h.store.addAssistantMessage(newID("msg"), user, reply, model, stream.DefaultFinishReason)
	respondOK(c, types.SendMessageResponse{
		UserMessage:      user,
		AssistantMessage: assistant,
		Model:            model,
		Usage:            usageFor(req.Content, reply),
	})
}

func (h *handlers) streamMessage(c *gin.Context) {
	var req types.SendMessageRequest
	if !h.bind(c, &req) {
		return
	}
	failAfter := -1
	if v := c.GetHeader(HeaderFailAfter); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(c, badRequest(HeaderFailAfter+" must be a non-negative integer"))
			return
		}
		failAfter = n
	}
	user, err := h.store.addUserMessage(c.Param("id"), req.BranchID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	model := h.modelFor(req)
	reply := replyFor(req.Content)
	build := chunkBuilder{flat: h.config.StreamShape == stream.ShapeFlat, model: model}
	assistantID := newID("msg")
	ctx := c.Request.Context()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	sent := 0
	emit := func(chunk types.StreamChunk) bool {
		if failAfter >= 0 && sent == failAfter {
			c.SSEvent("error", gin.H{"message": "mock stream failure", "code": "MOCK_STREAM_FAILURE"})
			c.Writer.Flush()
			return false
		}
		c.SSEvent("", chunk)
		c.Writer.Flush()
		sent++
		if h.config.ChunkDelay > 0 {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(h.config.ChunkDelay):
			}
		}
		return ctx.Err() == nil
	}

	for i, part := range splitReply(reply) {
		if !emit(build.content(part, i == 0)) {
			return
		}
	}

	h.store.addAssistantMessage(assistantID, user, reply, model, stream.DefaultFinishReason)
	userID := user.ID
	if h.config.OmitIdentifiers {
		userID, assistantID = "", ""
	}
	if !emit(build.done(stream.DefaultFinishReason, userID, assistantID)) {
		return
	}
	c.SSEvent("", "[DONE]")
	c.Writer.Flush()

	h.log.Debug("stream served", logger.Fields(
		logger.FieldConversationID, user.ConversationID,
		logger.FieldChunkCount, sent,
	))
}

func (h *handlers) listMessages(c *gin.Context) {
	msgs, err := h.store.listMessages(c.Param("id"), c.Query("branchId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"messages": msgs})
}

func (h *handlers) updateMessage(c *gin.Context) {
	var req types.UpdateMessageRequest
	if !h.bind(c, &req) {
		return
	}
	msg, err := h.store.updateMessage(c.Param("messageId"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"message": msg})
}

func (h *handlers) deleteMessage(c *gin.Context) {
	if err := h.store.deleteMessage(c.Param("messageId")); err != nil {
		respondError(c, err)
		return
	}
	respondDeleted(c, "Message")
}

// --- branches ---

func (h *handlers) listBranches(c *gin.Context) {
	branches, err := h.store.listBranches(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, branches)
}

func (h *handlers) createBranch(c *gin.Context) {
	var req types.CreateBranchRequest
	if !h.bind(c, &req) {
		return
	}
	b, err := h.store.createBranch(c.Param("id"), types.Branch{
		Title:              req.Title,
		BaseNodeID:         req.BaseNodeID,
		ForkPointMessageID: req.ForkPointMessageID,
		ContextMode:        req.ContextMode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, b)
}

func (h *handlers) forkBranch(c *gin.Context) {
	var req types.ForkConversationRequest
	if !h.bind(c, &req) {
		return
	}
	title := req.Title
	if title == "" {
		title = "Fork"
	}
	b, err := h.store.createBranch(c.Param("id"), types.Branch{
		Title:              title,
		ForkPointMessageID: req.ForkPointMessageID,
		ContextMode:        req.ContextMode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, gin.H{"branch": b})
}

func (h *handlers) updateBranch(c *gin.Context) {
	var req types.UpdateBranchRequest
	if !h.bind(c, &req) {
		return
	}
	b, err := h.store.updateBranch(c.Param("id"), c.Param("branchId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, b)
}

func (h *handlers) deleteBranch(c *gin.Context) {
	if err := h.store.deleteBranch(c.Param("id"), c.Param("branchId")); err != nil {
		respondError(c, err)
		return
	}
	respondDeleted(c, "Branch")
}

func (h *handlers) branchMessages(c *gin.Context) {
	branchID := c.Param("branchId")
	msgs, err := h.store.listMessages(c.Param("id"), branchID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, msgs)
}

func (h *handlers) mergeBranch(c *gin.Context) {
	var req types.MergeBranchRequest
	if !h.bind(c, &req) {
		return
	}
	b, err := h.store.mergeBranch(c.Param("id"), c.Param("branchId"), req.TargetBranchID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"branch": b})
}

// --- checkpoints ---

func (h *handlers) createCheckpoint(c *gin.Context) {
	var req types.CreateCheckpointRequest
	if !h.bind(c, &req) {
		return
	}
	cp, err := h.store.createCheckpoint(c.Param("id"), req.BranchID, req.AnchorMessageID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, toCheckpointWire(cp))
}

func (h *handlers) listCheckpoints(c *gin.Context) {
	cps, err := h.store.listCheckpoints(c.Param("id"), c.Query("branchId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, toCheckpointWires(cps))
}

func (h *handlers) getCheckpoint(c *gin.Context) {
	cp, err := h.store.getCheckpoint(c.Param("checkpointId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, toCheckpointWire(cp))
}

func (h *handlers) recreateCheckpoint(c *gin.Context) {
	cp, err := h.store.recreateCheckpoint(c.Param("checkpointId"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"checkpoint": toCheckpointWire(cp)})
}

func (h *handlers) deleteCheckpoint(c *gin.Context) {
	if err := h.store.deleteCheckpoint(c.Param("checkpointId")); err != nil {
		respondError(c, err)
		return
	}
	respondDeleted(c, "Checkpoint")
}

// noRoute answers unknown paths with an envelope.
func noRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, envelope{Message: "Route not found"})
}
