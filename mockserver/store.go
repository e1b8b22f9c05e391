package mockserver

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chatroutes/chatroutes-go/types"
)

// store keeps every resource in memory. All methods are safe for concurrent use.
type store struct {
	mu            sync.RWMutex
	now           func() time.Time
	conversations map[string]*types.Conversation
	branches      map[string]*types.Branch
	messages      []*types.Message
	checkpoints   map[string]*types.Checkpoint
}

func newStore(now func() time.Time) *store {
	return &store{
		now:           now,
		conversations: make(map[string]*types.Conversation),
		branches:      make(map[string]*types.Branch),
		checkpoints:   make(map[string]*types.Checkpoint),
	}
}

func newID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// --- conversations ---

func (s *store) createConversation(title, model string) types.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	conv := &types.Conversation{ID: newID("conv"), Title: title, Model: model, CreatedAt: now, UpdatedAt: now}
	s.conversations[conv.ID] = conv
	main := &types.Branch{
		ID: newID("br"), ConversationID: conv.ID, Title: "Main",
		ContextMode: types.ContextModeFull, IsMain: true, CreatedAt: now, UpdatedAt: now,
	}
	s.branches[main.ID] = main
	return s.conversationLocked(conv)
}

func (s *store) listConversations() []types.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b types.Conversation) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func (s *store) getConversation(id string) (types.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return types.Conversation{}, notFound("Conversation")
	}
	return s.conversationLocked(conv), nil
}

func (s *store) updateConversation(id string, req types.UpdateConversationRequest) (types.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return types.Conversation{}, notFound("Conversation")
	}
	if req.Title != "" {
		conv.Title = req.Title
	}
	conv.UpdatedAt = s.now()
	return s.conversationLocked(conv), nil
}

func (s *store) deleteConversation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return notFound("Conversation")
	}
	delete(s.conversations, id)
	for bid, b := range s.branches {
		if b.ConversationID == id {
			delete(s.branches, bid)
		}
	}
	for cid, cp := range s.checkpoints {
		if cp.ConversationID == id {
			delete(s.checkpoints, cid)
		}
	}
	s.messages = slices.DeleteFunc(s.messages, func(m *types.Message) bool { return m.ConversationID == id })
	return nil
}

// conversationLocked returns a copy of conv with its branches attached.
func (s *store) conversationLocked(conv *types.Conversation) types.Conversation {
	out := *conv
	out.Branches = s.branchesLocked(conv.ID)
	return out
}

func (s *store) tree(id string) (types.ConversationTree, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return types.ConversationTree{}, notFound("Conversation")
	}
	branches := s.branchesLocked(id)
	tree := types.ConversationTree{Conversation: *conv, Branches: branches}

	var mainID string
	for _, b := range branches {
		if b.IsMain {
			mainID = b.ID
		}
	}
	nodes := 0
	for _, m := range s.messages {
		if m.ConversationID != id {
			continue
		}
		nodes++
		if m.BranchID == mainID {
			msg := *m
			tree.MainBranch = append(tree.MainBranch, types.TreeNode{
				ID: m.ID, Message: &msg, BranchID: m.BranchID, Depth: len(tree.MainBranch),
			})
		}
	}
	tree.Metadata = types.TreeMetadata{TotalNodes: nodes, TotalBranches: len(branches), MaxDepth: len(tree.MainBranch)}
	return tree, nil
}

// --- branches ---

func (s *store) branchesLocked(conversationID string) []types.Branch {
	var out []types.Branch
	for _, b := range s.branches {
		if b.ConversationID == conversationID {
			out = append(out, *b)
		}
	}
	slices.SortFunc(out, func(a, b types.Branch) int {
		switch {
		case a.IsMain != b.IsMain:
			if a.IsMain {
				return -1
			}
			return 1
		case !a.CreatedAt.Equal(b.CreatedAt):
			return a.CreatedAt.Compare(b.CreatedAt)
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func (s *store) listBranches(conversationID string) ([]types.Branch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return nil, notFound("Conversation")
	}
	return s.branchesLocked(conversationID), nil
}

func (s *store) createBranch(conversationID string, b types.Branch) (types.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return types.Branch{}, notFound("Conversation")
	}
	if b.ForkPointMessageID != "" {
		if m := s.messageLocked(b.ForkPointMessageID); m == nil || m.ConversationID != conversationID {
			return types.Branch{}, notFound("Fork point message")
		}
	}
	now := s.now()
	b.ID = newID("br")
	b.ConversationID = conversationID
	b.IsMain = false
	b.CreatedAt, b.UpdatedAt = now, now
	if b.ContextMode == "" {
		b.ContextMode = types.ContextModeFull
	}
	s.branches[b.ID] = &b
	return b, nil
}

// branchLocked resolves a branch of a conversation; an empty id selects the main branch.
func (s *store) branchLocked(conversationID, branchID string) (*types.Branch, error) {
	if _, ok := s.conversations[conversationID]; !ok {
		return nil, notFound("Conversation")
	}
	for _, b := range s.branches {
		if b.ConversationID != conversationID {
			continue
		}
		if (branchID == "" && b.IsMain) || b.ID == branchID {
			return b, nil
		}
	}
	return nil, notFound("Branch")
}

func (s *store) updateBranch(conversationID, branchID string, req types.UpdateBranchRequest) (types.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.branchLocked(conversationID, branchID)
	if err != nil {
		return types.Branch{}, err
	}
	if req.Title != "" {
		b.Title = req.Title
	}
	b.UpdatedAt = s.now()
	return *b, nil
}

func (s *store) deleteBranch(conversationID, branchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.branchLocked(conversationID, branchID)
	if err != nil {
		return err
	}
	if b.IsMain {
		return badRequest("The main branch cannot be deleted")
	}
	delete(s.branches, b.ID)
	s.messages = slices.DeleteFunc(s.messages, func(m *types.Message) bool { return m.BranchID == b.ID })
	return nil
}

// mergeBranch appends the source branch's messages to the target branch.
func (s *store) mergeBranch(conversationID, branchID, targetID string) (types.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.branchLocked(conversationID, branchID)
	if err != nil {
		return types.Branch{}, err
	}
	target, err := s.branchLocked(conversationID, targetID)
	if err != nil {
		return types.Branch{}, err
	}
	if src.ID == target.ID {
		return types.Branch{}, badRequest("A branch cannot be merged into itself")
	}
	for _, m := range s.messagesLocked(conversationID, src.ID) {
		cp := m
		cp.ID = newID("msg")
		cp.BranchID = target.ID
		s.messages = append(s.messages, &cp)
	}
	target.UpdatedAt = s.now()
	return *target, nil
}

// --- messages ---

func (s *store) messageLocked(id string) *types.Message {
	for _, m := range s.messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *store) messagesLocked(conversationID, branchID string) []types.Message {
	out := []types.Message{}
	for _, m := range s.messages {
		if m.ConversationID == conversationID && (branchID == "" || m.BranchID == branchID) {
			out = append(out, *m)
		}
	}
	return out
}

func (s *store) listMessages(conversationID, branchID string) ([]types.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return nil, notFound("Conversation")
	}
	if branchID != "" {
		if _, err := s.branchLocked(conversationID, branchID); err != nil {
			return nil, err
		}
	}
	return s.messagesLocked(conversationID, branchID), nil
}

// addUserMessage stores the user side of a send and returns it with the resolved branch.
func (s *store) addUserMessage(conversationID, branchID, content string) (types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.branchLocked(conversationID, branchID)
	if err != nil {
		return types.Message{}, err
	}
	msg := &types.Message{
		ID: newID("msg"), ConversationID: conversationID, BranchID: b.ID,
		ParentMessageID: s.lastMessageIDLocked(conversationID, b.ID),
		Role:            types.RoleUser, Content: content, CreatedAt: s.now(),
	}
	s.messages = append(s.messages, msg)
	return *msg, nil
}

// addAssistantMessage stores a reply under a pre-allocated id.
func (s *store) addAssistantMessage(id string, user types.Message, content, model, finishReason string) types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := &types.Message{
		ID: id, ConversationID: user.ConversationID, BranchID: user.BranchID,
		ParentMessageID: user.ID, Role: types.RoleAssistant, Content: content, Model: model,
		CreatedAt: s.now(),
		Metadata:  &types.MessageMetadata{Model: model, FinishReason: finishReason},
	}
	s.messages = append(s.messages, msg)
	if conv, ok := s.conversations[user.ConversationID]; ok {
		conv.UpdatedAt = msg.CreatedAt
	}
	return *msg
}

func (s *store) lastMessageIDLocked(conversationID, branchID string) string {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if m := s.messages[i]; m.ConversationID == conversationID && m.BranchID == branchID {
			return m.ID
		}
	}
	return ""
}

func (s *store) updateMessage(id, content string) (types.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.messageLocked(id)
	if m == nil {
		return types.Message{}, notFound("Message")
	}
	m.Content = content
	return *m, nil
}

func (s *store) deleteMessage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.messageLocked(id) == nil {
		return notFound("Message")
	}
	s.messages = slices.DeleteFunc(s.messages, func(m *types.Message) bool { return m.ID == id })
	return nil
}

// --- checkpoints ---

func (s *store) createCheckpoint(conversationID, branchID, anchorID string) (types.Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if branchID == "" {
		return types.Checkpoint{}, badRequest("branchId is required")
	}
	b, err := s.branchLocked(conversationID, branchID)
	if err != nil {
		return types.Checkpoint{}, err
	}
	if m := s.messageLocked(anchorID); m == nil || m.ConversationID != conversationID {
		return types.Checkpoint{}, notFound("Anchor message")
	}
	cp := &types.Checkpoint{
		ID: newID("cp"), ConversationID: conversationID, BranchID: b.ID,
		AnchorMessageID: anchorID, CreatedAt: s.now(),
	}
	s.summarizeLocked(cp)
	s.checkpoints[cp.ID] = cp
	return *cp, nil
}

// summarizeLocked fills the summary of cp from the branch messages up to its anchor.
func (s *store) summarizeLocked(cp *types.Checkpoint) {
	var words, count int
	for _, m := range s.messagesLocked(cp.ConversationID, cp.BranchID) {
		count++
		words += len(strings.Fields(m.Content))
		if m.ID == cp.AnchorMessageID {
			break
		}
	}
	cp.Summary = summaryText(count)
	cp.TokenCount = words
}

func (s *store) listCheckpoints(conversationID, branchID string) ([]types.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return nil, notFound("Conversation")
	}
	out := []types.Checkpoint{}
	for _, cp := range s.checkpoints {
		if cp.ConversationID == conversationID && (branchID == "" || cp.BranchID == branchID) {
			out = append(out, *cp)
		}
	}
	slices.SortFunc(out, func(a, b types.Checkpoint) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *store) getCheckpoint(id string) (types.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp, ok := s.checkpoints[id]
	if !ok {
		return types.Checkpoint{}, notFound("Checkpoint")
	}
	return *cp, nil
}

func (s *store) recreateCheckpoint(id string) (types.Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp, ok := s.checkpoints[id]
	if !ok {
		return types.Checkpoint{}, notFound("Checkpoint")
	}
	s.summarizeLocked(cp)
	cp.CreatedAt = s.now()
	return *cp, nil
}

func (s *store) deleteCheckpoint(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.checkpoints[id]; !ok {
		return notFound("Checkpoint")
	}
	delete(s.checkpoints, id)
	return nil
}
