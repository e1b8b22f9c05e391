package stream

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/chatroutes/chatroutes-go/types"
)

// ErrMissingIdentifiers is returned in strict mode when a stream finished
// without the server supplying both message identifiers.
var ErrMissingIdentifiers = stderrors.New("stream: server did not supply message identifiers")

// State is the accumulator of one stream. It is owned by a single Stream
// call and is not safe for concurrent use.
type State struct {
	startedAt          time.Time
	content            strings.Builder
	model              string
	finishReason       string
	userMessageID      string
	assistantMessageID string
	chunks             int
}

// NewState creates an empty state for a stream started at startedAt.
func NewState(startedAt time.Time) *State {
	return &State{startedAt: startedAt}
}

// Apply folds one fragment into the state and reports whether this fragment
// set the finish reason. Content is appended, the model is overwritten by any
// non-empty value, and the finish reason and identifiers keep their first
// non-empty value.
func (s *State) Apply(f Fragment) (finishedNow bool) {
	s.chunks++
	s.content.WriteString(f.Content)
	if f.Model != "" {
		s.model = f.Model
	}
	if s.userMessageID == "" {
		s.userMessageID = f.UserMessageID
	}
	if s.assistantMessageID == "" {
		s.assistantMessageID = f.AssistantMessageID
	}
	if s.finishReason == "" && f.FinishReason != "" {
		s.finishReason = f.FinishReason
		return true
	}
	return false
}

func (s *State) StartedAt() time.Time       { return s.startedAt }
func (s *State) Content() string            { return s.content.String() }
func (s *State) Model() string              { return s.model }
func (s *State) FinishReason() string       { return s.finishReason }
func (s *State) Finished() bool             { return s.finishReason != "" }
func (s *State) Chunks() int                { return s.chunks }
func (s *State) UserMessageID() string      { return s.userMessageID }
func (s *State) AssistantMessageID() string { return s.assistantMessageID }

// Finalize builds the response for the aggregated stream.
//
// The user message is stamped with the start time and the assistant message
// with now. When the server sent no identifiers, placeholders of the form
// msg_<start unix ms>_user and msg_<start unix ms>_assistant are used; they
// are correlation handles only and are not guaranteed unique. With strict
// set, missing identifiers yield ErrMissingIdentifiers instead.
func (s *State) Finalize(conversationID string, req types.SendMessageRequest, now time.Time, strict bool) (*types.SendMessageResponse, error) {
	userID, assistantID := s.userMessageID, s.assistantMessageID
	if userID == "" || assistantID == "" {
		if strict {
			return nil, ErrMissingIdentifiers
		}
		stamp := s.startedAt.UnixMilli()
		if userID == "" {
			userID = fmt.Sprintf("msg_%d_%s", stamp, types.RoleUser)
		}
		if assistantID == "" {
			assistantID = fmt.Sprintf("msg_%d_%s", stamp, types.RoleAssistant)
		}
	}

	model := s.model
	if model == "" {
		model = req.Model
	}

	return &types.SendMessageResponse{
		UserMessage: types.Message{
			ID:             userID,
			ConversationID: conversationID,
			BranchID:       req.BranchID,
			Role:           types.RoleUser,
			Content:        req.Content,
			CreatedAt:      s.startedAt,
		},
		AssistantMessage: types.Message{
			ID:              assistantID,
			ConversationID:  conversationID,
			BranchID:        req.BranchID,
			ParentMessageID: userID,
			Role:            types.RoleAssistant,
			Content:         s.content.String(),
			Model:           model,
			CreatedAt:       now,
			Metadata: &types.MessageMetadata{
				Model:        model,
				FinishReason: s.finishReason,
			},
		},
		Model: model,
	}, nil
}
