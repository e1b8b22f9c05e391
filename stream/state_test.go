package stream

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/chatroutes/chatroutes-go/types"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestState_Apply(t *testing.T) {
	s := NewState(t0)

	steps := []struct {
		frag         Fragment
		wantFinished bool
	}{
		{Fragment{Content: "Hel", Model: "m1"}, false},
		{Fragment{Content: "lo", Model: "m2", UserMessageID: "u1"}, false},
		{Fragment{FinishReason: "stop", UserMessageID: "u2", AssistantMessageID: "a1"}, true},
		{Fragment{Content: "!", FinishReason: "length", AssistantMessageID: "a2"}, false},
	}
	for i, step := range steps {
		if got := s.Apply(step.frag); got != step.wantFinished {
			t.Errorf("step %d: finishedNow = %v, want %v", i, got, step.wantFinished)
		}
	}

	if s.Content() != "Hello!" {
		t.Errorf("content = %q", s.Content())
	}
	if s.Model() != "m2" {
		t.Errorf("model = %q, want last non-empty m2", s.Model())
	}
	if s.FinishReason() != "stop" {
		t.Errorf("finish reason = %q, want first value stop", s.FinishReason())
	}
	if s.UserMessageID() != "u1" || s.AssistantMessageID() != "a1" {
		t.Errorf("ids = %q/%q, want first seen u1/a1", s.UserMessageID(), s.AssistantMessageID())
	}
	if s.Chunks() != 4 || !s.Finished() {
		t.Errorf("chunks = %d finished = %v", s.Chunks(), s.Finished())
	}
}

func TestState_FinalizeSynthesizesIdentifiers(t *testing.T) {
	s := NewState(t0)
	s.Apply(Fragment{Content: "Hello", Model: "gpt-5", FinishReason: "stop"})

	now := t0.Add(2 * time.Second)
	req := types.SendMessageRequest{Content: "Hi", BranchID: "b1"}
	resp, err := s.Finalize("c1", req, now, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stamp := "1772366400000"
	if resp.UserMessage.ID != "msg_"+stamp+"_user" {
		t.Errorf("user id = %q", resp.UserMessage.ID)
	}
	if resp.AssistantMessage.ID != "msg_"+stamp+"_assistant" {
		t.Errorf("assistant id = %q", resp.AssistantMessage.ID)
	}

	u := resp.UserMessage
	if u.Role != types.RoleUser || u.Content != "Hi" || u.ConversationID != "c1" || u.BranchID != "b1" || !u.CreatedAt.Equal(t0) {
		t.Errorf("unexpected user message %+v", u)
	}
	a := resp.AssistantMessage
	if a.Role != types.RoleAssistant || a.Content != "Hello" || !a.CreatedAt.Equal(now) || a.ParentMessageID != u.ID {
		t.Errorf("unexpected assistant message %+v", a)
	}
	if a.Metadata == nil || a.Metadata.Model != "gpt-5" || a.Metadata.FinishReason != "stop" {
		t.Errorf("unexpected metadata %+v", a.Metadata)
	}
}

func TestState_FinalizeUsesServerIdentifiers(t *testing.T) {
	s := NewState(t0)
	s.Apply(Fragment{UserMessageID: "u1", AssistantMessageID: "a1", FinishReason: "stop"})

	for _, strict := range []bool{false, true} {
		resp, err := s.Finalize("c1", types.SendMessageRequest{Content: "Hi"}, t0, strict)
		if err != nil {
			t.Fatalf("strict=%v: unexpected error: %v", strict, err)
		}
		if resp.UserMessage.ID != "u1" || resp.AssistantMessage.ID != "a1" {
			t.Errorf("strict=%v: ids = %q/%q", strict, resp.UserMessage.ID, resp.AssistantMessage.ID)
		}
	}
}

func TestState_FinalizeStrictRefusesToSynthesize(t *testing.T) {
	s := NewState(t0)
	s.Apply(Fragment{UserMessageID: "u1", FinishReason: "stop"})

	_, err := s.Finalize("c1", types.SendMessageRequest{Content: "Hi"}, t0, true)
	if !stderrors.Is(err, ErrMissingIdentifiers) {
		t.Fatalf("expected ErrMissingIdentifiers, got %v", err)
	}
}

func TestState_FinalizeFallsBackToRequestedModel(t *testing.T) {
	s := NewState(t0)
	s.Apply(Fragment{Content: "x", FinishReason: "stop"})

	resp, err := s.Finalize("c1", types.SendMessageRequest{Content: "Hi", Model: "claude"}, t0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AssistantMessage.Metadata.Model != "claude" {
		t.Errorf("model = %q, want requested model", resp.AssistantMessage.Metadata.Model)
	}
}
