package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/chatroutes/chatroutes-go/logger"
	"github.com/chatroutes/chatroutes-go/mockserver"
)

// isolate clears CHATROUTES_* variables and points HOME at an empty dir so
// that no local configuration leaks into a test.
func isolate(t *testing.T) {
	t.Helper()
	for _, env := range os.Environ() {
		key, _, _ := strings.Cut(env, "=")
		if strings.HasPrefix(key, "CHATROUTES_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	t.Setenv("HOME", t.TempDir())
}

func newMock(t *testing.T) string {
	t.Helper()
	srv, err := mockserver.New(mockserver.Config{APIKey: "test-key"}, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + mockserver.BasePath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func runAPI(t *testing.T, baseURL string, args ...string) string {
	t.Helper()
	out, err := run(t, append([]string{"--api-key", "test-key", "--base-url", baseURL}, args...)...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "chatroutes ") {
		t.Errorf("expected version line, got %q", out)
	}

	out, err = run(t, "version", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"go_version"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
}

func TestMissingAPIKey(t *testing.T) {
	isolate(t)

	_, err := run(t, "conversations", "list")
	if err == nil {
		t.Fatal("expected error without API key")
	}
	if !strings.Contains(err.Error(), "config.client") {
		t.Errorf("expected client config error, got %v", err)
	}
}

func TestConfigShowRedactsKey(t *testing.T) {
	isolate(t)

	out, err := run(t, "--api-key", "sk-live-0123456789", "config", "show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "sk-live-0123456789") {
		t.Errorf("expected API key redacted, got:\n%s", out)
	}
	if !strings.Contains(out, "sk-l****89") {
		t.Errorf("expected masked API key, got:\n%s", out)
	}
}

func TestConversationCommands(t *testing.T) {
	isolate(t)
	base := newMock(t)

	id := strings.TrimSpace(runAPI(t, base, "conversations", "create", "Trip", "planning"))
	if id == "" {
		t.Fatal("expected conversation id")
	}

	out := runAPI(t, base, "conversations", "list")
	if !strings.Contains(out, id) || !strings.Contains(out, "Trip planning") {
		t.Errorf("expected conversation in list, got:\n%s", out)
	}
	if !strings.Contains(out, "1 conversation(s)") {
		t.Errorf("expected total, got:\n%s", out)
	}

	runAPI(t, base, "conversations", "rename", id, "Holiday")
	out = runAPI(t, base, "conversations", "get", id)
	if !strings.Contains(out, `"title": "Holiday"`) {
		t.Errorf("expected renamed conversation, got:\n%s", out)
	}

	out = runAPI(t, base, "branches", "list", id)
	if !strings.Contains(out, "Main") || !strings.Contains(out, "*") {
		t.Errorf("expected main branch, got:\n%s", out)
	}

	out = runAPI(t, base, "conversations", "delete", id)
	if !strings.Contains(out, "deleted "+id) {
		t.Errorf("expected delete confirmation, got:\n%s", out)
	}
	if _, err := run(t, "--api-key", "test-key", "--base-url", base, "conversations", "get", id); err == nil {
		t.Error("expected error for deleted conversation")
	}
}

func TestSendCommand(t *testing.T) {
	isolate(t)
	base := newMock(t)

	out := runAPI(t, base, "send", "hello", "there")
	if !strings.Contains(out, "You said: hello there") {
		t.Errorf("expected reply, got:\n%s", out)
	}
	if !strings.Contains(out, "[conversation ") {
		t.Errorf("expected footer, got:\n%s", out)
	}
}

func TestChatCommandStreams(t *testing.T) {
	isolate(t)
	base := newMock(t)

	out := runAPI(t, base, "chat", "-m", "gpt-5-mini", "stream", "this", "please")
	if !strings.Contains(out, "You said: stream this please") {
		t.Errorf("expected streamed reply, got:\n%s", out)
	}
	if !strings.Contains(out, "gpt-5-mini]") {
		t.Errorf("expected model in footer, got:\n%s", out)
	}

	id := strings.TrimSpace(runAPI(t, base, "conversations", "create", "Existing"))
	runAPI(t, base, "chat", "-c", id, "follow up")
	out = runAPI(t, base, "conversations", "messages", id)
	if !strings.Contains(out, "follow up") || !strings.Contains(out, "assistant") {
		t.Errorf("expected messages stored in existing conversation, got:\n%s", out)
	}
}

func TestChatCommandParallel(t *testing.T) {
	isolate(t)
	base := newMock(t)

	out := runAPI(t, base, "chat", "--parallel", "first prompt", "second prompt", "third prompt")

	first := strings.Index(out, "== 1: first prompt")
	second := strings.Index(out, "== 2: second prompt")
	third := strings.Index(out, "== 3: third prompt")
	if first < 0 || second < first || third < second {
		t.Fatalf("expected outputs in prompt order, got:\n%s", out)
	}
	if !strings.Contains(out[second:third], "You said: second prompt") {
		t.Errorf("expected second reply under its header, got:\n%s", out)
	}

	list := runAPI(t, base, "conversations", "list")
	if !strings.Contains(list, "3 conversation(s)") {
		t.Errorf("expected one conversation per prompt, got:\n%s", list)
	}

	if _, err := run(t, "--api-key", "test-key", "--base-url", base, "chat", "--parallel", "-c", "conv", "x"); err == nil {
		t.Error("expected error combining --parallel and --conversation")
	}
}

func TestBranchAndCheckpointCommands(t *testing.T) {
	isolate(t)
	base := newMock(t)

	id := strings.TrimSpace(runAPI(t, base, "conversations", "create", "Branching"))
	runAPI(t, base, "send", "-c", id, "one two three")

	out := runAPI(t, base, "conversations", "messages", id, "--json")
	msgID := jsonField(out, "id")
	if msgID == "" {
		t.Fatalf("expected a message id, got:\n%s", out)
	}

	branchID := strings.TrimSpace(runAPI(t, base, "branches", "fork", id, msgID, "--title", "Alt"))
	if branchID == "" {
		t.Fatal("expected branch id")
	}
	out = runAPI(t, base, "branches", "merge", id, branchID)
	if !strings.Contains(out, "merged "+branchID+" into ") {
		t.Errorf("expected merge confirmation, got:\n%s", out)
	}

	mainID := ""
	for _, line := range strings.Split(runAPI(t, base, "branches", "list", id), "\n") {
		if strings.Contains(line, "Main") {
			mainID = strings.Fields(line)[0]
		}
	}
	out = runAPI(t, base, "checkpoints", "create", id, mainID, msgID)
	cpID := strings.Fields(out)[0]
	if !strings.Contains(out, "tokens)") {
		t.Errorf("expected checkpoint summary, got:\n%s", out)
	}

	out = runAPI(t, base, "checkpoints", "list", id)
	if !strings.Contains(out, cpID) {
		t.Errorf("expected checkpoint in list, got:\n%s", out)
	}
	runAPI(t, base, "checkpoints", "recreate", cpID)
	runAPI(t, base, "checkpoints", "delete", cpID)
	out = runAPI(t, base, "checkpoints", "list", id)
	if strings.Contains(out, cpID) {
		t.Errorf("expected checkpoint deleted, got:\n%s", out)
	}
}

// jsonField returns the first string value of key in indented JSON output.
func jsonField(out, key string) string {
	marker := `"` + key + `": "`
	i := strings.Index(out, marker)
	if i < 0 {
		return ""
	}
	rest := out[i+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return ""
	}
	return rest[:end]
}

func TestTitleFor(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"short", "hello", "hello"},
		{"whitespace collapsed", "  hello \n world ", "hello world"},
		{"long", strings.Repeat("a", 70), strings.Repeat("a", 57) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := titleFor(tt.prompt); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
