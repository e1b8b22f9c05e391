package chatroutes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/chatroutes/chatroutes-go/errors"
	"github.com/chatroutes/chatroutes-go/logger"
)

func newRawClient(t *testing.T, cfg Config, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	cfg.APIKey = "k"
	cfg.BaseURL = ts.URL
	client, err := New(cfg, WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func jsonBody(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestEnvelopeErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(error) bool
		message string
	}{
		{"success false", http.StatusOK, `{"success":false,"message":"quota exhausted"}`, isAPI, "quota exhausted"},
		{"success false without message", http.StatusOK, `{"success":false}`, isAPI, "Failed to get conversation"},
		{"missing data", http.StatusOK, `{"success":true}`, isAPI, "Failed to get conversation"},
		{"null data", http.StatusOK, `{"success":true,"data":null,"message":"gone"}`, isAPI, "gone"},
		{"error key", http.StatusNotFound, `{"success":false,"error":"no such conversation"}`, errors.IsNotFound, "no such conversation"},
		{"server", http.StatusBadGateway, `upstream down`, errors.IsServer, "upstream down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newRawClient(t, Config{}, jsonBody(tt.status, tt.body))
			_, err := client.Conversations.Get(context.Background(), "c1")
			if !tt.check(err) {
				t.Fatalf("unexpected error kind: %v", err)
			}
			if e, _ := errors.As(err); e.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, e.Message)
			}
		})
	}
}

func isAPI(err error) bool {
	e, ok := errors.As(err)
	return ok && e.Code == errors.ErrCodeAPI
}

func TestEnvelopeDataShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bare array", `{"success":true,"data":[{"id":"m1","role":"user","content":"hi"}]}`},
		{"keyed object", `{"success":true,"data":{"messages":[{"id":"m1","role":"user","content":"hi"}],"total":1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newRawClient(t, Config{}, jsonBody(http.StatusOK, tt.body))
			msgs, err := client.Messages.List(context.Background(), "c1", "")
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(msgs) != 1 || msgs[0].ID != "m1" {
				t.Errorf("unexpected messages %+v", msgs)
			}
		})
	}
}

func TestDeleteChecksSuccessOnly(t *testing.T) {
	client := newRawClient(t, Config{}, jsonBody(http.StatusOK, `{"success":true}`))
	if err := client.Conversations.Delete(context.Background(), "c1"); err != nil {
		t.Fatalf("expected delete without data to succeed, got %v", err)
	}

	client = newRawClient(t, Config{}, jsonBody(http.StatusOK, `{"success":false,"message":"locked"}`))
	err := client.Conversations.Delete(context.Background(), "c1")
	if e, ok := errors.As(err); !ok || e.Message != "locked" {
		t.Fatalf("expected envelope failure, got %v", err)
	}
}

func TestRequestShape(t *testing.T) {
	var got *http.Request
	client := newRawClient(t, Config{Headers: map[string]string{"X-Team": "core"}}, func(w http.ResponseWriter, r *http.Request) {
		got = r
		jsonBody(http.StatusOK, `{"success":true,"data":[]}`)(w, r)
	})

	if _, err := client.Checkpoints.List(context.Background(), "conv 1", "br/2"); err != nil {
		t.Fatalf("List: %v", err)
	}
	if got.URL.EscapedPath() != "/conversations/conv%201/checkpoints" {
		t.Errorf("unexpected path %q", got.URL.EscapedPath())
	}
	if got.URL.Query().Get("branchId") != "br/2" {
		t.Errorf("expected branchId query, got %q", got.URL.RawQuery)
	}
	if got.Header.Get("Authorization") != "ApiKey k" {
		t.Errorf("expected ApiKey auth, got %q", got.Header.Get("Authorization"))
	}
	if got.Header.Get("X-Team") != "core" {
		t.Errorf("expected default header, got %q", got.Header.Get("X-Team"))
	}
}

func TestMaxRetries(t *testing.T) {
	var calls atomic.Int32
	client := newRawClient(t, Config{MaxRetries: 1}, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			jsonBody(http.StatusServiceUnavailable, `{"success":false,"message":"busy"}`)(w, r)
			return
		}
		jsonBody(http.StatusOK, `{"success":true,"data":{"id":"c1","title":"t"}}`)(w, r)
	})

	conv, err := client.Conversations.Get(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if conv.ID != "c1" || calls.Load() != 2 {
		t.Errorf("expected one retry, got %d calls", calls.Load())
	}
}

func TestNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	client := newRawClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		jsonBody(http.StatusServiceUnavailable, `{"success":false,"message":"busy"}`)(w, r)
	})

	_, err := client.Conversations.Get(context.Background(), "c1")
	if !errors.IsServer(err) || calls.Load() != 1 {
		t.Errorf("expected a single failed call, got %d calls, err %v", calls.Load(), err)
	}
}
