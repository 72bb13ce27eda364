package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hpn/hpn-relay/internal/domain"
)

func TestAnthropicAdapter_mapToAnthropicRequest(t *testing.T) {
	adapter := NewAnthropicAdapter("test-api-key")

	tests := []struct {
		name      string
		input     domain.ChatParams
		wantRoles []string
		wantSys   string
	}{
		{
			name: "user and assistant kept",
			input: domain.ChatParams{Messages: []domain.ChatMessage{
				{Role: "user", Content: "Hi"},
				{Role: "assistant", Content: "Hello"},
			}},
			wantRoles: []string{"user", "assistant"},
		},
		{
			name:      "non-user role coerced to assistant",
			input:     domain.ChatParams{Messages: []domain.ChatMessage{{Role: "tool", Content: "42"}}},
			wantRoles: []string{"assistant"},
		},
		{
			name:      "case-sensitive user match",
			input:     domain.ChatParams{Messages: []domain.ChatMessage{{Role: "User", Content: "x"}}},
			wantRoles: []string{"assistant"},
		},
		{
			name: "system stays out of messages",
			input: domain.ChatParams{
				System:   "be terse",
				Messages: []domain.ChatMessage{{Role: "user", Content: "hi"}},
			},
			wantRoles: []string{"user"},
			wantSys:   "be terse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := adapter.mapToAnthropicRequest(tt.input)
			if len(req.Messages) != len(tt.wantRoles) {
				t.Fatalf("len(Messages) = %d, want %d", len(req.Messages), len(tt.wantRoles))
			}
			for i, role := range tt.wantRoles {
				if req.Messages[i].Role != role {
					t.Errorf("Messages[%d].Role = %s, want %s", i, req.Messages[i].Role, role)
				}
				blocks := req.Messages[i].Content
				if len(blocks) != 1 || blocks[0].Type != "text" || blocks[0].Text != tt.input.Messages[i].Content {
					t.Errorf("Messages[%d].Content = %+v, want single text block", i, blocks)
				}
			}
			if req.System != tt.wantSys {
				t.Errorf("System = %q, want %q", req.System, tt.wantSys)
			}
		})
	}
}

func TestAnthropicAdapter_ChatCompletion(t *testing.T) {
	var gotPath, gotKey, gotVersion, gotAuth string
	var rawBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		rawBody = string(b)
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","content":[{"type":"text","text":"first"},{"type":"text","text":"second"}]}`))
	}))
	defer srv.Close()

	adapter := NewAnthropicAdapter("sk-ant-test", WithBaseURL(srv.URL))
	resp, err := adapter.ChatCompletion(context.Background(), domain.ChatParams{
		Model:       "claude-3-5-haiku-latest",
		Messages:    []domain.ChatMessage{{Role: "user", Content: "hi"}},
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		t.Fatalf("ChatCompletion() error = %v", err)
	}

	if gotPath != "/messages" {
		t.Errorf("path = %s, want /messages", gotPath)
	}
	if gotKey != "sk-ant-test" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotVersion != AnthropicVersion {
		t.Errorf("anthropic-version = %q, want %s", gotVersion, AnthropicVersion)
	}
	if gotAuth != "" {
		t.Errorf("Authorization header should not be sent, got %q", gotAuth)
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(rawBody), &body); err != nil {
		t.Fatalf("invalid request body: %v", err)
	}
	if _, ok := body["system"]; ok {
		t.Error("system field should be omitted when empty")
	}
	if body["max_tokens"] != float64(1024) {
		t.Errorf("max_tokens = %v, want 1024", body["max_tokens"])
	}

	if resp.Text != "first" {
		t.Errorf("Text = %q, want content[0].text", resp.Text)
	}
	if resp.Provider != domain.ProviderAnthropic || resp.Model != "claude-3-5-haiku-latest" {
		t.Errorf("response = %+v, want echoed provider/model", resp)
	}
}
