package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/hpn/hpn-relay/internal/domain"
)

func TestGeminiAdapter_mapToGeminiRequest(t *testing.T) {
	adapter := NewGeminiAdapter("test-api-key")

	tests := []struct {
		name     string
		input    domain.ChatParams
		validate func(*testing.T, GeminiRequest)
	}{
		{
			name: "system prompt first then labelled messages",
			input: domain.ChatParams{
				Model:    "gemini-1.5-flash",
				System:   "S",
				Messages: []domain.ChatMessage{{Role: "user", Content: "hi"}},
			},
			validate: func(t *testing.T, req GeminiRequest) {
				if len(req.Contents) != 1 {
					t.Fatalf("len(Contents) = %d, want 1", len(req.Contents))
				}
				got := partTexts(req.Contents[0].Parts)
				want := []string{"SYSTEM: S", "USER: hi"}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("parts = %v, want %v", got, want)
				}
			},
		},
		{
			name: "multi-turn stays in one content block",
			input: domain.ChatParams{
				Model: "gemini-1.5-flash",
				Messages: []domain.ChatMessage{
					{Role: "user", Content: "Hi"},
					{Role: "assistant", Content: "Hello!"},
					{Role: "user", Content: "How are you?"},
				},
			},
			validate: func(t *testing.T, req GeminiRequest) {
				if len(req.Contents) != 1 {
					t.Fatalf("len(Contents) = %d, want 1", len(req.Contents))
				}
				if req.Contents[0].Role != "" {
					t.Errorf("Contents[0].Role = %q, want empty", req.Contents[0].Role)
				}
				got := partTexts(req.Contents[0].Parts)
				want := []string{"USER: Hi", "ASSISTANT: Hello!", "USER: How are you?"}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("parts = %v, want %v", got, want)
				}
			},
		},
		{
			name: "unknown role is upper-cased verbatim",
			input: domain.ChatParams{
				Messages: []domain.ChatMessage{{Role: "tool", Content: "42"}, {Content: "no role"}},
			},
			validate: func(t *testing.T, req GeminiRequest) {
				got := partTexts(req.Contents[0].Parts)
				want := []string{"TOOL: 42", "ASSISTANT: no role"}
				if !reflect.DeepEqual(got, want) {
					t.Errorf("parts = %v, want %v", got, want)
				}
			},
		},
		{
			name: "no system and no messages",
			input: domain.ChatParams{Messages: []domain.ChatMessage{}},
			validate: func(t *testing.T, req GeminiRequest) {
				if len(req.Contents[0].Parts) != 0 {
					t.Errorf("len(Parts) = %d, want 0", len(req.Contents[0].Parts))
				}
			},
		},
		{
			name: "generation config mapping",
			input: domain.ChatParams{
				Messages:    []domain.ChatMessage{{Role: "user", Content: "test"}},
				Temperature: 0.8,
				MaxTokens:   100,
			},
			validate: func(t *testing.T, req GeminiRequest) {
				if req.GenerationConfig.Temperature != 0.8 {
					t.Error("Temperature not mapped correctly")
				}
				if req.GenerationConfig.MaxOutputTokens != 100 {
					t.Error("MaxOutputTokens not mapped correctly")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := adapter.mapToGeminiRequest(tt.input)
			tt.validate(t, result)
		})
	}
}

func TestGeminiResponse_text(t *testing.T) {
	tests := []struct {
		name string
		resp GeminiResponse
		want string
	}{
		{
			name: "parts joined without separator",
			resp: GeminiResponse{Candidates: []GeminiCandidate{{
				Content: GeminiContent{Parts: []GeminiPart{{Text: "Hello "}, {Text: "from "}, {Text: "Gemini"}}},
			}}},
			want: "Hello from Gemini",
		},
		{name: "no candidates", resp: GeminiResponse{}, want: ""},
		{name: "no parts", resp: GeminiResponse{Candidates: []GeminiCandidate{{}}}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.resp.text(); got != tt.want {
				t.Errorf("text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeminiAdapter_ChatCompletion(t *testing.T) {
	var gotPath, gotKey string
	var gotBody GeminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"4"}],"role":"model"},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	adapter := NewGeminiAdapter("AIza-test", WithBaseURL(srv.URL))
	resp, err := adapter.ChatCompletion(context.Background(), domain.ChatParams{
		Model:       "gemini-1.5-flash",
		Messages:    []domain.ChatMessage{{Role: "user", Content: "2+2?"}},
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		t.Fatalf("ChatCompletion() error = %v", err)
	}

	if gotPath != "/models/gemini-1.5-flash:generateContent" {
		t.Errorf("path = %s, want /models/gemini-1.5-flash:generateContent", gotPath)
	}
	if gotKey != "AIza-test" {
		t.Errorf("key query param = %s, want AIza-test", gotKey)
	}
	if gotBody.GenerationConfig.MaxOutputTokens != 1024 {
		t.Errorf("maxOutputTokens = %d, want 1024", gotBody.GenerationConfig.MaxOutputTokens)
	}
	want := domain.ChatResponse{Provider: domain.ProviderGemini, Model: "gemini-1.5-flash", Text: "4"}
	if resp != want {
		t.Errorf("response = %+v, want %+v", resp, want)
	}
}

func TestGeminiAdapter_ErrorMessagePassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	adapter := NewGeminiAdapter("bad-key", WithBaseURL(srv.URL))
	_, err := adapter.ChatCompletion(context.Background(), domain.ChatParams{Model: "gemini-pro"})

	var vendorErr *domain.VendorError
	if !errors.As(err, &vendorErr) {
		t.Fatalf("error = %v, want *domain.VendorError", err)
	}
	if vendorErr.Error() != "API key not valid. Please pass a valid API key." {
		t.Errorf("message = %q", vendorErr.Error())
	}
	if vendorErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", vendorErr.StatusCode)
	}
}

func TestGeminiAdapter_Name(t *testing.T) {
	adapter := NewGeminiAdapter("test-api-key")

	if adapter.Name() != domain.ProviderGemini {
		t.Errorf("Name() = %s, want gemini", adapter.Name())
	}
}

func TestNewGeminiAdapter_Options(t *testing.T) {
	customURL := "https://custom.api.google.com/"
	adapter := NewGeminiAdapter(
		"test-api-key",
		WithBaseURL(customURL),
	)

	if adapter.baseURL != "https://custom.api.google.com" {
		t.Errorf("baseURL = %s, want trailing slash trimmed", adapter.baseURL)
	}

	adapter = NewGeminiAdapter("test-api-key", WithBaseURL(""))
	if adapter.baseURL != DefaultGeminiBaseURL {
		t.Errorf("baseURL = %s, want default for empty override", adapter.baseURL)
	}
}

func partTexts(parts []GeminiPart) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.Text
	}
	return out
}
