package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewOpenAIClientValidation(t *testing.T) {
	if _, err := NewOpenAIClient("", "gpt-4o-mini", ""); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	if _, err := NewOpenAIClient("sk-test", "", ""); err == nil {
		t.Fatalf("expected error for missing model")
	}
	if _, err := NewOpenAIClient("sk-test", "gpt-4o-mini", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOpenAICompleteSuccess(t *testing.T) {
	var gotAuth string
	var gotBody openaiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "gpt-4o-mini",
			"choices": [{"message": {"role": "assistant", "content": "{\"intent\":\"hot\"}"}}]
		}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient("sk-test", "gpt-4o-mini", srv.URL)
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	resp, err := c.Complete(context.Background(), &Request{
		SystemPrompt: "You are an analyst.",
		UserPrompt:   "Analyze this.",
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != `{"intent":"hot"}` {
		t.Fatalf("content = %q", resp.Content)
	}
	if resp.Model != "openai:gpt-4o-mini" {
		t.Fatalf("model = %q", resp.Model)
	}

	if gotAuth != "Bearer sk-test" {
		t.Fatalf("auth header = %q", gotAuth)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", gotBody.Messages)
	}
	if gotBody.MaxTokens != defaultMaxTokens {
		t.Fatalf("max_tokens = %d, want default %d", gotBody.MaxTokens, defaultMaxTokens)
	}
}

func TestOpenAICompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "rate_limit_error"}}`))
	}))
	defer srv.Close()

	c, _ := NewOpenAIClient("sk-test", "gpt-4o-mini", srv.URL)
	_, err := c.Complete(context.Background(), &Request{UserPrompt: "hi"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "rate_limit_error") {
		t.Fatalf("error should carry the provider error type, got %v", err)
	}
}

func TestOpenAICompleteMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	c, _ := NewOpenAIClient("sk-test", "gpt-4o-mini", srv.URL)
	if _, err := c.Complete(context.Background(), &Request{UserPrompt: "hi"}); err == nil {
		t.Fatalf("expected error for non-JSON body")
	}
}

func TestOpenAICompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model": "gpt-4o-mini", "choices": []}`))
	}))
	defer srv.Close()

	c, _ := NewOpenAIClient("sk-test", "gpt-4o-mini", srv.URL)
	if _, err := c.Complete(context.Background(), &Request{UserPrompt: "hi"}); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}
