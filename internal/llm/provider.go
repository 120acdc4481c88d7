package llm

import (
	"context"
	"net/http"
	"time"
)

// sharedHTTPClient is used by all providers; transcript analysis can take a
// while on long calls, so the timeout is generous.
var sharedHTTPClient = &http.Client{
	Timeout: 60 * time.Second,
}

// defaultMaxTokens is the fallback when Request.MaxTokens is not set.
const defaultMaxTokens = 1024

// Request holds the parameters for one completion call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
}

// Response holds the result of one completion call.
type Response struct {
	Content string
	Model   string // actual model used, echoed back by the provider
}

// Provider is the interface for completion backends. Implementations make
// exactly one attempt per Complete call; retry policy belongs to callers.
type Provider interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// truncate limits a string to maxLen runes, appending "..." if truncated.
// Used to keep provider error messages log-friendly.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
