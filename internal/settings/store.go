package settings

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"leadpulse/internal/llm"
)

// Store is the runtime configuration source for the language-model provider.
// The API key is settable while the process runs (admin endpoint), so reads
// go to the store on every qualification rather than once at startup.
type Store interface {
	// LLMAPIKey returns the current key; empty means not configured.
	LLMAPIKey(ctx context.Context) (string, error)
	// SetLLMAPIKey replaces the key. Empty clears it.
	SetLLMAPIKey(ctx context.Context, key string) error
}

// ProviderSource adapts a Store into the provider lookup the qualification
// analyzer consumes. It builds a fresh client per request so key rotation
// takes effect immediately.
type ProviderSource struct {
	store   Store
	model   string
	baseURL string
	log     *slog.Logger
}

func NewProviderSource(store Store, model, baseURL string, log *slog.Logger) *ProviderSource {
	if log == nil {
		log = slog.Default()
	}
	return &ProviderSource{store: store, model: model, baseURL: baseURL, log: log.With("component", "settings")}
}

// Provider returns a configured completion client, or ok=false when no key
// is present. Store read errors are treated as "not configured": the
// qualification pipeline degrades to its fallback tier instead of failing.
func (p *ProviderSource) Provider(ctx context.Context) (llm.Provider, bool) {
	if p.store == nil {
		return nil, false
	}
	key, err := p.store.LLMAPIKey(ctx)
	if err != nil {
		p.log.Warn("llm key lookup failed", "err", err)
		return nil, false
	}
	if strings.TrimSpace(key) == "" {
		return nil, false
	}
	client, err := llm.NewOpenAIClient(key, p.model, p.baseURL)
	if err != nil {
		p.log.Warn("llm client construction failed", "err", err)
		return nil, false
	}
	return client, true
}

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu  sync.RWMutex
	key string
}

func NewMemoryStore(seedKey string) *MemoryStore {
	return &MemoryStore{key: seedKey}
}

func (s *MemoryStore) LLMAPIKey(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key, nil
}

func (s *MemoryStore) SetLLMAPIKey(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
	return nil
}
