package settings

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProviderSourceUnconfigured(t *testing.T) {
	src := NewProviderSource(NewMemoryStore(""), "gpt-4o-mini", "", discardLogger())
	if _, ok := src.Provider(context.Background()); ok {
		t.Fatalf("expected no provider without a key")
	}
}

func TestProviderSourcePicksUpRuntimeKey(t *testing.T) {
	store := NewMemoryStore("")
	src := NewProviderSource(store, "gpt-4o-mini", "", discardLogger())

	if _, ok := src.Provider(context.Background()); ok {
		t.Fatalf("expected no provider before key is set")
	}

	if err := store.SetLLMAPIKey(context.Background(), "sk-test"); err != nil {
		t.Fatalf("set key: %v", err)
	}
	if _, ok := src.Provider(context.Background()); !ok {
		t.Fatalf("expected provider after key is set")
	}

	// Clearing the key disables the provider again.
	if err := store.SetLLMAPIKey(context.Background(), ""); err != nil {
		t.Fatalf("clear key: %v", err)
	}
	if _, ok := src.Provider(context.Background()); ok {
		t.Fatalf("expected no provider after key cleared")
	}
}

func TestProviderSourceSeedKey(t *testing.T) {
	src := NewProviderSource(NewMemoryStore("sk-seeded"), "gpt-4o-mini", "", discardLogger())
	if _, ok := src.Provider(context.Background()); !ok {
		t.Fatalf("expected provider from seeded key")
	}
}

func TestProviderSourceWhitespaceKey(t *testing.T) {
	src := NewProviderSource(NewMemoryStore("   "), "gpt-4o-mini", "", discardLogger())
	if _, ok := src.Provider(context.Background()); ok {
		t.Fatalf("whitespace key must count as unconfigured")
	}
}
