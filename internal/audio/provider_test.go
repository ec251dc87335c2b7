package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultProviderConfig(t *testing.T) {
	config := DefaultProviderConfig()

	if config.Provider != "openai" {
		t.Errorf("Provider = %q, want openai", config.Provider)
	}
	if config.OutputFormat != "mp3" {
		t.Errorf("OutputFormat = %q, want mp3", config.OutputFormat)
	}
	if config.OpenAIModel != "gpt-4o-mini-tts" {
		t.Errorf("OpenAIModel = %q, want gpt-4o-mini-tts", config.OpenAIModel)
	}
	if config.OpenAISpeed != 1.0 {
		t.Errorf("OpenAISpeed = %v, want 1.0", config.OpenAISpeed)
	}
	if config.OpenAIInstruction == "" {
		t.Error("Expected a default German voice instruction")
	}
}

func TestNewProviderOpenAIRequiresKey(t *testing.T) {
	config := DefaultProviderConfig()
	config.OpenAIKey = ""

	if _, err := NewProvider(config); err == nil {
		t.Error("Expected error without OpenAI API key")
	}
}

func TestNewProviderOpenAI(t *testing.T) {
	config := DefaultProviderConfig()
	config.OpenAIKey = "test-key"

	provider, err := NewProvider(config)
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if provider.Name() != "openai" {
		t.Errorf("Name() = %q, want openai", provider.Name())
	}
	if err := provider.IsAvailable(); err != nil {
		t.Errorf("IsAvailable() = %v, want nil", err)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	config := DefaultProviderConfig()
	config.Provider = "does-not-exist"

	if _, err := NewProvider(config); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

// stubProvider is a controllable Provider for fallback tests.
type stubProvider struct {
	name  string
	err   error
	calls int
}

func (s *stubProvider) GenerateAudio(ctx context.Context, text, outputFile string) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	return os.WriteFile(outputFile, []byte("stub audio"), 0644)
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) IsAvailable() error { return s.err }

func TestProviderWithFallback(t *testing.T) {
	tempFile := t.TempDir() + "/out.mp3"

	primary := &stubProvider{name: "primary", err: fmt.Errorf("%w: quota", ErrSynthesis)}
	fallback := &stubProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	if err := provider.GenerateAudio(context.Background(), "Das Haus ist groß.", tempFile); err != nil {
		t.Fatalf("GenerateAudio() error = %v", err)
	}

	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls: primary=%d fallback=%d, want 1 and 1", primary.calls, fallback.calls)
	}

	if _, err := os.Stat(tempFile); err != nil {
		t.Errorf("Expected fallback to write the output file: %v", err)
	}
}

func TestProviderWithFallbackPrimarySucceeds(t *testing.T) {
	tempFile := t.TempDir() + "/out.mp3"

	primary := &stubProvider{name: "primary"}
	fallback := &stubProvider{name: "fallback"}

	provider := NewProviderWithFallback(primary, fallback)

	if err := provider.GenerateAudio(context.Background(), "Das Haus ist groß.", tempFile); err != nil {
		t.Fatalf("GenerateAudio() error = %v", err)
	}

	if fallback.calls != 0 {
		t.Errorf("Fallback should not be called when primary succeeds, got %d calls", fallback.calls)
	}
}

func TestProviderWithFallbackBothFail(t *testing.T) {
	primary := &stubProvider{name: "primary", err: errors.New("primary down")}
	fallback := &stubProvider{name: "fallback", err: errors.New("fallback down")}

	provider := NewProviderWithFallback(primary, fallback)

	if err := provider.IsAvailable(); err == nil {
		t.Error("Expected error when both providers are unavailable")
	}
}

func TestOpenAIProviderRejectsEmptyText(t *testing.T) {
	config := DefaultProviderConfig()
	config.OpenAIKey = "test-key"

	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	err = provider.GenerateAudio(context.Background(), "", t.TempDir()+"/out.mp3")
	if err == nil {
		t.Fatal("Expected error for empty text")
	}
	if !errors.Is(err, ErrSynthesis) {
		t.Errorf("Expected ErrSynthesis, got %v", err)
	}
}

func TestOpenAIProviderCacheKey(t *testing.T) {
	config := DefaultProviderConfig()
	config.OpenAIKey = "test-key"
	config.CacheDir = t.TempDir()
	config.EnableCache = true

	p, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}
	provider := p.(*OpenAIProvider)

	path1 := provider.getCacheFilePath("Das Haus ist groß.")
	path2 := provider.getCacheFilePath("Das Haus ist groß.")
	if path1 != path2 {
		t.Error("Cache path must be deterministic for the same text and settings")
	}

	path3 := provider.getCacheFilePath("Die Katze schläft.")
	if path1 == path3 {
		t.Error("Different texts must map to different cache paths")
	}

	provider.config.OpenAIVoice = "nova"
	path4 := provider.getCacheFilePath("Das Haus ist groß.")
	if path1 == path4 {
		t.Error("Changed voice settings must change the cache path")
	}
}

func TestClearCache(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "tts-cache")
	if err := os.MkdirAll(filepath.Join(cacheDir, "ab"), 0755); err != nil {
		t.Fatalf("Failed to create cache dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cacheDir, "ab", "cdef.mp3"), []byte("mp3"), 0644); err != nil {
		t.Fatalf("Failed to write cache file: %v", err)
	}

	if err := ClearCache(cacheDir); err != nil {
		t.Fatalf("ClearCache() error = %v", err)
	}

	if _, err := os.Stat(cacheDir); !os.IsNotExist(err) {
		t.Error("Expected cache directory to be removed")
	}
}

func TestClearCacheMissingDir(t *testing.T) {
	if err := ClearCache(""); err != nil {
		t.Errorf("ClearCache(\"\") error = %v, want nil", err)
	}
	if err := ClearCache(filepath.Join(t.TempDir(), "never-created")); err != nil {
		t.Errorf("ClearCache(missing) error = %v, want nil", err)
	}
}
