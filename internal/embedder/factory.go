package embedder

import (
	"fmt"
	"os"
	"strings"
)

// Environment variables consulted by NewFromEnv
const (
	EnvProvider     = "GONOTES_EMBEDDING_PROVIDER"
	EnvModel        = "GONOTES_EMBEDDING_MODEL"
	EnvOllamaURL    = "GONOTES_OLLAMA_URL"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"

	// ProviderOff disables embedding entirely; the vector index then
	// degrades to its no-op implementation.
	ProviderOff = "off"
)

// Config holds explicit embedder configuration.
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	OllamaURL string
	CacheSize int
}

// NewFromEnv creates an embedder based on environment variables.
// Priority:
//  1. GONOTES_EMBEDDING_PROVIDER (openai, ollama, local, off)
//  2. OPENAI_API_KEY present -> openai
//  3. Default to ollama
//
// Returns ErrEmbeddingDisabled when the provider is "off".
func NewFromEnv() (Embedder, error) {
	return New(Config{
		Provider:  os.Getenv(EnvProvider),
		APIKey:    os.Getenv(EnvOpenAIAPIKey),
		Model:     os.Getenv(EnvModel),
		OllamaURL: os.Getenv(EnvOllamaURL),
	})
}

// New creates an embedder with explicit configuration.
func New(cfg Config) (Embedder, error) {
	cache := NewCache(cfg.CacheSize)

	provider := strings.ToLower(cfg.Provider)
	if provider == "" {
		if cfg.APIKey != "" {
			provider = ProviderOpenAI
		} else {
			provider = ProviderOllama
		}
	}

	switch provider {
	case ProviderOff:
		return nil, ErrEmbeddingDisabled
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cache)
	case ProviderOllama:
		return NewOllamaProvider(cfg.OllamaURL, cfg.Model, cache)
	case ProviderLocal:
		return NewLocalProvider(cache)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}
