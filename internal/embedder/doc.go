// Package embedder generates vector embeddings for note content.
//
// Three providers are supported:
//   - openai: OpenAI embeddings API (requires OPENAI_API_KEY)
//   - ollama: a local Ollama daemon (default; no key required)
//   - local: deterministic hash-derived vectors, offline fallback
//
// Provider selection comes from GONOTES_EMBEDDING_PROVIDER, falling
// back to openai when an API key is present and ollama otherwise.
// Setting the provider to "off" disables embedding; the vector index
// then runs as a no-op and semantic search returns nothing.
//
// All providers share an LRU cache keyed by content hash, so full index
// rebuilds only pay for notes whose content actually changed, and a
// retry wrapper with exponential backoff around the HTTP providers.
package embedder
