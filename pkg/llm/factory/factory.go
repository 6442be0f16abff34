package factory

import (
	"fmt"
	"log"

	"edu-rag-be/pkg/llm"
	"edu-rag-be/pkg/llm/chain"
	"edu-rag-be/pkg/llm/gemini"
	"edu-rag-be/pkg/llm/grok"
)

// Config holds the provider credentials and model overrides.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	GrokAPIKey   string
	GrokBaseURL  string
	GrokModel    string
}

// NewProviderChain assembles the failover chain: Gemini first, Grok second.
// Providers without a configured key are skipped; at least one is required.
func NewProviderChain(logger *log.Logger, cfg Config) (llm.LLMProvider, error) {
	var providers []llm.LLMProvider

	if cfg.GeminiAPIKey != "" {
		providers = append(providers, gemini.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel))
	}
	if cfg.GrokAPIKey != "" {
		providers = append(providers, grok.NewGrokProvider(cfg.GrokAPIKey, cfg.GrokBaseURL, cfg.GrokModel))
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no generation provider configured")
	}

	return chain.New(logger, providers...), nil
}
