package factory

import (
	"ai-blog-summarizer-be/pkg/llm"
	"ai-blog-summarizer-be/pkg/llm/groq"
	"ai-blog-summarizer-be/pkg/llm/ollama"
	"fmt"
)

type Config struct {
	Provider      string // "groq" or "ollama"
	Model         string
	OllamaBaseURL string
	GroqAPIKey    string
	GroqBaseURL   string
}

func NewLLMProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewOllamaProvider(cfg.OllamaBaseURL, cfg.Model), nil
	case "groq", "":
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("groq provider requires GROQ_API_KEY")
		}
		return groq.NewGroqProvider(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
