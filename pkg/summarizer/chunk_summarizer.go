package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-blog-summarizer-be/internal/pkg/logger"
	"ai-blog-summarizer-be/pkg/cache"
	"ai-blog-summarizer-be/pkg/llm"
	"ai-blog-summarizer-be/pkg/utils"
)

const (
	systemPrompt     = "You are an assistant that summarizes text."
	userPromptPrefix = "Summarize this text:\n\n"
	summarizerTemp   = 0.7
)

var (
	ErrEmptyInput          = errors.New("text is empty after preprocessing")
	ErrEmptySummary        = errors.New("model returned an empty summary")
	ErrSummarizationFailed = errors.New("summarization failed")
)

// ChunkSummarizer summarizes one piece of text under a token budget and
// caches the result by the sha256 of the text.
type ChunkSummarizer struct {
	llm   llm.LLMProvider
	store cache.Store
	ttl   time.Duration
	log   logger.ILogger
}

func NewChunkSummarizer(provider llm.LLMProvider, store cache.Store, ttl time.Duration, log logger.ILogger) *ChunkSummarizer {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &ChunkSummarizer{llm: provider, store: store, ttl: ttl, log: log}
}

func (s *ChunkSummarizer) Summarize(ctx context.Context, text string, ratio float64, model string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	key := utils.HashKey(cache.PrefixChunk, text)
	if cached, ok, err := s.store.Get(ctx, key); err == nil && ok && cached != "" {
		return cached, nil
	}

	budget := TokenBudget(utils.CountWords(text), ratio)

	history := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPromptPrefix + text},
	}
	out, err := s.llm.Chat(ctx, history,
		llm.WithTemperature(summarizerTemp),
		llm.WithMaxTokens(budget),
		llm.WithModel(model),
	)
	if err != nil {
		s.log.Warn("SUMMARIZER", "Chunk summarization failed", map[string]interface{}{
			"model":      model,
			"max_tokens": budget,
			"error_type": string(llm.ClassifyError(err)),
			"error":      err.Error(),
		})
		return "", fmt.Errorf("summarize chunk: %w", err)
	}

	summary := strings.TrimSpace(out)
	if summary == "" {
		return "", ErrEmptySummary
	}

	if err := s.store.Set(ctx, key, summary, s.ttl); err != nil {
		s.log.Warn("SUMMARIZER", "Failed to cache chunk summary", map[string]interface{}{"error": err.Error()})
	}

	return summary, nil
}
