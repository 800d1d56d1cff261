package summarizer

import (
	"context"
	"strings"

	"ai-blog-summarizer-be/internal/pkg/logger"
)

// Combiner joins chunk summaries and compresses the result once more.
type Combiner struct {
	chunks *ChunkSummarizer
	log    logger.ILogger
}

func NewCombiner(chunks *ChunkSummarizer, log logger.ILogger) *Combiner {
	return &Combiner{chunks: chunks, log: log}
}

// Combine joins the non-empty parts with single spaces and re-summarizes at
// FinalRatio. If that call fails the joined text is returned as is.
// It fails only when there is nothing to combine.
func (c *Combiner) Combine(ctx context.Context, parts []string, model string) (string, error) {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return "", ErrSummarizationFailed
	}

	combined := strings.Join(kept, " ")

	final, err := c.chunks.Summarize(ctx, combined, FinalRatio, model)
	if err != nil {
		c.log.Warn("SUMMARIZER", "Final pass failed, returning combined summary", map[string]interface{}{
			"parts": len(kept),
			"error": err.Error(),
		})
		return combined, nil
	}

	return final, nil
}
