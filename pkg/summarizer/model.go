package summarizer

import "math"

const (
	ModelSmall   = "mistral-7b"
	ModelMedium  = "llama-3-8b"
	ModelLarge   = "llama-3.3-70b-versatile"
	DefaultModel = ModelLarge

	defaultContextTokens = 4096
)

// SelectModel picks a model by input size when the caller did not name one.
func SelectModel(wordCount int) string {
	switch {
	case wordCount < 300:
		return ModelSmall
	case wordCount < 1000:
		return ModelMedium
	default:
		return ModelLarge
	}
}

// ModelCatalog maps model names to context window sizes in tokens.
// Unknown models get 4096.
type ModelCatalog map[string]int

func DefaultModelCatalog() ModelCatalog {
	return ModelCatalog{ModelLarge: 130000}
}

func (c ModelCatalog) ContextTokens(model string) int {
	if tokens, ok := c[model]; ok && tokens > 0 {
		return tokens
	}
	return defaultContextTokens
}

// WordLimit converts the context window into a per-chunk word budget:
// floor((tokens / 1.33) / 1.75).
func (c ModelCatalog) WordLimit(model string) int {
	return int(math.Floor((float64(c.ContextTokens(model)) / 1.33) / 1.75))
}
