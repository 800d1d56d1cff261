package summarizer

import (
	"math"

	"ai-blog-summarizer-be/pkg/utils"
)

const (
	RatioHighRedundancy   = 0.15
	RatioMediumRedundancy = 0.20
	RatioLowRedundancy    = 0.30

	// FinalRatio is used when re-summarizing the combined chunk summaries.
	FinalRatio = RatioLowRedundancy

	tokensPerWord = 5
)

// CompressionRatio assumes longer text is more redundant:
// score = clamp(words/1000, 0, 1); >0.7 → 0.15, >0.3 → 0.20, else 0.30.
func CompressionRatio(text string) float64 {
	return RatioForWordCount(utils.CountWords(text))
}

func RatioForWordCount(words int) float64 {
	score := math.Min(math.Max(float64(words)/1000, 0), 1)
	switch {
	case score > 0.7:
		return RatioHighRedundancy
	case score > 0.3:
		return RatioMediumRedundancy
	default:
		return RatioLowRedundancy
	}
}

// TokenBudget is max(floor(words * ratio * 5), 1).
func TokenBudget(words int, ratio float64) int {
	return max(int(math.Floor(float64(words)*ratio*tokensPerWord)), 1)
}
