package utils

import (
	"strings"
	"unicode"
)

// Chunk is an ordered segment of a document produced by AdaptiveChunker.
type Chunk struct {
	Index int
	Text  string
	// OverlapWords is the number of leading words of Text copied from the previous chunk.
	OverlapWords int
	WordCount    int
}

// Body returns the chunk text without the words seeded from the previous chunk.
func (c Chunk) Body() string {
	if c.OverlapWords == 0 {
		return c.Text
	}
	words := strings.Fields(c.Text)
	if c.OverlapWords >= len(words) {
		return ""
	}
	return strings.Join(words[c.OverlapWords:], " ")
}

// AdaptiveChunker groups sentences into chunks bounded by a word budget.
type AdaptiveChunker struct {
	maxWords int
	overlap  int
}

// ChunkerOption configures an AdaptiveChunker.
type ChunkerOption func(*AdaptiveChunker)

// WithOverlap sets how many trailing words of a closed chunk seed the next one.
func WithOverlap(words int) ChunkerOption {
	return func(c *AdaptiveChunker) {
		if words >= 0 {
			c.overlap = words
		}
	}
}

// NewAdaptiveChunker creates a chunker with the given word budget per chunk.
// Overlap is disabled unless WithOverlap is supplied.
func NewAdaptiveChunker(maxWords int, opts ...ChunkerOption) *AdaptiveChunker {
	if maxWords <= 0 {
		maxWords = 200
	}
	c := &AdaptiveChunker{maxWords: maxWords}
	for _, opt := range opts {
		opt(c)
	}
	// Overlap must leave room for new content
	if c.overlap >= c.maxWords {
		c.overlap = c.maxWords / 4
	}
	return c
}

// MaxWords returns the word budget per chunk.
func (c *AdaptiveChunker) MaxWords() int {
	return c.maxWords
}

// Chunk splits text into ordered chunks. A chunk only exceeds the budget
// when it consists of a single sentence that is longer than the budget.
func (c *AdaptiveChunker) Chunk(text string) []Chunk {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var (
		chunks    []Chunk
		current   []string
		curWords  int
		seed      []string
		seedCount int
	)

	flush := func() {
		body := strings.Join(current, " ")
		full := body
		if seedCount > 0 {
			full = strings.Join(seed, " ") + " " + body
		}
		chunks = append(chunks, Chunk{
			Index:        len(chunks),
			Text:         full,
			OverlapWords: seedCount,
			WordCount:    curWords,
		})

		seed = nil
		if c.overlap > 0 {
			words := strings.Fields(full)
			if len(words) > c.overlap {
				words = words[len(words)-c.overlap:]
			}
			seed = words
		}
		current = nil
		curWords = 0
		seedCount = 0
	}

	for _, sentence := range sentences {
		sw := CountWords(sentence)

		if len(current) > 0 && curWords+sw > c.maxWords {
			flush()
		}

		if len(current) == 0 && len(seed) > 0 {
			keep := c.maxWords - sw
			if keep < 0 {
				keep = 0
			}
			if keep < len(seed) {
				seed = seed[len(seed)-keep:]
			}
			seedCount = len(seed)
			curWords = seedCount
		}

		current = append(current, sentence)
		curWords += sw
	}

	if len(current) > 0 {
		flush()
	}
	return chunks
}

// SplitSentences splits text at terminal punctuation (. ! ?) and line breaks.
// Consecutive terminators stay attached to their sentence, so "Wait?!" is one sentence.
func SplitSentences(text string) []string {
	var (
		sentences []string
		b         strings.Builder
	)

	emit := func() {
		s := strings.TrimSpace(b.String())
		if s != "" {
			sentences = append(sentences, strings.Join(strings.Fields(s), " "))
		}
		b.Reset()
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\n' {
			emit()
			continue
		}
		b.WriteRune(r)
		if isTerminator(r) {
			for i+1 < len(runes) && isTerminator(runes[i+1]) {
				i++
				b.WriteRune(runes[i])
			}
			// "3.14" or "e.g.x" is not a boundary
			if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
				continue
			}
			emit()
		}
	}
	emit()
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
