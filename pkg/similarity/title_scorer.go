package similarity

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"
)

const (
	StrategyFuzzy  = "fuzzy"
	StrategyStrict = "strict"
)

// TitleScorer scores how well a title matches a query. Lower is better;
// +Inf means the title must be excluded.
type TitleScorer interface {
	Name() string
	Score(query, title string) float64
}

func NewTitleScorer(strategy string) (TitleScorer, error) {
	switch strategy {
	case "", StrategyFuzzy:
		return FuzzyTitleScorer{}, nil
	case StrategyStrict:
		return StrictTitleScorer{}, nil
	default:
		return nil, fmt.Errorf("unknown title scoring strategy: %s", strategy)
	}
}

// FuzzyTitleScorer always returns a finite score:
// 0 exact, 1 query inside title, 2 title inside query,
// 3..10 by word Jaccard distance, 10..11 by normalized edit distance.
type FuzzyTitleScorer struct{}

func (FuzzyTitleScorer) Name() string { return StrategyFuzzy }

func (FuzzyTitleScorer) Score(query, title string) float64 {
	q := normalizeTitle(query)
	t := normalizeTitle(title)

	switch {
	case q == t:
		return 0
	case q == "" || t == "":
		return 11
	case strings.Contains(t, q):
		return 1
	case strings.Contains(q, t):
		return 2
	}

	qWords := wordSet(q)
	tWords := wordSet(t)

	common := 0
	for w := range qWords {
		if _, ok := tWords[w]; ok {
			common++
		}
	}

	if common > 0 {
		union := len(qWords) + len(tWords) - common
		jaccard := float64(common) / float64(union)
		return 3 + (1-jaccard)*7
	}

	qr, tr := []rune(q), []rune(t)
	maxLen := max(len(qr), len(tr))
	return 10 + float64(levenshtein(qr, tr))/float64(maxLen)
}

// StrictTitleScorer requires the title to contain the query once whitespace is
// removed and case folded, then penalizes length, case and spacing differences.
type StrictTitleScorer struct{}

func (StrictTitleScorer) Name() string { return StrategyStrict }

func (StrictTitleScorer) Score(query, title string) float64 {
	if !strings.Contains(stripSpaces(title), stripSpaces(query)) {
		return math.Inf(1)
	}

	qr, tr := []rune(query), []rune(title)
	score := absInt(len(qr)-len(tr)) * 10

	for i := 0; i < min(len(qr), len(tr)); i++ {
		if qr[i] != tr[i] && unicode.ToLower(qr[i]) == unicode.ToLower(tr[i]) {
			score += 2
		}
	}

	score += absInt(countSpaces(qr)-countSpaces(tr)) * 5

	if strings.Contains(title, " ") && !strings.Contains(query, " ") {
		score += 3
	}

	return float64(score)
}

// RankTitles orders items by ascending title score and drops infinite scores.
func RankTitles[T any](scorer TitleScorer, query string, items []T, titleOf func(T) string, limit int) []Scored[T] {
	scored := make([]Scored[T], 0, len(items))
	for _, it := range items {
		s := scorer.Score(query, titleOf(it))
		if math.IsInf(s, 1) {
			continue
		}
		scored = append(scored, Scored[T]{Item: it, Score: s})
	}

	slices.SortStableFunc(scored, func(a, b Scored[T]) int {
		return cmp.Compare(a.Score, b.Score)
	})

	return truncate(scored, limit)
}

func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		set[w] = struct{}{}
	}
	return set
}

func countSpaces(rs []rune) int {
	n := 0
	for _, r := range rs {
		if unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
