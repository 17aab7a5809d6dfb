// Package classify scores free-text support queries against the category
// registry using keyword containment and word-overlap heuristics. It is a
// lexical router, not a model: a cheap first pass before retrieval.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"omnitech/internal/category"
)

// defaultConfidence is reported when no category scores above zero.
const defaultConfidence = 0.3

// Alternative is a runner-up category with its score.
type Alternative struct {
	Name  string  `json:"query"`
	Score float64 `json:"score"`
}

// Result is the outcome of classifying one query.
type Result struct {
	Suggested    string        `json:"suggested_query"`
	Confidence   float64       `json:"confidence"`
	Alternatives []Alternative `json:"alternatives"`
	Reason       string        `json:"reason"`
}

// Classifier routes queries to registry categories. It never fails: a query
// matching nothing degrades to the registry's default category.
type Classifier struct {
	reg *category.Registry
}

// New creates a Classifier over the given registry.
func New(reg *category.Registry) *Classifier {
	return &Classifier{reg: reg}
}

// Classify returns the best-matching category for the query, a confidence in
// [0,1], and up to two positive-score alternatives. Score ties are broken by
// registry declaration order: the first-declared category wins.
func (c *Classifier) Classify(query string) Result {
	lower := strings.ToLower(query)
	queryWords := wordSet(lower)

	cats := c.reg.All()
	scores := make([]float64, len(cats))
	for i, cat := range cats {
		scores[i] = max(keywordScore(cat.Keywords, lower), overlapScore(cat.Examples, queryWords))
	}

	bestIdx, bestScore := 0, 0.0
	for i, s := range scores {
		if s > bestScore {
			bestIdx, bestScore = i, s
		}
	}

	if bestScore == 0 {
		return Result{
			Suggested:    c.reg.Default().Name,
			Confidence:   defaultConfidence,
			Alternatives: []Alternative{},
			Reason:       "No specific category matched, routing to " + c.reg.Default().Name,
		}
	}

	confidence := min(bestScore, 1.0)

	var alts []Alternative
	for i, s := range scores {
		if i != bestIdx && s > 0 {
			alts = append(alts, Alternative{Name: cats[i].Name, Score: s})
		}
	}
	sort.SliceStable(alts, func(i, j int) bool { return alts[i].Score > alts[j].Score })
	if len(alts) > 2 {
		alts = alts[:2]
	}
	if alts == nil {
		alts = []Alternative{}
	}

	return Result{
		Suggested:    cats[bestIdx].Name,
		Confidence:   confidence,
		Alternatives: alts,
		Reason:       fmt.Sprintf("Matched to %s with confidence %.2f", cats[bestIdx].Name, confidence),
	}
}

// keywordScore is the fraction of the category's keywords found as substrings
// of the lower-cased query.
func keywordScore(keywords []string, lowerQuery string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(lowerQuery, strings.ToLower(kw)) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

// overlapScore is the maximum word-set overlap between the query and any of
// the category's example queries: |intersection| / max(|example|, |query|).
func overlapScore(examples []string, queryWords map[string]bool) float64 {
	best := 0.0
	for _, example := range examples {
		exampleWords := wordSet(strings.ToLower(example))
		inter := 0
		for w := range exampleWords {
			if queryWords[w] {
				inter++
			}
		}
		if inter == 0 {
			continue
		}
		denom := len(exampleWords)
		if len(queryWords) > denom {
			denom = len(queryWords)
		}
		if s := float64(inter) / float64(denom); s > best {
			best = s
		}
	}
	return best
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
