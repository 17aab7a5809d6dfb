package classify_test

import (
	"strings"
	"testing"

	"omnitech/internal/category"
	"omnitech/internal/classify"
)

func mustRegistry(t *testing.T) *category.Registry {
	t.Helper()
	reg, err := category.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault: %v", err)
	}
	return reg
}

func TestClassify_KeywordMatch(t *testing.T) {
	c := classify.New(mustRegistry(t))

	tests := []struct {
		query string
		want  string
	}{
		{"I forgot my password and my account is locked", "account_security"},
		{"the device keeps dropping wifi", "device_troubleshooting"},
		{"I want a refund for my order", "returns_refunds"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := c.Classify(tt.query)
			if got.Suggested != tt.want {
				t.Errorf("Suggested = %q, want %q (reason: %s)", got.Suggested, tt.want, got.Reason)
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Errorf("Confidence = %v, want (0,1]", got.Confidence)
			}
		})
	}
}

// A query containing a category's full example text must classify to that
// category, and its confidence must dominate both component scores.
func TestClassify_FullExampleText(t *testing.T) {
	reg := mustRegistry(t)
	c := classify.New(reg)

	for _, cat := range reg.All() {
		if cat.Name == category.DefaultName {
			continue
		}
		t.Run(cat.Name, func(t *testing.T) {
			query := cat.Examples[0]
			got := c.Classify(query)
			if got.Suggested != cat.Name {
				t.Fatalf("Classify(%q).Suggested = %q, want %q", query, got.Suggested, cat.Name)
			}
			// The query equals the example word for word, so the overlap
			// component is 1 / 1 relative sets at worst the example itself:
			// confidence is max of both components and can never be below
			// either one.
			if got.Confidence < overlapLowerBound(query, cat) {
				t.Errorf("Confidence = %v below overlap score %v", got.Confidence, overlapLowerBound(query, cat))
			}
		})
	}
}

// overlapLowerBound recomputes the word-overlap score of query against cat's
// examples, independently of the implementation under test.
func overlapLowerBound(query string, cat category.Category) float64 {
	queryWords := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(query)) {
		queryWords[w] = true
	}
	best := 0.0
	for _, ex := range cat.Examples {
		exWords := map[string]bool{}
		for _, w := range strings.Fields(strings.ToLower(ex)) {
			exWords[w] = true
		}
		inter := 0
		for w := range exWords {
			if queryWords[w] {
				inter++
			}
		}
		denom := len(exWords)
		if len(queryWords) > denom {
			denom = len(queryWords)
		}
		if denom > 0 && float64(inter)/float64(denom) > best {
			best = float64(inter) / float64(denom)
		}
	}
	return best
}

func TestClassify_NoMatchFallsBackToDefault(t *testing.T) {
	c := classify.New(mustRegistry(t))

	got := c.Classify("zzz qqq xyzzy")
	if got.Suggested != category.DefaultName {
		t.Errorf("Suggested = %q, want %q", got.Suggested, category.DefaultName)
	}
	if got.Confidence != 0.3 {
		t.Errorf("Confidence = %v, want exactly 0.3", got.Confidence)
	}
	if len(got.Alternatives) != 0 {
		t.Errorf("Alternatives = %v, want empty", got.Alternatives)
	}
	if got.Reason == "" {
		t.Error("expected a no-match reason")
	}
}

func TestClassify_AlternativesCappedAtTwo(t *testing.T) {
	c := classify.New(mustRegistry(t))

	// Touches keywords from several categories at once.
	got := c.Classify("help with password reset and a refund for my device")
	if len(got.Alternatives) > 2 {
		t.Errorf("len(Alternatives) = %d, want <= 2", len(got.Alternatives))
	}
	for _, alt := range got.Alternatives {
		if alt.Score <= 0 {
			t.Errorf("alternative %q has non-positive score %v", alt.Name, alt.Score)
		}
		if alt.Name == got.Suggested {
			t.Errorf("alternative %q duplicates the suggestion", alt.Name)
		}
	}
}

// Ties are broken by registry declaration order: the first-declared of the
// tied categories wins.
func TestClassify_TieBreakByDeclarationOrder(t *testing.T) {
	reg, err := category.NewRegistry([]category.Category{
		{Name: "alpha", Description: "d", Examples: []string{"identical example"}, Template: "t"},
		{Name: "beta", Description: "d", Examples: []string{"identical example"}, Template: "t"},
		{Name: "general_support", Description: "d", Examples: []string{"unrelated words"}, Template: "t"},
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	got := classify.New(reg).Classify("identical example")
	if got.Suggested != "alpha" {
		t.Errorf("Suggested = %q, want alpha (first-declared wins ties)", got.Suggested)
	}
}

func TestClassify_NeverPanicsOnOddInput(t *testing.T) {
	c := classify.New(mustRegistry(t))
	for _, q := range []string{"", "   ", "\n\t", strings.Repeat("a ", 10000)} {
		_ = c.Classify(q)
	}
}
