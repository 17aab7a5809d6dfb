// Package validate screens support queries before they reach retrieval.
// This is a coarse substring filter, not a content-safety system: it exists
// to bounce obvious junk and abuse-tool requests, and it is documented as a
// design limitation that clever phrasing will get past it.
package validate

import "strings"

// disallowedTerms rejects queries asking for abuse tooling. "hacked" is a
// carve-out: "my account was hacked" is a legitimate support report, so any
// query containing it skips the term filter entirely.
var disallowedTerms = []string{"hack", "exploit", "illegal", "crack"}

const minQueryLen = 3

// Result reports whether a query is acceptable, with a reason and
// customer-facing suggestions.
type Result struct {
	Valid       bool     `json:"valid"`
	Reason      string   `json:"reason"`
	Suggestions []string `json:"suggestions"`
}

// Query checks the given text against the ordered rule list; the first rule
// that matches decides the outcome.
func Query(query string) Result {
	if len(strings.TrimSpace(query)) < minQueryLen {
		return Result{
			Valid:       false,
			Reason:      "Query too short",
			Suggestions: []string{"Please provide more details about your issue"},
		}
	}

	lower := strings.ToLower(query)
	if !strings.Contains(lower, "hacked") {
		for _, term := range disallowedTerms {
			if strings.Contains(lower, term) {
				return Result{
					Valid:       false,
					Reason:      "Query contains inappropriate content",
					Suggestions: []string{"Please contact official support for this type of request"},
				}
			}
		}
	}

	return Result{
		Valid:       true,
		Reason:      "Query is appropriate for customer support",
		Suggestions: []string{},
	}
}
