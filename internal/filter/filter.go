package filter

import (
	"strings"

	"github.com/amishk599/jobdelta/internal/model"
)

// ParseQuery splits a free-text query on whitespace and lowercases each term.
func ParseQuery(query string) []string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		terms = append(terms, strings.ToLower(f))
	}
	return terms
}

// Matches reports whether at least one term occurs in text, ignoring case.
// A single matching term is enough; an empty term list matches nothing.
func Matches(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lower, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// QueryFilter matches jobs whose title, location or description contains any
// of the query terms.
type QueryFilter struct {
	terms []string
}

// NewQueryFilter returns a filter for the given lowercase terms.
func NewQueryFilter(terms []string) *QueryFilter {
	return &QueryFilter{terms: terms}
}

// Terms returns the filter's query terms.
func (f *QueryFilter) Terms() []string {
	return f.terms
}

// Match runs Matches against the job's combined search text.
func (f *QueryFilter) Match(job model.Job) bool {
	return Matches(job.SearchText(), f.terms)
}
