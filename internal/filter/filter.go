package filter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/amishk599/jobboard/internal/model"
)

// SearchFilter matches postings whose title, company name, or any tag contains
// the query. Matching is case-insensitive; an empty query matches everything.
type SearchFilter struct {
	query string
}

// NewSearchFilter returns a filter for the given free-text query.
func NewSearchFilter(query string) *SearchFilter {
	return &SearchFilter{query: lower(query)}
}

// Match returns true if the lowercased query is a substring of the lowercased
// title, company name, or one of the tags.
func (f *SearchFilter) Match(job model.JobPosting) bool {
	if f.query == "" {
		return true
	}
	if strings.Contains(lower(job.Title), f.query) {
		return true
	}
	if strings.Contains(lower(job.CompanyName), f.query) {
		return true
	}
	for _, tag := range job.Tags {
		if strings.Contains(lower(tag), f.query) {
			return true
		}
	}
	return false
}

// Search returns the postings that match query, in their original order.
// The input slice is never modified.
func Search(jobs []model.JobPosting, query string) []model.JobPosting {
	return Apply(jobs, NewSearchFilter(query))
}

// Apply returns the postings accepted by f, preserving order.
func Apply(jobs []model.JobPosting, f model.JobFilter) []model.JobPosting {
	out := make([]model.JobPosting, 0, len(jobs))
	for _, j := range jobs {
		if f.Match(j) {
			out = append(out, j)
		}
	}
	return out
}

// lower lowercases s with language-neutral rules. It never expands letters
// ("ß" stays "ß"), so it matches no more than plain lowercasing would.
// Casers are stateful, hence one per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
