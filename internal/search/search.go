// Package search holds the result of a recipe search and pages through it.
package search

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// ResultsPerPage is the page size used by the results list.
	ResultsPerPage = 10
	// TitleLimit is the display length of a result title.
	TitleLimit = 17
)

// Summary is a lightweight search hit.
type Summary struct {
	ID         string  `json:"recipe_id"`
	Title      string  `json:"title"`
	Publisher  string  `json:"publisher"`
	ImageURL   string  `json:"image_url"`
	SourceURL  string  `json:"source_url"`
	SocialRank float64 `json:"social_rank"`
}

// Search is a query and the results it produced.
type Search struct {
	Query   string
	Results []Summary
}

// New creates a search for query with no results yet.
func New(query string) *Search {
	return &Search{Query: query}
}

// PageResult is one page of results. Prev and Next are page numbers for the
// navigation buttons; zero means the button is not shown.
type PageResult struct {
	Page    int       `json:"page"`
	Pages   int       `json:"pages"`
	Prev    int       `json:"prev,omitempty"`
	Next    int       `json:"next,omitempty"`
	Results []Summary `json:"results"`
}

// Page returns the results on page (1-based). Out-of-range pages are clamped.
func (s *Search) Page(page, perPage int) PageResult {
	if perPage < 1 {
		perPage = ResultsPerPage
	}
	pages := int(math.Ceil(float64(len(s.Results)) / float64(perPage)))
	page = max(1, min(page, max(pages, 1)))

	start := (page - 1) * perPage
	end := min(page*perPage, len(s.Results))

	res := PageResult{
		Page:    page,
		Pages:   pages,
		Results: s.Results[start:end],
	}
	if page > 1 {
		res.Prev = page - 1
	}
	if page < pages {
		res.Next = page + 1
	}
	return res
}

// LimitTitle shortens title to whole words fitting in limit characters and
// appends " ...". Titles already within limit are returned unchanged.
func LimitTitle(title string, limit int) string {
	if utf8.RuneCountInString(title) <= limit {
		return title
	}
	var kept []string
	acc := 0
	for _, word := range strings.Split(title, " ") {
		n := utf8.RuneCountInString(word)
		if acc+n <= limit {
			kept = append(kept, word)
		}
		acc += n
	}
	return strings.Join(kept, " ") + " ..."
}
