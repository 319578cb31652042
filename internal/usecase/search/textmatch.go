package search

import "strings"

// minTermLength filters out stopwords, articles, and initials that would
// otherwise produce spurious substring hits.
const minTermLength = 3

// queryTerms tokenizes a query on whitespace, lower-cases it, and discards
// tokens shorter than minTermLength.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	terms := fields[:0]
	for _, f := range fields {
		if len(f) >= minTermLength {
			terms = append(terms, f)
		}
	}
	return terms
}

// HasTextMatch reports whether any retained query term appears as a
// substring of text, case-insensitively. Empty query or text never matches.
func HasTextMatch(query, text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, term := range queryTerms(query) {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// CountTextMatches returns how many retained query terms appear in text,
// counting each term at most once regardless of repeat occurrences.
func CountTextMatches(query, text string) int {
	if text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	count := 0
	for _, term := range queryTerms(query) {
		if strings.Contains(lower, term) {
			count++
		}
	}
	return count
}
