package search

import "strings"

// Stop words ignored when matching query terms against document text
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true, "how": true, "what": true, "or": true,
}

// Terms splits text into lower-cased words with punctuation trimmed and stop words removed.
func Terms(text string) []string {
	words := strings.Fields(text)
	filtered := make([]string, 0, len(words))

	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" && !stopWords[cleaned] {
			filtered = append(filtered, cleaned)
		}
	}

	return filtered
}

func termSet(text string) map[string]bool {
	terms := Terms(text)
	set := make(map[string]bool, len(terms))
	for _, term := range terms {
		set[term] = true
	}
	return set
}

// countTerms returns how many of the query terms occur in text.
func countTerms(text string, queryTerms []string) int {
	if len(queryTerms) == 0 {
		return 0
	}
	docTerms := termSet(text)
	count := 0
	for _, term := range queryTerms {
		if docTerms[term] {
			count++
		}
	}
	return count
}

// containsAllTerms reports whether every query term occurs in text.
// A query made only of stop words matches nothing.
func containsAllTerms(text string, queryTerms []string) bool {
	return len(queryTerms) > 0 && countTerms(text, queryTerms) == len(queryTerms)
}
