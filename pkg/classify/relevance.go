// Package classify decides whether a news item matters to the chamber and which sector it belongs to.
package classify

import (
	"fmt"
	"strings"

	"mccia-news/pkg/lexicon"
)

// NoMatchJustification is reported when no relevance keyword occurs
const NoMatchJustification = "No MCCIA relevant keywords found."

// Relevance is the accept/reject decision for one item
type Relevance struct {
	Relevant      bool
	Justification string
}

// Classify searches title and text for any relevance keyword.
// The first keyword of lexicon.Relevance that occurs wins.
func Classify(title, text string) Relevance {
	haystack := searchText(title, text)
	for _, keyword := range lexicon.Relevance {
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return Relevance{
				Relevant:      true,
				Justification: fmt.Sprintf("Keyword '%s' found.", keyword),
			}
		}
	}
	return Relevance{Relevant: false, Justification: NoMatchJustification}
}

func searchText(title, text string) string {
	return strings.ToLower(title + " " + text)
}
