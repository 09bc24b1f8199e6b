package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanHTML strips markup from an HTML fragment and returns its text.
// Text nodes are trimmed and joined with single spaces; script and style are dropped.
func CleanHTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	return selectionText(doc.Selection)
}

func selectionText(sel *goquery.Selection) string {
	var parts []string
	collectText(sel, &parts)
	return strings.Join(parts, " ")
}

func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "#text":
			if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
				*parts = append(*parts, text)
			}
		case "script", "style", "noscript", "#comment":
		default:
			collectText(s, parts)
		}
	})
}
