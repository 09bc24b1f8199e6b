// Package social turns a categorised article into ready-to-edit social media drafts.
// Everything here is plain templating; no external calls are made.
package social

import (
	"fmt"
	"strings"
	"unicode"

	"mccia-news/pkg/domain"
)

const (
	maxTweetLen        = 280
	maxTweetTitleLen   = 120
	maxCaptionSummary  = 300
	maxLinkedInSummary = 400
	maxHashtags        = 7
	maxImageKeywords   = 5
	maxTitleHashtagLen = 20 // exclusive, including '#'
)

var (
	communityHashtags = []string{"#PuneBusiness", "#MaharashtraEconomy", "#IndustryNews", "#BusinessUpdates"}
	fallbackImageKeys = []string{"business", "Maharashtra", "news update", "industry report"}
	imageStopWords    = map[string]bool{"the": true, "and": true, "for": true, "is": true, "of": true}

	// hashtagAbbreviations shorten long words in the sector-news tag; applied in order.
	hashtagAbbreviations = []struct{ long, short string }{
		{"Entrepreneurship", "Entr"},
		{"Innovation", "Tech"},
		{"Manufacturing", "Mfg"},
		{"Development", "Dev"},
	}
)

// Posts holds the generated drafts for one article
type Posts struct {
	Tweet            string
	InstagramCaption string
	LinkedInPost     string
	Hashtags         []string
	ImageKeywords    []string
}

// Generate builds the tweet, Instagram caption, LinkedIn post, hashtags and image keywords
func Generate(title, summary string, sector domain.Sector, url string) Posts {
	category := string(sector)
	tag := hashtagBase(category)

	tweet := fmt.Sprintf("📢 %s Update: %s... Read more: %s #MCCIA #%s",
		category, truncate(title, maxTweetTitleLen), url, tag)

	caption := fmt.Sprintf("📢 MCCIA Update: %s News!\n\n"+
		"Headline: %s\n\n"+
		"Summary: %s...\n\n"+
		"Stay informed with MCCIA! Full details at the link in our bio or visit: %s\n\n"+
		"#MCCIA #%s #Pune #Maharashtra #%sNews #IndustryUpdates",
		category, title, truncate(summary, maxCaptionSummary), url, tag, tag)

	linkedIn := fmt.Sprintf("Key Development in %s for MCCIA Members & Maharashtra's Business Ecosystem:\n\n"+
		"**%s**\n\n"+
		"%s...\n\n"+
		"This update could have significant implications for businesses in the region. We encourage our members to delve deeper.\n\n"+
		"Read the full article here: %s\n\n"+
		"What are your perspectives on this? Share your thoughts below.\n\n"+
		"#MCCIA #%s #%sUpdates #MaharashtraBusiness #EconomicDevelopment #Pune",
		category, title, truncate(summary, maxLinkedInSummary), url, tag, strings.ReplaceAll(category, " ", ""))

	return Posts{
		Tweet:            truncate(tweet, maxTweetLen),
		InstagramCaption: caption,
		LinkedInPost:     linkedIn,
		Hashtags:         Hashtags(title, sector),
		ImageKeywords:    ImageKeywords(title, sector),
	}
}

// Hashtags returns at most seven unique hashtags, in a stable order
func Hashtags(title string, sector domain.Sector) []string {
	tag := hashtagBase(string(sector))
	tags := newOrderedSet()
	tags.add("#MCCIA")
	tags.add("#" + tag)

	if sector != domain.GeneralBusinessNews {
		specific := tag
		for _, abbr := range hashtagAbbreviations {
			specific = strings.ReplaceAll(specific, abbr.long, abbr.short)
		}
		tags.add("#" + specific + "News")
	}

	if word, ok := firstHashtagWord(title); ok {
		candidate := "#" + capitalize(word)
		if runeLen(candidate) < maxTitleHashtagLen {
			tags.add(candidate)
		}
	}

	for _, t := range communityHashtags {
		tags.add(t)
	}
	return tags.first(maxHashtags)
}

// ImageKeywords returns at most five capitalised search terms for a header image.
// Duplicates are detected case-insensitively.
func ImageKeywords(title string, sector domain.Sector) []string {
	candidates := []string{strings.Split(string(sector), " ")[0]}
	for _, word := range strings.Fields(title) {
		if runeLen(word) > 3 && !imageStopWords[strings.ToLower(word)] {
			candidates = append(candidates, word)
		}
	}
	candidates = append(candidates, fallbackImageKeys...)

	keys := newOrderedSet()
	for _, kw := range candidates {
		if kw == "" {
			continue
		}
		keys.add(capitalize(kw))
	}
	return keys.first(maxImageKeywords)
}

// hashtagBase strips spaces and spells out '&' so the category can follow a '#'
func hashtagBase(category string) string {
	return strings.ReplaceAll(strings.ReplaceAll(category, " ", ""), "&", "And")
}

// firstHashtagWord finds the first title word longer than four runes made only of letters and digits
func firstHashtagWord(title string) (string, bool) {
	for _, word := range strings.Fields(title) {
		if runeLen(word) > 4 && isAlphanumeric(word) {
			return word, true
		}
	}
	return "", false
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// capitalize upper-cases the first rune and lower-cases the rest
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func runeLen(s string) int {
	return len([]rune(s))
}
