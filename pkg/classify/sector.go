package classify

import (
	"strings"

	"mccia-news/pkg/domain"
	"mccia-news/pkg/lexicon"
)

// minSpecificScore is the number of keyword hits a specific sector needs
const minSpecificScore = 2

// SectorScore is the number of distinct sector keywords found in a text
type SectorScore struct {
	Sector domain.Sector
	Score  int
}

// Scores returns one entry per sector, in lexicon order
func Scores(title, text string) []SectorScore {
	haystack := searchText(title, text)
	scores := make([]SectorScore, 0, len(lexicon.Sectors))
	for _, sk := range lexicon.Sectors {
		score := 0
		for _, keyword := range sk.Keywords {
			if strings.Contains(haystack, strings.ToLower(keyword)) {
				score++
			}
		}
		scores = append(scores, SectorScore{Sector: sk.Sector, Score: score})
	}
	return scores
}

// Categorize picks the best sector for a relevant item.
//
// The highest score leads; on a nonzero tie a General Business News leader gives way
// to the more specific sector, otherwise the earlier sector keeps the lead.
// A specific sector needs at least two hits. A single hit only counts for
// General Business News; everything else is Uncategorized.
func Categorize(title, text string) domain.Sector {
	return resolve(Scores(title, text))
}

func resolve(scores []SectorScore) domain.Sector {
	best := domain.Uncategorized
	highest := 0

	for _, s := range scores {
		switch {
		case s.Score > highest:
			highest = s.Score
			best = s.Sector
		case s.Score == highest && s.Score > 0:
			if best == domain.GeneralBusinessNews && s.Sector != domain.GeneralBusinessNews {
				best = s.Sector
			}
		}
	}

	switch {
	case highest >= minSpecificScore:
		return best
	case highest == 1 && best == domain.GeneralBusinessNews:
		return domain.GeneralBusinessNews
	default:
		return domain.Uncategorized
	}
}
