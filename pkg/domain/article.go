package domain

import "time"

// Sector is one of the fixed business-topic categories a relevant article is filed under
type Sector string

const (
	Agriculture           Sector = "Agriculture"
	ForeignTrade          Sector = "Foreign Trade"
	Manufacturing         Sector = "Manufacturing"
	MSME                  Sector = "MSME" // Micro, Small and Medium Enterprises
	Automotive            Sector = "Automotive"
	TechInnovation        Sector = "Tech Innovation"
	WomenEntrepreneurship Sector = "Women Entrepreneurship"
	PolicyUpdates         Sector = "Policy Updates"
	GeneralBusinessNews   Sector = "General Business News" // Catch-all
	Uncategorized         Sector = "Uncategorized"
)

// Sectors lists the nine assignable sectors in declaration order.
// Uncategorized is a fallback, not a member.
var Sectors = []Sector{
	Agriculture,
	ForeignTrade,
	Manufacturing,
	MSME,
	Automotive,
	TechInnovation,
	WomenEntrepreneurship,
	PolicyUpdates,
	GeneralBusinessNews,
}

// Valid reports whether s is one of the nine sectors or Uncategorized
func (s Sector) Valid() bool {
	if s == Uncategorized {
		return true
	}
	for _, known := range Sectors {
		if s == known {
			return true
		}
	}
	return false
}

// Article represents a news item stored in the database.
// URL is the identity; one record exists per URL.
type Article struct {
	URL            string  `json:"url" bson:"url"`
	Title          string  `json:"title" bson:"title"`
	Summary        string  `json:"summary" bson:"summary"` // HTML-stripped
	FullText       *string `json:"full_text,omitempty" bson:"full_text,omitempty"`
	FeedSourceName string  `json:"feed_source_name" bson:"feed_source_name"`

	// ProcessedAt is set once, at creation, and drives retention.
	ProcessedAt   time.Time `json:"processed_at" bson:"processed_at"`
	LastUpdatedAt time.Time `json:"last_updated_at" bson:"last_updated_at"`

	IsRelevant             *bool   `json:"is_relevant,omitempty" bson:"is_relevant,omitempty"`
	RelevanceJustification *string `json:"relevance_justification,omitempty" bson:"relevance_justification,omitempty"`
	Category               *Sector `json:"category,omitempty" bson:"category,omitempty"`

	Tweet            *string `json:"tweet,omitempty" bson:"tweet,omitempty"`
	InstagramCaption *string `json:"instagram_caption,omitempty" bson:"instagram_caption,omitempty"`
	LinkedInPost     *string `json:"linkedin_post,omitempty" bson:"linkedin_post,omitempty"`

	Hashtags      []string `json:"hashtags,omitempty" bson:"hashtags,omitempty"`
	ImageKeywords []string `json:"image_keywords,omitempty" bson:"image_keywords,omitempty"`

	// Flares are display tags written outside this pipeline.
	Flares []string `json:"flares,omitempty" bson:"flares,omitempty"`
}

// Apply merges the set fields of u into a and bumps LastUpdatedAt.
// Stores that keep whole records (mongo, tests) use it to mirror SQL partial updates.
func (a *Article) Apply(u ArticleUpdate, now time.Time) {
	if u.IsEmpty() {
		return
	}
	if u.FullText != nil {
		a.FullText = u.FullText
	}
	if u.IsRelevant != nil {
		a.IsRelevant = u.IsRelevant
	}
	if u.RelevanceJustification != nil {
		a.RelevanceJustification = u.RelevanceJustification
	}
	if u.Category != nil {
		a.Category = u.Category
	}
	if u.Tweet != nil {
		a.Tweet = u.Tweet
	}
	if u.InstagramCaption != nil {
		a.InstagramCaption = u.InstagramCaption
	}
	if u.LinkedInPost != nil {
		a.LinkedInPost = u.LinkedInPost
	}
	if u.Hashtags != nil {
		a.Hashtags = u.Hashtags
	}
	if u.ImageKeywords != nil {
		a.ImageKeywords = u.ImageKeywords
	}
	a.LastUpdatedAt = now
}

// Publishable reports whether the dashboard should show the article
func (a *Article) Publishable() bool {
	return a.IsRelevant != nil && *a.IsRelevant &&
		a.Category != nil && *a.Category != Uncategorized
}
