package domain

// ArticleUpdate is a partial update of an Article. Nil fields are left untouched.
// URL, Title, Summary, FeedSourceName and ProcessedAt are immutable and have no slot here.
type ArticleUpdate struct {
	FullText               *string
	IsRelevant             *bool
	RelevanceJustification *string
	Category               *Sector
	Tweet                  *string
	InstagramCaption       *string
	LinkedInPost           *string
	Hashtags               []string
	ImageKeywords          []string
}

// Field is a single column assignment produced by ArticleUpdate.Fields
type Field struct {
	Column string
	Value  any
}

// IsEmpty reports whether no field is set
func (u ArticleUpdate) IsEmpty() bool {
	return len(u.Fields()) == 0
}

// Fields returns the set columns in a fixed order.
// Hashtags and ImageKeywords are returned as []string; SQL stores encode them.
func (u ArticleUpdate) Fields() []Field {
	var fields []Field
	if u.FullText != nil {
		fields = append(fields, Field{"full_text", *u.FullText})
	}
	if u.IsRelevant != nil {
		fields = append(fields, Field{"is_relevant", *u.IsRelevant})
	}
	if u.RelevanceJustification != nil {
		fields = append(fields, Field{"relevance_justification", *u.RelevanceJustification})
	}
	if u.Category != nil {
		fields = append(fields, Field{"category", string(*u.Category)})
	}
	if u.Tweet != nil {
		fields = append(fields, Field{"tweet", *u.Tweet})
	}
	if u.InstagramCaption != nil {
		fields = append(fields, Field{"instagram_caption", *u.InstagramCaption})
	}
	if u.LinkedInPost != nil {
		fields = append(fields, Field{"linkedin_post", *u.LinkedInPost})
	}
	if u.Hashtags != nil {
		fields = append(fields, Field{"hashtags", u.Hashtags})
	}
	if u.ImageKeywords != nil {
		fields = append(fields, Field{"image_keywords", u.ImageKeywords})
	}
	return fields
}

// Ptr returns a pointer to v. Handy for building updates.
func Ptr[T any](v T) *T {
	return &v
}
