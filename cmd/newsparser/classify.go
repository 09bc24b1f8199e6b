package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"mccia-news/pkg/classify"
	"mccia-news/pkg/domain"
	"mccia-news/pkg/social"
)

var (
	classifyTitle string
	classifyText  string
	classifyURL   string
)

type classification struct {
	Relevant      bool          `json:"relevant"`
	Justification string        `json:"justification"`
	Category      domain.Sector `json:"category,omitempty"`
	Tweet         string        `json:"tweet,omitempty"`
	Instagram     string        `json:"instagram_caption,omitempty"`
	LinkedIn      string        `json:"linkedin_post,omitempty"`
	Hashtags      []string      `json:"hashtags,omitempty"`
	ImageKeywords []string      `json:"image_keywords,omitempty"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Dry-run relevance, sector and draft generation on a title and text",
	RunE: func(cmd *cobra.Command, args []string) error {
		if classifyTitle == "" && classifyText == "" {
			return errors.New("--title or --text is required")
		}

		relevance := classify.Classify(classifyTitle, classifyText)
		out := classification{
			Relevant:      relevance.Relevant,
			Justification: relevance.Justification,
		}
		if relevance.Relevant {
			out.Category = classify.Categorize(classifyTitle, classifyText)
			if out.Category != domain.Uncategorized {
				posts := social.Generate(classifyTitle, classifyText, out.Category, classifyURL)
				out.Tweet = posts.Tweet
				out.Instagram = posts.InstagramCaption
				out.LinkedIn = posts.LinkedInPost
				out.Hashtags = posts.Hashtags
				out.ImageKeywords = posts.ImageKeywords
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyTitle, "title", "", "article title")
	classifyCmd.Flags().StringVar(&classifyText, "text", "", "article summary or body")
	classifyCmd.Flags().StringVar(&classifyURL, "url", "https://example.com/article", "link used in the drafts")
}
