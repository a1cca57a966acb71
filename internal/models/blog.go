// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlogStatus represents the publishing state of a blog post.
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

// ValidBlogStatus reports whether s is a known status value.
func ValidBlogStatus(s BlogStatus) bool {
	return s == BlogStatusDraft || s == BlogStatusPublished
}

// SchemaType is the structured-data article type attached to a post.
type SchemaType string

const (
	SchemaArticle     SchemaType = "Article"
	SchemaBlogPosting SchemaType = "BlogPosting"
	SchemaNewsArticle SchemaType = "NewsArticle"
	SchemaTechArticle SchemaType = "TechArticle"
)

// ValidSchemaType reports whether s is a known schema type.
func ValidSchemaType(s SchemaType) bool {
	switch s {
	case SchemaArticle, SchemaBlogPosting, SchemaNewsArticle, SchemaTechArticle:
		return true
	}
	return false
}

// DefaultAuthorDisplayName is used when a post doesn't carry an explicit byline.
const DefaultAuthorDisplayName = "Editor"

// FAQ is a question/answer pair attached to a post for structured data.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Blog represents a blog post.
type Blog struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Slug              string     `json:"slug"`
	Subtitle          *string    `json:"subTitle,omitempty"`
	Image             string     `json:"image"`
	Content           string     `json:"content"`
	Tags              []string   `json:"tags"`
	MetaTitle         *string    `json:"metaTitle,omitempty"`
	MetaDescription   *string    `json:"metaDescription,omitempty"`
	MetaKeywords      []string   `json:"metaKeywords"`
	CategoryID        uuid.UUID  `json:"-"`
	ContentType       SchemaType `json:"contentType"`
	AuthorID          uuid.UUID  `json:"-"`
	AuthorDisplayName string     `json:"authorDisplayName"`
	CanonicalURL      *string    `json:"canonicalUrl,omitempty"`
	IsPopular         bool       `json:"isPopular"`
	IsTrending        bool       `json:"isTrending"`
	Views             int64      `json:"views"`
	ReadingTime       int        `json:"readingTime"`
	FAQs              []FAQ      `json:"faqs"`
	Status            BlogStatus `json:"status"`
	PublishedAt       *time.Time `json:"publishedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`

	// Expanded references, populated by store queries.
	Category *CategoryRef `json:"category,omitempty"`
	Author   *AuthorRef   `json:"author,omitempty"`
}

// IsPublished returns true if the post is in published status.
func (b *Blog) IsPublished() bool {
	return b.Status == BlogStatusPublished
}

// NormalizeTags lowercases and trims each tag, dropping empties.
// Tag matching throughout the platform is against this normalized form.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
