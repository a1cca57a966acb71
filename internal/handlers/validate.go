package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"pressroom/internal/models"
)

// Validation limits for blog fields.
const (
	maxMetaTitleLen   = 90
	maxMetaDescLen    = 160
	maxFAQQuestionLen = 200
	maxFAQAnswerLen   = 500
)

// absoluteURL matches well-formed absolute HTTP(S) URLs.
var absoluteURL = regexp.MustCompile(`^https?://\S+$`)

// validateImage checks that the image URL points at the approved asset host.
// Returns the first error found, or "" if valid.
func validateImage(image, assetBaseURL string) string {
	image = strings.TrimSpace(image)
	if image == "" {
		return "Image is required."
	}
	if !strings.HasPrefix(image, assetBaseURL+"/") {
		return "Image must be hosted on the approved asset host."
	}
	return ""
}

// validateCanonicalURL checks an optional canonical URL.
func validateCanonicalURL(u string) string {
	if u == "" {
		return ""
	}
	if !absoluteURL.MatchString(u) {
		return "Canonical URL must be a well-formed absolute HTTP(S) URL."
	}
	return ""
}

// validateMeta checks the SEO metadata length caps.
func validateMeta(metaTitle, metaDescription string) string {
	if utf8.RuneCountInString(metaTitle) > maxMetaTitleLen {
		return "Meta title is too long (max 90 characters)."
	}
	if utf8.RuneCountInString(metaDescription) > maxMetaDescLen {
		return "Meta description is too long (max 160 characters)."
	}
	return ""
}

// validateFAQs checks each question/answer pair against its length cap.
func validateFAQs(faqs []models.FAQ) string {
	for _, f := range faqs {
		if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
			return "FAQ entries require both a question and an answer."
		}
		if utf8.RuneCountInString(f.Question) > maxFAQQuestionLen {
			return "FAQ question is too long (max 200 characters)."
		}
		if utf8.RuneCountInString(f.Answer) > maxFAQAnswerLen {
			return "FAQ answer is too long (max 500 characters)."
		}
	}
	return ""
}
