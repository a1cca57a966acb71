package handlers

import (
	"strings"
	"testing"

	"pressroom/internal/models"
)

const testAssetHost = "https://assets.example.com"

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name    string
		image   string
		wantErr bool
	}{
		{name: "valid asset URL", image: "https://assets.example.com/blogs/a.jpg", wantErr: false},
		{name: "empty", image: "", wantErr: true},
		{name: "whitespace only", image: "   ", wantErr: true},
		{name: "foreign host", image: "https://evil.example.com/a.jpg", wantErr: true},
		{name: "host prefix trick", image: "https://assets.example.com.evil.com/a.jpg", wantErr: true},
		{name: "bare host without path", image: "https://assets.example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validateImage(tt.image, testAssetHost)
			if (got != "") != tt.wantErr {
				t.Errorf("validateImage(%q) = %q, wantErr=%v", tt.image, got, tt.wantErr)
			}
		})
	}
}

func TestValidateCanonicalURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"", false},
		{"https://example.com/post", false},
		{"http://example.com", false},
		{"ftp://example.com", true},
		{"example.com/post", true},
		{"https://bad url.com", true},
	}

	for _, tt := range tests {
		got := validateCanonicalURL(tt.url)
		if (got != "") != tt.wantErr {
			t.Errorf("validateCanonicalURL(%q) = %q, wantErr=%v", tt.url, got, tt.wantErr)
		}
	}
}

func TestValidateMeta(t *testing.T) {
	if got := validateMeta(strings.Repeat("x", 90), strings.Repeat("y", 160)); got != "" {
		t.Errorf("at the caps: %q", got)
	}
	if got := validateMeta(strings.Repeat("x", 91), ""); got == "" {
		t.Error("meta title over cap accepted")
	}
	if got := validateMeta("", strings.Repeat("y", 161)); got == "" {
		t.Error("meta description over cap accepted")
	}
}

func TestValidateFAQs(t *testing.T) {
	ok := []models.FAQ{{Question: "What is this?", Answer: "A blog."}}
	if got := validateFAQs(ok); got != "" {
		t.Errorf("valid faqs rejected: %q", got)
	}

	cases := []struct {
		name string
		faqs []models.FAQ
	}{
		{name: "empty question", faqs: []models.FAQ{{Question: " ", Answer: "a"}}},
		{name: "empty answer", faqs: []models.FAQ{{Question: "q", Answer: ""}}},
		{name: "question over cap", faqs: []models.FAQ{{Question: strings.Repeat("q", 201), Answer: "a"}}},
		{name: "answer over cap", faqs: []models.FAQ{{Question: "q", Answer: strings.Repeat("a", 501)}}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := validateFAQs(tt.faqs); got == "" {
				t.Error("invalid faqs accepted")
			}
		})
	}
}
