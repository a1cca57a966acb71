// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pressroom/internal/cache"
	"pressroom/internal/markdown"
	"pressroom/internal/middleware"
	"pressroom/internal/models"
	"pressroom/internal/readtime"
	"pressroom/internal/sanitize"
	"pressroom/internal/slug"
	"pressroom/internal/storage"
	"pressroom/internal/store"
)

// Blogs groups the blog CRUD and feed handlers.
type Blogs struct {
	blogs        *store.BlogStore
	categories   *store.CategoryStore
	assets       *storage.Client // nil when storage is unconfigured
	feeds        *cache.ResponseCache
	assetBaseURL string
}

// NewBlogs creates a new Blogs handler group.
func NewBlogs(blogs *store.BlogStore, categories *store.CategoryStore, assets *storage.Client, feeds *cache.ResponseCache, assetBaseURL string) *Blogs {
	return &Blogs{
		blogs:        blogs,
		categories:   categories,
		assets:       assets,
		feeds:        feeds,
		assetBaseURL: assetBaseURL,
	}
}

// blogPayload is the create/update request body. Every field is a pointer so
// partial updates can distinguish "field omitted" (nil, keep previous value)
// from "field present but empty" (clear it).
type blogPayload struct {
	Title             *string       `json:"title"`
	Subtitle          *string       `json:"subTitle"`
	Image             *string       `json:"image"`
	Content           *string       `json:"content"`
	Format            *string       `json:"format"` // "html" (default) or "markdown"
	Tags              *[]string     `json:"tags"`
	MetaTitle         *string       `json:"metaTitle"`
	MetaDescription   *string       `json:"metaDescription"`
	MetaKeywords      *[]string     `json:"metaKeywords"`
	CategoryID        *uuid.UUID    `json:"categoryId"`
	ContentType       *string       `json:"contentType"`
	AuthorDisplayName *string       `json:"authorDisplayName"`
	CanonicalURL      *string       `json:"canonicalUrl"`
	IsPopular         *bool         `json:"isPopular"`
	IsTrending        *bool         `json:"isTrending"`
	FAQs              *[]models.FAQ `json:"faqs"`
	Status            *string       `json:"status"`
}

// renderContent converts Markdown when requested and sanitizes the HTML.
func renderContent(content string, format *string) (string, string) {
	if format != nil && *format == "markdown" {
		html, err := markdown.ToHTML(content)
		if err != nil {
			return "", "Content could not be converted from Markdown."
		}
		content = html
	} else if format != nil && *format != "" && *format != "html" {
		return "", "Format must be \"html\" or \"markdown\"."
	}
	return sanitize.HTML(content), ""
}

// strOrNil maps an empty string to nil for nullable text columns.
func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create handles POST /blogs.
func (h *Blogs) Create(w http.ResponseWriter, r *http.Request) {
	var req blogPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == nil || *req.Title == "" {
		respondError(w, http.StatusBadRequest, "Title is required.")
		return
	}
	if req.Content == nil || *req.Content == "" {
		respondError(w, http.StatusBadRequest, "Content is required.")
		return
	}
	if req.CategoryID == nil {
		respondError(w, http.StatusBadRequest, "Category is required.")
		return
	}

	// Reference integrity before any write.
	exists, err := h.categories.Exists(*req.CategoryID)
	if err != nil {
		respondInternal(w, "category lookup failed", err)
		return
	}
	if !exists {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	image := ""
	if req.Image != nil {
		image = *req.Image
	}
	if msg := validateImage(image, h.assetBaseURL); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	b := &models.Blog{
		Title:             *req.Title,
		Image:             image,
		CategoryID:        *req.CategoryID,
		ContentType:       models.SchemaBlogPosting,
		AuthorDisplayName: models.DefaultAuthorDisplayName,
		Status:            models.BlogStatusPublished,
	}

	if req.Subtitle != nil {
		b.Subtitle = strOrNil(*req.Subtitle)
	}
	if req.ContentType != nil {
		if !models.ValidSchemaType(models.SchemaType(*req.ContentType)) {
			respondError(w, http.StatusBadRequest, "Invalid content type.")
			return
		}
		b.ContentType = models.SchemaType(*req.ContentType)
	}
	if req.Status != nil {
		if !models.ValidBlogStatus(models.BlogStatus(*req.Status)) {
			respondError(w, http.StatusBadRequest, "Status must be \"draft\" or \"published\".")
			return
		}
		b.Status = models.BlogStatus(*req.Status)
	}
	if req.AuthorDisplayName != nil && *req.AuthorDisplayName != "" {
		b.AuthorDisplayName = *req.AuthorDisplayName
	}
	if req.CanonicalURL != nil {
		if msg := validateCanonicalURL(*req.CanonicalURL); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		b.CanonicalURL = strOrNil(*req.CanonicalURL)
	}
	if req.Tags != nil {
		b.Tags = models.NormalizeTags(*req.Tags)
	}
	if req.MetaKeywords != nil {
		b.MetaKeywords = *req.MetaKeywords
	}
	if req.FAQs != nil {
		if msg := validateFAQs(*req.FAQs); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		b.FAQs = *req.FAQs
	}
	if req.IsPopular != nil {
		b.IsPopular = *req.IsPopular
	}
	if req.IsTrending != nil {
		b.IsTrending = *req.IsTrending
	}

	// SEO defaults: meta title falls back to the title, meta description
	// to the subtitle.
	if req.MetaTitle != nil {
		b.MetaTitle = strOrNil(*req.MetaTitle)
	} else {
		b.MetaTitle = &b.Title
	}
	if req.MetaDescription != nil {
		b.MetaDescription = strOrNil(*req.MetaDescription)
	} else if b.Subtitle != nil {
		b.MetaDescription = b.Subtitle
	}

	metaTitle, metaDesc := "", ""
	if b.MetaTitle != nil {
		metaTitle = *b.MetaTitle
	}
	if b.MetaDescription != nil {
		metaDesc = *b.MetaDescription
	}
	if msg := validateMeta(metaTitle, metaDesc); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	content, msg := renderContent(*req.Content, req.Format)
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	b.Content = content
	b.ReadingTime = readtime.Estimate(content)

	b.Slug = slug.Generate(b.Title)
	if b.Slug == "" {
		respondError(w, http.StatusBadRequest, "Title must contain at least one URL-safe character.")
		return
	}
	taken, err := h.blogs.SlugExists(b.Slug, uuid.Nil)
	if err != nil {
		respondInternal(w, "slug check failed", err)
		return
	}
	if taken {
		respondError(w, http.StatusBadRequest, "A blog with this title already exists.")
		return
	}

	ident := middleware.IdentityFromCtx(r.Context())
	b.AuthorID = ident.UserID

	created, err := h.blogs.Create(b)
	if err == store.ErrSlugExists {
		respondError(w, http.StatusBadRequest, "A blog with this title already exists.")
		return
	}
	if err != nil {
		respondInternal(w, "blog create failed", err)
		return
	}

	h.feeds.InvalidateAll(r.Context())
	respond(w, http.StatusCreated, "Blog created successfully", map[string]any{"blog": created})
}

// Update handles PUT /blogs/{id}. Only supplied fields change; omitted
// fields keep their previous values.
func (h *Blogs) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid blog id")
		return
	}

	var req blogPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.blogs.FindByID(id)
	if err != nil {
		respondInternal(w, "blog lookup failed", err)
		return
	}
	if b == nil {
		respondError(w, http.StatusNotFound, "Blog not found")
		return
	}

	oldImage := b.Image

	if req.CategoryID != nil && *req.CategoryID != b.CategoryID {
		exists, err := h.categories.Exists(*req.CategoryID)
		if err != nil {
			respondInternal(w, "category lookup failed", err)
			return
		}
		if !exists {
			respondError(w, http.StatusNotFound, "Category not found")
			return
		}
		b.CategoryID = *req.CategoryID
	}

	if req.Image != nil && *req.Image != b.Image {
		if msg := validateImage(*req.Image, h.assetBaseURL); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		b.Image = *req.Image
	}

	if req.Title != nil && *req.Title != b.Title {
		newSlug := slug.Generate(*req.Title)
		if newSlug == "" {
			respondError(w, http.StatusBadRequest, "Title must contain at least one URL-safe character.")
			return
		}
		taken, err := h.blogs.SlugExists(newSlug, b.ID)
		if err != nil {
			respondInternal(w, "slug check failed", err)
			return
		}
		if taken {
			respondError(w, http.StatusBadRequest, "A blog with this title already exists.")
			return
		}
		b.Title = *req.Title
		b.Slug = newSlug
	}

	if req.Content != nil && *req.Content != b.Content {
		content, msg := renderContent(*req.Content, req.Format)
		if msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		b.Content = content
		b.ReadingTime = readtime.Estimate(content)
	}

	if req.Subtitle != nil {
		b.Subtitle = strOrNil(*req.Subtitle)
	}
	if req.MetaTitle != nil {
		b.MetaTitle = strOrNil(*req.MetaTitle)
	}
	if req.MetaDescription != nil {
		b.MetaDescription = strOrNil(*req.MetaDescription)
	}
	metaTitle, metaDesc := "", ""
	if b.MetaTitle != nil {
		metaTitle = *b.MetaTitle
	}
	if b.MetaDescription != nil {
		metaDesc = *b.MetaDescription
	}
	if msg := validateMeta(metaTitle, metaDesc); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if req.CanonicalURL != nil {
		if msg := validateCanonicalURL(*req.CanonicalURL); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		b.CanonicalURL = strOrNil(*req.CanonicalURL)
	}
	if req.ContentType != nil {
		if !models.ValidSchemaType(models.SchemaType(*req.ContentType)) {
			respondError(w, http.StatusBadRequest, "Invalid content type.")
			return
		}
		b.ContentType = models.SchemaType(*req.ContentType)
	}
	if req.AuthorDisplayName != nil && *req.AuthorDisplayName != "" {
		b.AuthorDisplayName = *req.AuthorDisplayName
	}
	if req.Tags != nil {
		// tags=[] clears the set; tags omitted preserves it.
		b.Tags = models.NormalizeTags(*req.Tags)
	}
	if req.MetaKeywords != nil {
		b.MetaKeywords = *req.MetaKeywords
	}
	if req.FAQs != nil {
		if msg := validateFAQs(*req.FAQs); msg != "" {
			respondError(w, http.StatusBadRequest, msg)
			return
		}
		b.FAQs = *req.FAQs
	}
	if req.IsPopular != nil {
		b.IsPopular = *req.IsPopular
	}
	if req.IsTrending != nil {
		b.IsTrending = *req.IsTrending
	}

	if req.Status != nil {
		next := models.BlogStatus(*req.Status)
		if !models.ValidBlogStatus(next) {
			respondError(w, http.StatusBadRequest, "Status must be \"draft\" or \"published\".")
			return
		}
		// publishedAt records the most recent transition into published.
		// Unpublish preserves it; a republish stamps it again.
		if next == models.BlogStatusPublished && b.Status != models.BlogStatusPublished {
			now := time.Now()
			b.PublishedAt = &now
		}
		b.Status = next
	}

	updated, err := h.blogs.Update(b)
	if err == store.ErrSlugExists {
		respondError(w, http.StatusBadRequest, "A blog with this title already exists.")
		return
	}
	if err != nil {
		respondInternal(w, "blog update failed", err)
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Blog not found")
		return
	}

	// Best-effort cleanup of a replaced image; failure never fails the update.
	if h.assets != nil && oldImage != updated.Image {
		if err := h.assets.DeleteByURL(r.Context(), oldImage); err != nil {
			slog.Warn("old image cleanup failed", "url", oldImage, "error", err)
		}
	}

	h.feeds.InvalidateAll(r.Context())
	respond(w, http.StatusOK, "Blog updated successfully", map[string]any{"blog": updated})
}

// Delete handles DELETE /blogs/{id}. Admin only.
func (h *Blogs) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid blog id")
		return
	}

	b, err := h.blogs.FindByID(id)
	if err != nil {
		respondInternal(w, "blog lookup failed", err)
		return
	}
	if b == nil {
		respondError(w, http.StatusNotFound, "Blog not found")
		return
	}

	// Best-effort image cleanup before removing the record.
	if h.assets != nil {
		if err := h.assets.DeleteByURL(r.Context(), b.Image); err != nil {
			slog.Warn("image cleanup failed", "url", b.Image, "error", err)
		}
	}

	if err := h.blogs.Delete(id); err != nil {
		respondInternal(w, "blog delete failed", err)
		return
	}

	h.feeds.InvalidateAll(r.Context())
	respond(w, http.StatusOK, "Blog deleted successfully", nil)
}

// List handles GET /blogs for authenticated callers. The status filter is
// honored for elevated callers only; everyone else sees published posts.
func (h *Blogs) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ident := middleware.IdentityFromCtx(r.Context())

	filter := store.ListFilter{Status: models.BlogStatusPublished}
	if middleware.IsElevated(ident) {
		switch status := q.Get("status"); status {
		case "":
			// Elevated callers with no explicit status see everything.
			filter.Status = ""
		case "draft", "published":
			filter.Status = models.BlogStatus(status)
		default:
			respondError(w, http.StatusBadRequest, "Status must be \"draft\" or \"published\".")
			return
		}
	}

	if raw := q.Get("category"); raw != "" {
		catID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid category id")
			return
		}
		filter.CategoryID = &catID
	}
	filter.Tag = q.Get("tag")
	filter.Search = q.Get("search")
	if raw := q.Get("isPopular"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "isPopular must be a boolean")
			return
		}
		filter.IsPopular = &v
	}
	if raw := q.Get("isTrending"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "isTrending must be a boolean")
			return
		}
		filter.IsTrending = &v
	}

	page, limit := pagination(r)
	items, total, err := h.blogs.List(filter, page, limit)
	if err != nil {
		respondInternal(w, "blog list failed", err)
		return
	}

	fields := listMeta(total, page, limit)
	fields["blogs"] = blogsOrEmpty(items)
	respond(w, http.StatusOK, "", fields)
}

// GetByID handles GET /blogs/id/{id}. Elevated only, drafts included.
func (h *Blogs) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid blog id")
		return
	}

	b, err := h.blogs.FindByID(id)
	if err != nil {
		respondInternal(w, "blog lookup failed", err)
		return
	}
	if b == nil {
		respondError(w, http.StatusNotFound, "Blog not found")
		return
	}

	respond(w, http.StatusOK, "", map[string]any{"blog": b})
}

// GetBySlug handles GET /blogs/{slug}. Drafts are gated: anonymous and
// non-elevated callers get 403. Every successful fetch increments views.
func (h *Blogs) GetBySlug(w http.ResponseWriter, r *http.Request) {
	b, err := h.blogs.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondInternal(w, "blog lookup failed", err)
		return
	}
	if b == nil {
		respondError(w, http.StatusNotFound, "Blog not found")
		return
	}

	if !b.IsPublished() && !middleware.IsElevated(middleware.IdentityFromCtx(r.Context())) {
		respondError(w, http.StatusForbidden, "Not authorized to access this blog")
		return
	}

	views, err := h.blogs.IncrementViews(b.ID)
	if err != nil {
		respondInternal(w, "view increment failed", err)
		return
	}
	b.Views = views

	respond(w, http.StatusOK, "", map[string]any{"blog": b})
}

// blogsOrEmpty substitutes an empty slice so JSON renders [] instead of null.
func blogsOrEmpty(items []models.Blog) []models.Blog {
	if items == nil {
		return []models.Blog{}
	}
	return items
}
