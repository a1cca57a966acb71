// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pressroom/internal/cache"
	"pressroom/internal/models"
	"pressroom/internal/store"
)

// serveCachedFeed answers a public listing from the response cache when
// possible, otherwise builds the payload, caches it, and writes it out.
func (h *Blogs) serveCachedFeed(w http.ResponseWriter, r *http.Request, build func() (map[string]any, error)) {
	key := cache.Key(r.URL.Path, r.URL.Query())

	if body, ok := h.feeds.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
		return
	}

	fields, err := build()
	if err != nil {
		respondInternal(w, "feed query failed", err)
		return
	}

	payload := map[string]any{"success": true}
	for k, v := range fields {
		payload[k] = v
	}
	body, err := json.Marshal(payload)
	if err != nil {
		respondInternal(w, "feed encode failed", err)
		return
	}

	h.feeds.Set(r.Context(), key, body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// publicFilter builds the published-only filter from public query params.
func publicFilter(r *http.Request) (store.ListFilter, string) {
	q := r.URL.Query()
	filter := store.ListFilter{Status: models.BlogStatusPublished}

	if raw := q.Get("category"); raw != "" {
		catID, err := uuid.Parse(raw)
		if err != nil {
			return filter, "Invalid category id"
		}
		filter.CategoryID = &catID
	}
	filter.Tag = q.Get("tag")
	filter.Search = q.Get("search")

	if raw := q.Get("isPopular"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, "isPopular must be a boolean"
		}
		filter.IsPopular = &v
	}
	if raw := q.Get("isTrending"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, "isTrending must be a boolean"
		}
		filter.IsTrending = &v
	}
	return filter, ""
}

// PublicList handles GET /blogs/public: the published-only feed, newest first.
func (h *Blogs) PublicList(w http.ResponseWriter, r *http.Request) {
	filter, msg := publicFilter(r)
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	page, limit := pagination(r)

	h.serveCachedFeed(w, r, func() (map[string]any, error) {
		items, total, err := h.blogs.List(filter, page, limit)
		if err != nil {
			return nil, err
		}
		fields := listMeta(total, page, limit)
		fields["blogs"] = blogsOrEmpty(items)
		return fields, nil
	})
}

// Trending handles GET /blogs/trending: published posts flagged trending,
// ordered by creation time descending with publish time ascending tie-break.
func (h *Blogs) Trending(w http.ResponseWriter, r *http.Request) {
	h.flaggedFeed(w, r, store.SortTrendingFeed, func(f *store.ListFilter, v *bool) { f.IsTrending = v })
}

// Popular handles GET /blogs/popular: published posts flagged popular,
// ordered by creation time ascending with publish time descending tie-break.
func (h *Blogs) Popular(w http.ResponseWriter, r *http.Request) {
	h.flaggedFeed(w, r, store.SortPopularFeed, func(f *store.ListFilter, v *bool) { f.IsPopular = v })
}

// flaggedFeed is the shared body of the trending and popular feeds. The two
// feeds use opposite tie-break directions; clients depend on the ordering.
func (h *Blogs) flaggedFeed(w http.ResponseWriter, r *http.Request, sort store.Sort, setFlag func(*store.ListFilter, *bool)) {
	filter, msg := publicFilter(r)
	if msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	flagged := true
	setFlag(&filter, &flagged)
	filter.Sort = sort
	page, limit := pagination(r)

	h.serveCachedFeed(w, r, func() (map[string]any, error) {
		items, total, err := h.blogs.List(filter, page, limit)
		if err != nil {
			return nil, err
		}
		fields := listMeta(total, page, limit)
		fields["blogs"] = blogsOrEmpty(items)
		return fields, nil
	})
}

// TagFeed handles GET /blogs/tag/{tag}: published posts carrying the tag,
// matched case-insensitively against the normalized tag set. The response
// echoes the normalized tag.
func (h *Blogs) TagFeed(w http.ResponseWriter, r *http.Request) {
	tag := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "tag")))
	if tag == "" {
		respondError(w, http.StatusBadRequest, "Tag is required.")
		return
	}

	filter := store.ListFilter{
		Status: models.BlogStatusPublished,
		Tag:    tag,
		Sort:   store.SortTagFeed,
	}
	page, limit := pagination(r)

	h.serveCachedFeed(w, r, func() (map[string]any, error) {
		items, total, err := h.blogs.List(filter, page, limit)
		if err != nil {
			return nil, err
		}
		fields := listMeta(total, page, limit)
		fields["blogs"] = blogsOrEmpty(items)
		fields["tag"] = tag
		return fields, nil
	})
}

// PublicGetBySlug handles GET /blogs/public/{slug}. Drafts are invisible
// here: they 404 rather than 403, so their existence leaks nothing. Each
// successful fetch increments views, so this endpoint is never cached.
func (h *Blogs) PublicGetBySlug(w http.ResponseWriter, r *http.Request) {
	b, err := h.blogs.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondInternal(w, "blog lookup failed", err)
		return
	}
	if b == nil || !b.IsPublished() {
		respondError(w, http.StatusNotFound, "Blog not found")
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
