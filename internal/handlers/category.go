package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pressroom/internal/cache"
	"pressroom/internal/models"
	"pressroom/internal/slug"
	"pressroom/internal/store"
)

// Categories groups the category handlers.
type Categories struct {
	categories *store.CategoryStore
	feeds      *cache.ResponseCache
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore, feeds *cache.ResponseCache) *Categories {
	return &Categories{categories: categories, feeds: feeds}
}

// categoryPayload is the create/update request body.
type categoryPayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// List handles GET /categories. Public; includes per-category post counts.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		respondInternal(w, "category list failed", err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}
	respond(w, http.StatusOK, "", map[string]any{"categories": items})
}

// GetByID handles GET /categories/id/{id}.
func (h *Categories) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	c, err := h.categories.FindByID(id)
	if err != nil {
		respondInternal(w, "category lookup failed", err)
		return
	}
	if c == nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	respond(w, http.StatusOK, "", map[string]any{"category": c})
}

// GetBySlug handles GET /categories/{slug}.
func (h *Categories) GetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondInternal(w, "category lookup failed", err)
		return
	}
	if c == nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	respond(w, http.StatusOK, "", map[string]any{"category": c})
}

// Create handles POST /categories. The slug derives from the name with the
// same slugifier and conflict rule as blog titles.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		respondError(w, http.StatusBadRequest, "Name is required.")
		return
	}

	c := &models.Category{Name: strings.TrimSpace(*req.Name)}
	if req.Description != nil {
		c.Description = *req.Description
	}

	c.Slug = slug.Generate(c.Name)
	if c.Slug == "" {
		respondError(w, http.StatusBadRequest, "Name must contain at least one URL-safe character.")
		return
	}

	created, err := h.categories.Create(c)
	if err == store.ErrSlugExists {
		respondError(w, http.StatusBadRequest, "A category with this name already exists.")
		return
	}
	if err != nil {
		respondInternal(w, "category create failed", err)
		return
	}

	h.feeds.InvalidateAll(r.Context())
	respond(w, http.StatusCreated, "Category created successfully", map[string]any{"category": created})
}

// Update handles PUT /categories/{id}. A name change regenerates the slug.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	var req categoryPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.categories.FindByID(id)
	if err != nil {
		respondInternal(w, "category lookup failed", err)
		return
	}
	if c == nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		c.Name = strings.TrimSpace(*req.Name)
		c.Slug = slug.Generate(c.Name)
		if c.Slug == "" {
			respondError(w, http.StatusBadRequest, "Name must contain at least one URL-safe character.")
			return
		}
	}
	if req.Description != nil {
		c.Description = *req.Description
	}

	err = h.categories.Update(c)
	if err == store.ErrSlugExists {
		respondError(w, http.StatusBadRequest, "A category with this name already exists.")
		return
	}
	if err != nil {
		respondInternal(w, "category update failed", err)
		return
	}

	h.feeds.InvalidateAll(r.Context())
	respond(w, http.StatusOK, "Category updated successfully", map[string]any{"category": c})
}

// Delete handles DELETE /categories/{id}. Admin only. Deletion is blocked
// while blogs still reference the category.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid category id")
		return
	}

	c, err := h.categories.FindByID(id)
	if err != nil {
		respondInternal(w, "category lookup failed", err)
		return
	}
	if c == nil {
		respondError(w, http.StatusNotFound, "Category not found")
		return
	}

	err = h.categories.Delete(id)
	if err == store.ErrCategoryInUse {
		respondError(w, http.StatusBadRequest, "Category still has blogs assigned and cannot be deleted.")
		return
	}
	if err != nil {
		respondInternal(w, "category delete failed", err)
		return
	}

	h.feeds.InvalidateAll(r.Context())
	respond(w, http.StatusOK, "Category deleted successfully", nil)
}
