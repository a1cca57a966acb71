// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a named grouping for blog posts.
// Every blog references exactly one category.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// PostCount is populated by list queries; it is not a table column.
	PostCount int `json:"postCount"`
}

// CategoryRef is the projection of a category embedded in blog responses.
type CategoryRef struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
}

// Ref returns the projection of the category for embedding in blogs.
func (c *Category) Ref() *CategoryRef {
	return &CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug, Description: c.Description}
}
