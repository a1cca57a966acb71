// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pressroom/internal/models"
)

// BlogStore handles all blog-related database operations.
type BlogStore struct {
	db *sql.DB
}

// NewBlogStore creates a new BlogStore with the given database connection.
func NewBlogStore(db *sql.DB) *BlogStore {
	return &BlogStore{db: db}
}

// Sort selects the ordering contract for blog listings. The trending and
// popular feeds intentionally use opposite tie-break directions; clients
// depend on this exact ordering.
type Sort int

const (
	// SortNewest orders by creation time, newest first. The default.
	SortNewest Sort = iota
	// SortTrendingFeed orders by creation time descending, publish time ascending.
	SortTrendingFeed
	// SortPopularFeed orders by creation time ascending, publish time descending.
	SortPopularFeed
	// SortTagFeed orders by publish time descending, creation time descending.
	SortTagFeed
)

// orderClause maps a Sort to its SQL ORDER BY expression.
func (s Sort) orderClause() string {
	switch s {
	case SortTrendingFeed:
		return "b.created_at DESC, b.published_at ASC NULLS LAST"
	case SortPopularFeed:
		return "b.created_at ASC, b.published_at DESC NULLS LAST"
	case SortTagFeed:
		return "b.published_at DESC NULLS LAST, b.created_at DESC"
	default:
		return "b.created_at DESC"
	}
}

// ListFilter describes a blog listing query. Zero values mean "don't filter".
// All conditions combine with AND; Search matches title OR content OR any tag.
type ListFilter struct {
	Status     models.BlogStatus
	CategoryID *uuid.UUID
	Tag        string
	Search     string
	IsPopular  *bool
	IsTrending *bool
	Sort       Sort
}

// where builds the WHERE clause and argument list for the filter.
func (f ListFilter) where() (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "b.status = "+arg(string(f.Status)))
	}
	if f.CategoryID != nil {
		conds = append(conds, "b.category_id = "+arg(*f.CategoryID))
	}
	if f.Tag != "" {
		// Exact match against the normalized tag set.
		conds = append(conds, "b.tags @> jsonb_build_array("+arg(strings.ToLower(strings.TrimSpace(f.Tag)))+"::text)")
	}
	if f.IsPopular != nil {
		conds = append(conds, "b.is_popular = "+arg(*f.IsPopular))
	}
	if f.IsTrending != nil {
		conds = append(conds, "b.is_trending = "+arg(*f.IsTrending))
	}
	if f.Search != "" {
		p := arg("%" + escapeLike(f.Search) + "%")
		conds = append(conds, "(b.title ILIKE "+p+
			" OR b.content ILIKE "+p+
			" OR EXISTS (SELECT 1 FROM jsonb_array_elements_text(b.tags) t WHERE t ILIKE "+p+"))")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// escapeLike neutralizes LIKE metacharacters in a user-supplied search term
// so "100%" or "a_b" match literally instead of acting as wildcards.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

const blogColumns = `
	b.id, b.title, b.slug, b.sub_title, b.image, b.content, b.tags,
	b.meta_title, b.meta_description, b.meta_keywords,
	b.category_id, b.content_type, b.author_id, b.author_display_name,
	b.canonical_url, b.is_popular, b.is_trending, b.views, b.reading_time,
	b.faqs, b.status, b.published_at, b.created_at, b.updated_at,
	c.id, c.name, c.slug, c.description,
	u.id, u.display_name, u.email`

const blogJoins = `
	FROM blogs b
	JOIN categories c ON c.id = b.category_id
	JOIN users u ON u.id = b.author_id`

// scanBlog scans a joined row into a Blog with its category and author
// projections expanded. The jsonb columns come back as raw bytes.
func scanBlog(scanner interface{ Scan(...any) error }) (*models.Blog, error) {
	var (
		b        models.Blog
		tags     []byte
		keywords []byte
		faqs     []byte
		cat      models.CategoryRef
		author   models.AuthorRef
	)

	err := scanner.Scan(
		&b.ID, &b.Title, &b.Slug, &b.Subtitle, &b.Image, &b.Content, &tags,
		&b.MetaTitle, &b.MetaDescription, &keywords,
		&b.CategoryID, &b.ContentType, &b.AuthorID, &b.AuthorDisplayName,
		&b.CanonicalURL, &b.IsPopular, &b.IsTrending, &b.Views, &b.ReadingTime,
		&faqs, &b.Status, &b.PublishedAt, &b.CreatedAt, &b.UpdatedAt,
		&cat.ID, &cat.Name, &cat.Slug, &cat.Description,
		&author.ID, &author.Name, &author.Email,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &b.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := json.Unmarshal(keywords, &b.MetaKeywords); err != nil {
		return nil, fmt.Errorf("decode meta keywords: %w", err)
	}
	if err := json.Unmarshal(faqs, &b.FAQs); err != nil {
		return nil, fmt.Errorf("decode faqs: %w", err)
	}

	b.Category = &cat
	b.Author = &author
	return &b, nil
}

// List returns the page of blogs matching the filter and the total count of
// matches. Pages are 1-indexed.
func (s *BlogStore) List(filter ListFilter, page, limit int) ([]models.Blog, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	where, args := filter.where()

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM blogs b`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	query := `SELECT ` + blogColumns + blogJoins + where +
		` ORDER BY ` + filter.Sort.orderClause() +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	var items []models.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan blog: %w", err)
		}
		items = append(items, *b)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a blog by its UUID with category and author expanded.
// Returns nil if not found.
func (s *BlogStore) FindByID(id uuid.UUID) (*models.Blog, error) {
	row := s.db.QueryRow(`SELECT `+blogColumns+blogJoins+` WHERE b.id = $1`, id)
	b, err := scanBlog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by id: %w", err)
	}
	return b, nil
}

// FindBySlug retrieves a blog by its slug regardless of status; callers are
// responsible for visibility gating. Returns nil if not found.
func (s *BlogStore) FindBySlug(slug string) (*models.Blog, error) {
	row := s.db.QueryRow(`SELECT `+blogColumns+blogJoins+` WHERE b.slug = $1`, slug)
	b, err := scanBlog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog by slug: %w", err)
	}
	return b, nil
}

// SlugExists reports whether any blog other than exclude already uses the
// slug. Pass uuid.Nil to check against all blogs.
func (s *BlogStore) SlugExists(slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM blogs WHERE slug = $1 AND id <> $2)`,
		slug, exclude,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

// IncrementViews atomically bumps the view counter by one and returns the
// post-increment value. The single UPDATE makes concurrent reads safe: no
// read-modify-write cycle can lose an increment.
func (s *BlogStore) IncrementViews(id uuid.UUID) (int64, error) {
	var views int64
	err := s.db.QueryRow(
		`UPDATE blogs SET views = views + 1 WHERE id = $1 RETURNING views`,
		id,
	).Scan(&views)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("increment views: blog %s not found", id)
	}
	if err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return views, nil
}

// Create inserts a new blog and returns it with references expanded.
// Returns ErrSlugExists if the slug collides with an existing blog.
// If publishing, the published_at timestamp is set at insert time.
func (s *BlogStore) Create(b *models.Blog) (*models.Blog, error) {
	if b.Status == models.BlogStatusPublished && b.PublishedAt == nil {
		now := time.Now()
		b.PublishedAt = &now
	}

	tags, keywords, faqs, err := marshalBlogJSON(b)
	if err != nil {
		return nil, err
	}

	var id uuid.UUID
	err = s.db.QueryRow(`
		INSERT INTO blogs (title, slug, sub_title, image, content, tags,
		                   meta_title, meta_description, meta_keywords,
		                   category_id, content_type, author_id, author_display_name,
		                   canonical_url, is_popular, is_trending, reading_time,
		                   faqs, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id
	`, b.Title, b.Slug, b.Subtitle, b.Image, b.Content, tags,
		b.MetaTitle, b.MetaDescription, keywords,
		b.CategoryID, b.ContentType, b.AuthorID, b.AuthorDisplayName,
		b.CanonicalURL, b.IsPopular, b.IsTrending, b.ReadingTime,
		faqs, b.Status, b.PublishedAt,
	).Scan(&id)
	if isUniqueViolation(err) {
		return nil, ErrSlugExists
	}
	if err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}

	return s.FindByID(id)
}

// Update persists the full blog row and returns it with references expanded.
// The handler layer is responsible for merging partial updates into b first.
// Returns ErrSlugExists if a regenerated slug collides with another blog.
func (s *BlogStore) Update(b *models.Blog) (*models.Blog, error) {
	tags, keywords, faqs, err := marshalBlogJSON(b)
	if err != nil {
		return nil, err
	}

	res, err := s.db.Exec(`
		UPDATE blogs SET
			title = $1, slug = $2, sub_title = $3, image = $4, content = $5,
			tags = $6, meta_title = $7, meta_description = $8, meta_keywords = $9,
			category_id = $10, content_type = $11, author_display_name = $12,
			canonical_url = $13, is_popular = $14, is_trending = $15,
			reading_time = $16, faqs = $17, status = $18, published_at = $19,
			updated_at = NOW()
		WHERE id = $20
	`, b.Title, b.Slug, b.Subtitle, b.Image, b.Content,
		tags, b.MetaTitle, b.MetaDescription, keywords,
		b.CategoryID, b.ContentType, b.AuthorDisplayName,
		b.CanonicalURL, b.IsPopular, b.IsTrending,
		b.ReadingTime, faqs, b.Status, b.PublishedAt, b.ID,
	)
	if isUniqueViolation(err) {
		return nil, ErrSlugExists
	}
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}

	return s.FindByID(b.ID)
}

// Delete removes a blog by ID.
func (s *BlogStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	return nil
}

// marshalBlogJSON encodes the jsonb columns, defaulting nils to empty arrays
// so the stored shape is always a JSON array.
func marshalBlogJSON(b *models.Blog) (tags, keywords, faqs []byte, err error) {
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if b.MetaKeywords == nil {
		b.MetaKeywords = []string{}
	}
	if b.FAQs == nil {
		b.FAQs = []models.FAQ{}
	}

	if tags, err = json.Marshal(b.Tags); err != nil {
		return nil, nil, nil, fmt.Errorf("encode tags: %w", err)
	}
	if keywords, err = json.Marshal(b.MetaKeywords); err != nil {
		return nil, nil, nil, fmt.Errorf("encode meta keywords: %w", err)
	}
	if faqs, err = json.Marshal(b.FAQs); err != nil {
		return nil, nil, nil, fmt.Errorf("encode faqs: %w", err)
	}
	return tags, keywords, faqs, nil
}
