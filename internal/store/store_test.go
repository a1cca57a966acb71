// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pressroom/internal/database"
	"pressroom/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "pressroom")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "pressroom")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// seedAuthor creates a throwaway elevated user and registers cleanup.
func seedAuthor(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	email := "author-" + uuid.NewString()[:8] + "@test.local"
	u, err := NewUserStore(db).Create(email, "pw", "Test Author", models.RoleSubadmin)
	if err != nil {
		t.Fatalf("seed author: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// seedCategory creates a throwaway category and registers cleanup.
func seedCategory(t *testing.T, db *sql.DB) *models.Category {
	t.Helper()
	name := "Cat " + uuid.NewString()[:8]
	c, err := NewCategoryStore(db).Create(&models.Category{
		Name: name,
		Slug: "cat-" + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", c.ID) })
	return c
}

// newTestBlog builds a valid blog referencing the given author and category.
// Slug is randomized; cleanup is registered on the given slug.
func newTestBlog(t *testing.T, db *sql.DB, author *models.User, cat *models.Category) *models.Blog {
	t.Helper()
	slug := "test-blog-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanBlogs(t, db, slug) })
	return &models.Blog{
		Title:             "Test Blog",
		Slug:              slug,
		Image:             "https://assets.pressroom.local/img/" + slug + ".jpg",
		Content:           "<p>Test content</p>",
		Tags:              []string{"testing"},
		CategoryID:        cat.ID,
		ContentType:       models.SchemaBlogPosting,
		AuthorID:          author.ID,
		AuthorDisplayName: models.DefaultAuthorDisplayName,
		Status:            models.BlogStatusPublished,
		ReadingTime:       1,
	}
}

// cleanBlogs removes test blogs by slug. Call in t.Cleanup().
func cleanBlogs(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM blogs WHERE slug = $1", slug)
	}
}
