// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"pressroom/internal/cache"
	"pressroom/internal/database"
	"pressroom/internal/middleware"
	"pressroom/internal/models"
	"pressroom/internal/session"
	"pressroom/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "pressroom")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "pressroom")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "feed:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Valkey     *redis.Client
	Sessions   *session.Store
	Blogs      *store.BlogStore
	Categories *store.CategoryStore
	Users      *store.UserStore
	Feeds      *cache.ResponseCache
	BlogsH     *Blogs
	CatsH      *Categories
	AuthH      *Auth
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	sessions := session.NewStore(vk, false)
	blogStore := store.NewBlogStore(db)
	catStore := store.NewCategoryStore(db)
	userStore := store.NewUserStore(db)
	feeds := cache.NewResponseCache(vk, 1*time.Minute)

	return &testEnv{
		DB:         db,
		Valkey:     vk,
		Sessions:   sessions,
		Blogs:      blogStore,
		Categories: catStore,
		Users:      userStore,
		Feeds:      feeds,
		BlogsH:     NewBlogs(blogStore, catStore, nil, feeds, testAssetHost),
		CatsH:      NewCategories(catStore, feeds),
		AuthH:      NewAuth(sessions, userStore),
	}
}

// testIdentity creates session data for injection into request contexts.
func testIdentity(userID uuid.UUID, role string) *session.Data {
	return &session.Data{
		UserID:      userID,
		Email:       role + "@test.local",
		DisplayName: "Test User",
		Role:        role,
		TwoFADone:   true,
	}
}

// withIdentity attaches a caller identity to the request.
func withIdentity(r *http.Request, data *session.Data) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.IdentityKey, data))
}

// withURLParam adds a chi URL parameter to a request.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// seedAuthor creates a test user to act as blog author.
func seedAuthor(t *testing.T, env *testEnv, role models.Role) *models.User {
	t.Helper()
	email := "author-" + uuid.NewString()[:8] + "@test.local"
	u, err := env.Users.Create(email, "secret123", "Test Author", role)
	if err != nil {
		t.Fatalf("seed author: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM blogs WHERE author_id = $1", u.ID)
		env.DB.Exec("DELETE FROM users WHERE id = $1", u.ID)
	})
	return u
}

// seedCategory creates a test category.
func seedCategory(t *testing.T, env *testEnv, name string) *models.Category {
	t.Helper()
	c, err := env.Categories.Create(&models.Category{
		Name: name,
		Slug: "test-" + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM blogs WHERE category_id = $1", c.ID)
		env.DB.Exec("DELETE FROM categories WHERE id = $1", c.ID)
	})
	return c
}

// cleanBlogs removes test blogs by slug.
func cleanBlogs(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, s := range slugs {
		db.Exec("DELETE FROM blogs WHERE slug = $1", s)
	}
}
