package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a default admin user and a starter category if no users exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	// Hash the default admin password.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@pressroom.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// A starter category so the editor can create a first post immediately.
	_, err = db.Exec(`
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO NOTHING
	`, "General", "general", "Uncategorized posts")
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@pressroom.local",
		"password", "admin",
	)

	return nil
}
