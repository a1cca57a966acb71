// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors surfaced by stores so handlers can map them to specific
// HTTP responses. Everything else is an infrastructure failure.
var (
	// ErrSlugExists means an insert or update collided with the unique slug
	// index. The index, not the application pre-check, is the real guarantee:
	// two concurrent creates deriving the same slug cannot both succeed.
	ErrSlugExists = errors.New("slug already exists")

	// ErrCategoryInUse means a category still has blogs referencing it and
	// cannot be deleted.
	ErrCategoryInUse = errors.New("category is referenced by existing blogs")
)

// PostgreSQL error codes (https://www.postgresql.org/docs/current/errcodes-appendix.html).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
