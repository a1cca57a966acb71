// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"pressroom/internal/models"
	"pressroom/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// IdentityKey is the context key for the resolved caller identity.
	IdentityKey contextKey = "identity"
)

// Authenticate resolves the bearer credential (cookie or Authorization
// header) to a caller identity and stores it in the request context.
// Absence of a valid credential yields an anonymous request, never an
// error — enforcement happens in RequireAuth / RequireRole.
func Authenticate(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				// Log-free fall-through: treat as anonymous.
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), IdentityKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects anonymous callers with 401.
// Must be applied after Authenticate in the middleware chain.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromCtx(r.Context()) == nil {
			writeDenied(w, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects callers whose role is not in the allowed set.
// Anonymous callers get 401; authenticated callers with an insufficient
// role get 403. Must be applied after Authenticate.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident := IdentityFromCtx(r.Context())
			if ident == nil {
				writeDenied(w, http.StatusUnauthorized, "Not authorized to access this route")
				return
			}
			if !allowed[models.Role(ident.Role)] {
				writeDenied(w, http.StatusForbidden, "User role '"+ident.Role+"' is not authorized to access this route")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireVerified rejects callers who logged in but haven't completed
// two-factor verification. Must be applied after RequireAuth.
func RequireVerified(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident := IdentityFromCtx(r.Context())
		if ident != nil && !ident.TwoFADone {
			writeDenied(w, http.StatusUnauthorized, "Two-factor verification required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IdentityFromCtx extracts the caller identity from the request context.
// Returns nil for anonymous callers.
func IdentityFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(IdentityKey).(*session.Data)
	return data
}

// IsElevated reports whether the identity carries an admin or subadmin role.
func IsElevated(ident *session.Data) bool {
	if ident == nil {
		return false
	}
	role := models.Role(ident.Role)
	return role == models.RoleAdmin || role == models.RoleSubadmin
}

// writeDenied emits the standard JSON error envelope for auth failures.
func writeDenied(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
