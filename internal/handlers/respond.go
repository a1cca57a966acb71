// Package handlers contains the HTTP/JSON handlers for the Pressroom API.
// Every response wraps its payload in the {success, message, ...} envelope;
// list responses additionally carry totalPages/currentPage/totalBlogs.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// writeJSON serializes a payload with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// respond emits a success envelope merged with the given fields.
func respond(w http.ResponseWriter, status int, message string, fields map[string]any) {
	payload := map[string]any{"success": true}
	if message != "" {
		payload["message"] = message
	}
	for k, v := range fields {
		payload[k] = v
	}
	writeJSON(w, status, payload)
}

// respondError emits a failure envelope with the given message.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}

// respondInternal logs the underlying error and returns a generic 500.
// Internals never leak to the caller.
func respondInternal(w http.ResponseWriter, what string, err error) {
	slog.Error(what, "error", err)
	respondError(w, http.StatusInternalServerError, "An unexpected error occurred")
}

// pagination reads 1-indexed page and limit query parameters, applying
// defaults and the size cap.
func pagination(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// listMeta builds the pagination metadata attached to list responses.
func listMeta(total, page, limit int) map[string]any {
	totalPages := (total + limit - 1) / limit
	return map[string]any{
		"totalBlogs":  total,
		"totalPages":  totalPages,
		"currentPage": page,
	}
}
