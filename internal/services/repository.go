// Package services provides repository interfaces and SQLite implementations
// for data access. This layer bridges the raw SQLite store with the HTTP API,
// providing a clean abstraction over persistence operations.
package services

import "errors"

// ListOptions controls pagination and sorting for list queries.
type ListOptions struct {
	Limit     int    // Max results per page (default 50, max 1000).
	Offset    int    // Number of results to skip.
	SortBy    string // Column name (validated per-repository).
	SortOrder string // "asc" or "desc" (default "desc").
}

// ListResult wraps a paginated result set with a total count.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Sentinel errors returned by repositories.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidScore  = errors.New("rating must be between 0 and 10")
)

// normalizeListOptions applies defaults and caps to list options.
func normalizeListOptions(opts ListOptions) ListOptions {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	if opts.Limit > 1000 {
		opts.Limit = 1000
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.SortOrder != "asc" {
		opts.SortOrder = "desc"
	}
	return opts
}

// orderClause resolves opts.SortBy against the allowed columns, falling back
// to def, and always breaks ties on rowid in the same direction.
func orderClause(opts ListOptions, allowed map[string]string, def string) string {
	col := def
	if c, ok := allowed[opts.SortBy]; ok {
		col = c
	}
	dir := "DESC"
	if opts.SortOrder == "asc" {
		dir = "ASC"
	}
	return col + " " + dir + ", rowid " + dir
}
