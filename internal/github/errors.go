package github

import "errors"

// Common GitHub API errors.
var (
	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned when authentication fails.
	ErrUnauthorized = errors.New("unauthorized: check GITHUB_TOKEN or PAT_TOKEN")
	// ErrForbidden is returned when authorization fails.
	ErrForbidden = errors.New("forbidden: token may lack the pull request or contents scope")
	// ErrConflict is returned when a resource already exists.
	ErrConflict = errors.New("conflict")
)
