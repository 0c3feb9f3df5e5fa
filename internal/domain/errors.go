package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrBookNotFound indicates the requested volume does not exist
	ErrBookNotFound = errors.New("book not found")

	// ErrServerOffline indicates the catalog is unreachable
	ErrServerOffline = errors.New("catalog is unreachable")

	// ErrAuthFailed indicates the API key was rejected
	ErrAuthFailed = errors.New("api key is invalid")

	// ErrRateLimited indicates the catalog throttled the request
	ErrRateLimited = errors.New("catalog rate limit exceeded")

	// ErrStalePage indicates a next-page request was made for an offset the
	// pager has already moved past
	ErrStalePage = errors.New("page request is stale")
)
