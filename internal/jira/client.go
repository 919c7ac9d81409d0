package jira

import (
	"context"
	"time"
)

// Config holds the authentication and connection settings for Jira Cloud.
type Config struct {
	BaseURL  string
	Email    string
	APIToken string

	// RequestTimeout bounds a single search request.
	RequestTimeout time.Duration
}

// Query describes one search against the Jira search API.
type Query struct {
	JQL    string
	Fields string
	Expand string

	// Limit is the page-size ceiling. Jira caps pages at 100 regardless.
	Limit int
}

// Searcher is the interface for the Jira search API.
type Searcher interface {
	Search(ctx context.Context, q Query, startAt int) (*SearchResponse, error)
}

// NewClient creates a new Jira Cloud client from the provided configuration.
func NewClient(cfg Config) Searcher {
	return newCloudClient(cfg)
}
