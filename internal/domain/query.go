package domain

import "strings"

// DestinationQuery lists destinations of one category within one location.
// Both fields are required; a query missing either is inactive.
type DestinationQuery struct {
	CategoryID string `json:"category_id"`
	LocationID int    `json:"location_id"`
}

// Valid reports whether the query can be sent to the catalog.
func (q DestinationQuery) Valid() bool {
	return strings.TrimSpace(q.CategoryID) != "" && q.LocationID > 0
}

// NewsQuery lists the news feed. The feed takes no filters, so the zero
// value is the only query and is always valid.
type NewsQuery struct{}

// Valid reports whether the query can be sent to the catalog.
func (NewsQuery) Valid() bool {
	return true
}

// SearchQuery is a free-text search over destinations.
type SearchQuery struct {
	Term string `json:"term"`
}

// Valid reports whether the query can be sent to the catalog.
func (q SearchQuery) Valid() bool {
	return strings.TrimSpace(q.Term) != ""
}

// Normalized trims surrounding whitespace so that "golfito " and
// "golfito" are the same query.
func (q SearchQuery) Normalized() SearchQuery {
	return SearchQuery{Term: strings.TrimSpace(q.Term)}
}
