package domain

// PageMeta describes how far a collection has been paged.
// CurrentPage is 0 until the first page has loaded.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// HasNext reports whether a further page exists after CurrentPage.
func (m PageMeta) HasNext() bool {
	return m.CurrentPage < m.TotalPages
}

// Page is one fetched batch of items plus its pagination metadata.
type Page[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"page"`
}

// EmptyPage returns the normalized form of an empty result set.
func EmptyPage[T any]() Page[T] {
	return Page[T]{
		Items: []T{},
		Meta:  PageMeta{CurrentPage: 1, TotalPages: 1},
	}
}

// Item is a content record with a stable identifier, used for
// deduplication and lookups within one result set.
type Item interface {
	ItemID() string
}
