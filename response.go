package listpager

// PaginatedResponse is the envelope returned by every list endpoint.
type PaginatedResponse[T any] struct {
	Data  []T   `json:"data"`
	Meta  Meta  `json:"meta"`
	Links Links `json:"links"`
}

// Meta describes the returned page. The total fields are only known in
// offset mode.
type Meta struct {
	ItemsPerPage    int    `json:"itemsPerPage"`
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	TotalItems      *int64 `json:"totalItems,omitempty"`
	CurrentPage     *int   `json:"currentPage,omitempty"`
	TotalPages      *int   `json:"totalPages,omitempty"`
}

// Links are navigation URLs. Empty links are omitted from JSON.
type Links struct {
	First string `json:"first,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Last  string `json:"last,omitempty"`
}

// Len returns the number of rows on the page; 0 for a nil response.
func (r *PaginatedResponse[T]) Len() int {
	if r == nil {
		return 0
	}

	return len(r.Data)
}
