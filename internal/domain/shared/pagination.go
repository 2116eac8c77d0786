package shared

// Pagination is the list envelope the platform API attaches to every
// paginated collection. It is forwarded to clients as-is.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	Total      int64 `json:"total"`
}

// HasNext reports whether a next page exists. Clients disable their
// "next" control exactly when this is false.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrevious reports whether a previous page exists.
func (p Pagination) HasPrevious() bool {
	return p.Page > 1
}
