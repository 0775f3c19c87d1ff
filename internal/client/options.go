package client

import (
	"net/url"
	"strconv"
)

// ListOptions configures list and query operations. Nil pointers and empty
// strings are left out of the request so the server applies its defaults.
type ListOptions struct {
	Page       *int
	Size       *int
	CategoryID *int64
	SortBy     string
	Ascending  *bool
	Algorithm  string
}

// Ptr returns a pointer to v, for filling ListOptions inline.
func Ptr[T any](v T) *T {
	return &v
}

// Paging is shorthand for ListOptions with only page and size set.
func Paging(page, size int) *ListOptions {
	return &ListOptions{Page: &page, Size: &size}
}

// Query encodes the options that were explicitly set.
func (o *ListOptions) Query() url.Values {
	q := url.Values{}
	if o == nil {
		return q
	}
	if o.Page != nil {
		q.Set("page", strconv.Itoa(*o.Page))
	}
	if o.Size != nil {
		q.Set("size", strconv.Itoa(*o.Size))
	}
	if o.CategoryID != nil {
		q.Set("categoryId", strconv.FormatInt(*o.CategoryID, 10))
	}
	if o.SortBy != "" {
		q.Set("sortBy", o.SortBy)
	}
	if o.Ascending != nil {
		q.Set("ascending", strconv.FormatBool(*o.Ascending))
	}
	if o.Algorithm != "" {
		q.Set("algorithm", o.Algorithm)
	}
	return q
}

// size returns the requested page size, or zero when unset.
func (o *ListOptions) size() int {
	if o == nil || o.Size == nil {
		return 0
	}
	return *o.Size
}
