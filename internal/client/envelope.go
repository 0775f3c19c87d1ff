package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the wrapper every REST response shares.
type Envelope[T any] struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       T      `json:"data"`
}

// UnmarshalJSON also accepts "status" as the status code key.
func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var raw struct {
		StatusCode *int            `json:"statusCode"`
		Status     *int            `json:"status"`
		Message    string          `json:"message"`
		Data       json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	switch {
	case raw.StatusCode != nil:
		e.StatusCode = *raw.StatusCode
	case raw.Status != nil:
		e.StatusCode = *raw.Status
	}
	e.Message = raw.Message

	if isNull(raw.Data) {
		return nil
	}
	return json.Unmarshal(raw.Data, &e.Data)
}

// Page is the payload of every paginated list endpoint.
type Page[T any] struct {
	Content       []T  `json:"content"`
	PageNumber    int  `json:"pageNumber"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Last          bool `json:"last"`
}

// UnmarshalJSON also accepts currentPage, totalItems and isLast.
func (p *Page[T]) UnmarshalJSON(b []byte) error {
	var raw struct {
		Content       []T   `json:"content"`
		PageNumber    *int  `json:"pageNumber"`
		CurrentPage   *int  `json:"currentPage"`
		TotalElements *int  `json:"totalElements"`
		TotalItems    *int  `json:"totalItems"`
		TotalPages    int   `json:"totalPages"`
		Last          *bool `json:"last"`
		IsLast        *bool `json:"isLast"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	p.Content = raw.Content
	p.PageNumber = firstInt(raw.PageNumber, raw.CurrentPage)
	p.TotalElements = firstInt(raw.TotalElements, raw.TotalItems)
	p.TotalPages = raw.TotalPages
	switch {
	case raw.Last != nil:
		p.Last = *raw.Last
	case raw.IsLast != nil:
		p.Last = *raw.IsLast
	}
	return nil
}

// Validate checks the page invariants against the requested page size.
// A size of zero skips the length check.
func (p *Page[T]) Validate(size int) error {
	if size > 0 && len(p.Content) > size {
		return fmt.Errorf("page holds %d items, more than requested size %d", len(p.Content), size)
	}
	if p.TotalPages == 0 {
		if !p.Last {
			return fmt.Errorf("empty result must be the last page")
		}
		return nil
	}
	if p.Last != (p.PageNumber == p.TotalPages-1) {
		return fmt.Errorf("page %d of %d has last=%t", p.PageNumber, p.TotalPages, p.Last)
	}
	return nil
}

// singlePage wraps a complete result set as one page.
func singlePage[T any](items []T) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Content:       items,
		PageNumber:    0,
		TotalElements: len(items),
		TotalPages:    1,
		Last:          true,
	}
}

func firstInt(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

func isNull(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}
