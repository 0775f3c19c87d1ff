package client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_StatusAliases(t *testing.T) {
	var a Envelope[User]
	require.NoError(t, json.Unmarshal([]byte(`{"statusCode":201,"message":"created","data":{"id":4}}`), &a))
	assert.Equal(t, 201, a.StatusCode)
	assert.Equal(t, "created", a.Message)
	assert.Equal(t, int64(4), a.Data.ID)

	var b Envelope[User]
	require.NoError(t, json.Unmarshal([]byte(`{"status":200,"message":"ok","data":null}`), &b))
	assert.Equal(t, 200, b.StatusCode)
	assert.Zero(t, b.Data.ID)
}

func TestPage_BackendKeys(t *testing.T) {
	var p Page[Product]
	err := json.Unmarshal([]byte(`{"content":[{"id":1}],"currentPage":2,"totalItems":21,"totalPages":3,"isLast":true}`), &p)
	require.NoError(t, err)

	assert.Equal(t, 2, p.PageNumber)
	assert.Equal(t, 21, p.TotalElements)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.Last)
	require.Len(t, p.Content, 1)

	// Encoding always uses the primary names.
	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[{"id":1,"name":"","price":0,"quantity":0,"categoryName":""}],"pageNumber":2,"totalElements":21,"totalPages":3,"last":true}`, string(out))
}

func TestPage_Validate(t *testing.T) {
	items := []int{1, 2, 3}

	tests := []struct {
		name    string
		page    Page[int]
		size    int
		wantErr bool
	}{
		{"last page", Page[int]{Content: items, PageNumber: 1, TotalPages: 2, Last: true}, 5, false},
		{"middle page", Page[int]{Content: items, PageNumber: 0, TotalPages: 2, Last: false}, 3, false},
		{"empty result", Page[int]{TotalPages: 0, Last: true}, 10, false},
		{"empty but not last", Page[int]{TotalPages: 0, Last: false}, 10, true},
		{"oversized", Page[int]{Content: items, PageNumber: 0, TotalPages: 1, Last: true}, 2, true},
		{"last flag wrong", Page[int]{Content: items, PageNumber: 0, TotalPages: 2, Last: true}, 5, true},
		{"size unknown", Page[int]{Content: items, PageNumber: 0, TotalPages: 1, Last: true}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.page.Validate(tt.size)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"2026-01-19T10:30:00"`, time.Date(2026, 1, 19, 10, 30, 0, 0, time.UTC)},
		{`"2026-01-19T10:30:00.123"`, time.Date(2026, 1, 19, 10, 30, 0, 123000000, time.UTC)},
		{`"2026-01-19T10:30:00Z"`, time.Date(2026, 1, 19, 10, 30, 0, 0, time.UTC)},
		{`null`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestRole(t *testing.T) {
	tests := []struct {
		role      Role
		known     bool
		dashboard string
	}{
		{RoleAdmin, true, "admin"},
		{"vendor", true, "vendor"},
		{" Customer ", true, "customer"},
		{"SUPPORT", false, "customer"},
		{"", false, "customer"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.known, tt.role.Known())
			assert.Equal(t, tt.dashboard, tt.role.Dashboard())
		})
	}
}

func TestListOptions_Query(t *testing.T) {
	var nilOpts *ListOptions
	assert.Empty(t, nilOpts.Query())
	assert.Zero(t, nilOpts.size())

	assert.Equal(t, "page=3&size=7", Paging(3, 7).Query().Encode())
	assert.Equal(t, 7, Paging(3, 7).size())
}
