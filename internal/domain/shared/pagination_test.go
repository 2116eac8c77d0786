package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagination_HasNext(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		total   int
		hasNext bool
	}{
		{"first of many", 1, 5, true},
		{"middle", 3, 5, true},
		{"last page", 5, 5, false},
		{"beyond last", 6, 5, false},
		{"single page", 1, 1, false},
		{"empty collection", 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pagination{Page: tt.page, TotalPages: tt.total}
			assert.Equal(t, tt.hasNext, p.HasNext())
		})
	}
}

func TestPagination_HasPrevious(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		hasPrev bool
	}{
		{"first page", 1, false},
		{"second page", 2, true},
		{"zero page", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Pagination{Page: tt.page, TotalPages: 10}
			assert.Equal(t, tt.hasPrev, p.HasPrevious())
		})
	}
}
