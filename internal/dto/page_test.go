package dto

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func link(page int) string { return "/api/recipes/?page=" + strconv.Itoa(page) }

func TestNewPage(t *testing.T) {
	tests := []struct {
		name     string
		req      PageRequest
		count    int64
		wantNext string
		wantPrev string
	}{
		{"first of many", PageRequest{Page: 1, Limit: 6}, 13, "/api/recipes/?page=2", ""},
		{"middle", PageRequest{Page: 2, Limit: 6}, 13, "/api/recipes/?page=3", "/api/recipes/?page=1"},
		{"last", PageRequest{Page: 3, Limit: 6}, 13, "", "/api/recipes/?page=2"},
		{"exact fit", PageRequest{Page: 2, Limit: 6}, 12, "", "/api/recipes/?page=1"},
		{"single page", PageRequest{Page: 1, Limit: 6}, 2, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage([]int{1}, tt.count, tt.req, link)
			assert.Equal(t, tt.count, p.Count)
			if tt.wantNext == "" {
				assert.Nil(t, p.Next)
			} else {
				require.NotNil(t, p.Next)
				assert.Equal(t, tt.wantNext, *p.Next)
			}
			if tt.wantPrev == "" {
				assert.Nil(t, p.Previous)
			} else {
				require.NotNil(t, p.Previous)
				assert.Equal(t, tt.wantPrev, *p.Previous)
			}
		})
	}
}

func TestNewPage_EmptyResultsEncodeAsList(t *testing.T) {
	p := NewPage[string](nil, 0, PageRequest{Page: 1, Limit: 6}, link)
	assert.NotNil(t, p.Results)
	assert.Empty(t, p.Results)
}

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 0, Limit: 6}.Offset())
	assert.Equal(t, 0, PageRequest{Page: 1, Limit: 6}.Offset())
	assert.Equal(t, 12, PageRequest{Page: 3, Limit: 6}.Offset())
}
