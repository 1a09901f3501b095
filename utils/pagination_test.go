package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request, _ = http.NewRequest(http.MethodGet, "/?"+query, nil)
	return c
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		expectedPage int
		expectedSize int
	}{
		{"Defaults", "", 1, DefaultPageSize},
		{"Explicit values", "page=3&page_size=10", 3, 10},
		{"Zero page falls back", "page=0", 1, DefaultPageSize},
		{"Negative page falls back", "page=-2", 1, DefaultPageSize},
		{"Non-numeric page falls back", "page=abc", 1, DefaultPageSize},
		{"Oversized page size is capped", "page_size=5000", 1, MaxPageSize},
		{"Zero page size falls back", "page_size=0", 1, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePagination(contextWithQuery(tt.query))
			assert.Equal(t, tt.expectedPage, p.Page)
			assert.Equal(t, tt.expectedSize, p.PageSize)
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 20, Pagination{Page: 2, PageSize: 20}.Offset())
	assert.Equal(t, 45, Pagination{Page: 4, PageSize: 15}.Offset())
}

func TestParseOrdering(t *testing.T) {
	allowed := []string{"price", "created_at", "views"}

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"Empty falls back to default", "", "created_at DESC"},
		{"Ascending", "ordering=price", "price ASC"},
		{"Descending", "ordering=-price", "price DESC"},
		{"Unknown field falls back", "ordering=seller_id", "created_at DESC"},
		{"Unknown descending field falls back", "ordering=-seller_id", "created_at DESC"},
		{"Injection attempt falls back", "ordering=price;DROP TABLE products", "created_at DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOrdering(contextWithQuery(tt.query), allowed, "created_at DESC")
			assert.Equal(t, tt.expected, got)
		})
	}
}
