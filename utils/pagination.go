package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultPageSize is the page size used when none is requested
	DefaultPageSize = 20
	// MaxPageSize caps the requested page size
	MaxPageSize = 100
)

// Pagination holds the resolved page window for a list query
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Offset returns the row offset for the current page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePagination reads page/page_size query parameters, clamping them to
// sane bounds. Invalid values fall back to defaults rather than erroring.
func ParsePagination(c *gin.Context) Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return Pagination{Page: page, PageSize: pageSize}
}

// ParseOrdering resolves an `ordering` query parameter against a whitelist of
// sortable columns. A leading "-" requests descending order. Unknown fields
// fall back to the supplied default clause.
func ParseOrdering(c *gin.Context, allowed []string, defaultOrder string) string {
	ordering := c.Query("ordering")
	if ordering == "" {
		return defaultOrder
	}

	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")

	for _, a := range allowed {
		if field == a {
			if desc {
				return field + " DESC"
			}
			return field + " ASC"
		}
	}

	return defaultOrder
}
