// Package pagination parses page/page_size query parameters.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultPageSize is used when page_size is absent or invalid.
	DefaultPageSize = 20
	// MaxPageSize caps page_size.
	MaxPageSize = 100
)

// Params is a 1-based page request.
type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// New clamps page and pageSize into valid ranges.
func New(page, pageSize int) Params {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Params{Page: page, PageSize: pageSize}
}

// FromQuery reads page and page_size from the request query.
func FromQuery(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, _ := strconv.Atoi(c.Query("page_size"))
	return New(page, pageSize)
}

// Offset returns the number of rows to skip.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the number of rows per page.
func (p Params) Limit() int {
	return p.PageSize
}
