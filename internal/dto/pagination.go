package dto

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListParams are the query parameters of the quote history endpoint.
type ListParams struct {
	Page     int
	PageSize int
	Offset   int
	Category string
}

func ParseListParams(c *gin.Context) ListParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || size < 1 {
		size = defaultPageSize
	}
	size = min(size, maxPageSize)

	return ListParams{
		Page:     page,
		PageSize: size,
		Offset:   (page - 1) * size,
		Category: c.Query("category"),
	}
}

func NewPagination(p ListParams, totalItems int) Pagination {
	pages := 0
	if totalItems > 0 {
		pages = int(math.Ceil(float64(totalItems) / float64(p.PageSize)))
	}
	return Pagination{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: totalItems,
		TotalPages: pages,
	}
}
