package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 5
	MaxPageSize     = 50
)

// PageParams reads the page and page_size query parameters, clamping
// page_size to MaxPageSize. Pages are 1-based.
func PageParams(ctx *gin.Context) (page int, pageSize int) {
	page, err := strconv.Atoi(ctx.Query("page"))

	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err = strconv.Atoi(ctx.Query("page_size"))

	if err != nil || pageSize < 1 {
		pageSize = DefaultPageSize
	}

	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return page, pageSize
}

// Paginate returns a gorm scope applying the given page window.
func Paginate(page int, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
