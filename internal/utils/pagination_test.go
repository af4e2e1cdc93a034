package utils_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/softdesk-dev/softdesk/internal/utils"
	"github.com/stretchr/testify/assert"
)

func pageParamsFor(t *testing.T, query string) (int, int) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", "/?"+query, nil)

	return utils.PageParams(ctx)
}

func TestPageParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		page     int
		pageSize int
	}{
		{"defaults", "", 1, 5},
		{"explicit", "page=3&page_size=10", 3, 10},
		{"capped at max", "page_size=200", 1, 50},
		{"zero page", "page=0", 1, 5},
		{"negative page size", "page_size=-1", 1, 5},
		{"garbage values", "page=abc&page_size=xyz", 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pageSize := pageParamsFor(t, tt.query)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.pageSize, pageSize)
		})
	}
}
