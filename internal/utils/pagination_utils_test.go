package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query          string
		expectedOffset int
		expectedLimit  int
	}{
		{"", 0, defaultLimit},
		{"?offset=10&limit=5", 10, 5},
		{"?offset=-3&limit=0", 0, defaultLimit},
		{"?offset=abc&limit=xyz", 0, defaultLimit},
		{"?limit=1000", 0, maxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/authors"+tt.query, nil)

			offset, limit := ParsePaginationParams(c)
			assert.Equal(t, tt.expectedOffset, offset)
			assert.Equal(t, tt.expectedLimit, limit)
		})
	}
}

func TestCreatePaginatedResponse(t *testing.T) {
	response := CreatePaginatedResponse([]string{"a", "b"}, 2, 2, 7)
	assert.Equal(t, []string{"a", "b"}, response.Records)
	pagination, ok := response.Pagination.(*schemas.Pagination)
	assert.True(t, ok)
	assert.Equal(t, 2, pagination.Offset)
	assert.Equal(t, 2, pagination.Limit)
	assert.Equal(t, 7, pagination.Records)
}
