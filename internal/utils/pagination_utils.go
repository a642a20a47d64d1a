// package utils provides utility functions to support various operations within the application.
package utils

import (
	"strconv"

	"github.com/JaineelPandya/social-book/internal/schemas"
	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 24
	maxLimit     = 100
)

// ParsePaginationParams extracts the 'offset' and 'limit' parameters from the request's query parameters.
// It provides default values and ensures that the returned values are within bounds.
func ParsePaginationParams(ctx *gin.Context) (int, int) {
	offset, err := strconv.Atoi(ctx.DefaultQuery(OffsetParamKey, "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	limit, err := strconv.Atoi(ctx.DefaultQuery(LimitParamKey, strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return offset, limit
}

// CreatePaginatedResponse wraps the records of one page together with the pagination details.
func CreatePaginatedResponse(records interface{}, offset, limit, totalRecords int) *schemas.PaginatedResponse {
	return &schemas.PaginatedResponse{
		Records: records,
		Pagination: &schemas.Pagination{
			Offset:  offset,
			Limit:   limit,
			Records: totalRecords,
		},
	}
}
