package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/skill-swap-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}

// NewPaginationResponse fills the metadata for a total row count.
func NewPaginationResponse(params PaginationParams, total int64) PaginationResponse {
	pages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		pages++
	}
	return PaginationResponse{
		Page:  params.Page,
		Limit: params.Limit,
		Pages: pages,
		Total: total,
	}
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	offset := (page - 1) * limit

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}
