package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/streamline-api/internal/constants"
)

// ListParams holds the optional cap/offset for owner-scoped listings.
// Limit 0 means "no cap".
type ListParams struct {
	Page   int
	Limit  int
	Offset int
}

// GetListParams extracts "limit" and "page" query parameters.
// defaultLimit applies when "limit" is absent; pass 0 for uncapped lists.
func GetListParams(c *gin.Context, defaultLimit int) ListParams {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = defaultLimit
	}
	if limit > constants.MaxPageSize {
		limit = constants.MaxPageSize
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}

	params := ListParams{Page: page, Limit: limit}
	if limit > 0 {
		params.Offset = (page - 1) * limit
	}
	return params
}
