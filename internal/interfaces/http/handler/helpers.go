package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// queryLimit reads an integer limit query parameter, falling back to a
// default when missing or unparsable. Clamping happens in the services.
func queryLimit(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return limit
}

// queryRegionID reads an optional region_id query parameter. It returns
// ok=false when the parameter is present but not an integer.
func queryRegionID(c *gin.Context) (*int64, bool) {
	raw := c.Query("region_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &id, true
}
