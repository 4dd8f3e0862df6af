package handlers

import (
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// parsePagination coerces the page/limit query parameters to positive
// integers. Non-numeric or non-positive input silently falls back to the
// defaults.
func parsePagination(pageStr, limitStr string) (page, limit int) {
	page, limit = defaultPage, defaultLimit

	if v, err := strconv.Atoi(pageStr); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(limitStr); err == nil && v > 0 {
		limit = v
	}

	return page, limit
}
