package util

import (
	"math"
	"strconv"
)

const DefaultPageSize = 10

func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// Calculate normalizes page/size and returns the page used with its offset and limit.
func Calculate(page, size int) (p, offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = DefaultPageSize
	}
	// keeps (page-1)*size from overflowing
	if maxPage := math.MaxInt / size; page > maxPage {
		page = maxPage
	}
	return page, (page - 1) * size, size
}
