package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto" // Import DTO for PaginationInfo
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
)

// NormalizePage clamps page and limit into the accepted range.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
// Offsets past math.MaxInt are clamped so huge page numbers yield an empty page.
func CalculateOffsetLimit(page, limit int) (offset uint64, size uint64) {
	page, limit = NormalizePage(page, limit)
	if page-1 > math.MaxInt/limit {
		return uint64(math.MaxInt), uint64(limit)
	}

	// 1-tabanlı sayfa numarasını 0-tabanlı offset'e çevir
	return uint64((page - 1) * limit), uint64(limit)
}

// TotalPages returns ceil(total/limit), zero when there are no items.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page should be the 1-based page number.
func NewPaginationInfo(total int64, page, limit int) *dto.PaginationInfo {
	page, limit = NormalizePage(page, limit)

	return &dto.PaginationInfo{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: TotalPages(total, limit),
	}
}

// ParsePaginationParams extracts and validates pagination parameters from the request
func ParsePaginationParams(c *gin.Context) (page, limit int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = DefaultPage
	}

	limit, err = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize)))
	if err != nil {
		limit = DefaultPageSize
	}

	return NormalizePage(page, limit)
}

// CalculateSliceIndices calculates the start and end indices for slicing an array for pagination
func CalculateSliceIndices(page, limit, totalItems int) (start, end int) {
	page, limit = NormalizePage(page, limit)
	if totalItems <= 0 || page-1 >= (totalItems+limit-1)/limit {
		return max(totalItems, 0), max(totalItems, 0)
	}

	start = (page - 1) * limit
	end = start + limit
	if end > totalItems {
		end = totalItems
	}

	return start, end
}
