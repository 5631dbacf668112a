package middlewares

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
)

// PaginationConfig holds configuration for query-string pagination
type PaginationConfig struct {
	// DefaultPageSize is the default number of items per page
	// Default: 20
	DefaultPageSize int

	// MaxPageSize is the maximum allowed page size
	// Default: 100
	MaxPageSize int

	// Logger for structured logging
	Logger *slog.Logger
}

// DefaultPaginationConfig returns sensible defaults for pagination
func DefaultPaginationConfig() *PaginationConfig {
	return &PaginationConfig{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		Logger:          slog.Default(),
	}
}

// PaginationParams holds pagination parameters
type PaginationParams struct {
	Page   int   `json:"page"`   // Current page number (1-indexed)
	Limit  int   `json:"limit"`  // Number of items per page
	Offset int   `json:"offset"` // Offset of the first item
	Total  int64 `json:"total"`  // Total number of items
	Pages  int   `json:"pages"`  // Total number of pages
}

// PaginationMeta contains pagination metadata for response
type PaginationMeta struct {
	CurrentPage  int   `json:"current_page"`
	PerPage      int   `json:"per_page"`
	TotalPages   int   `json:"total_pages"`
	TotalRecords int64 `json:"total_records"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
	NextPage     *int  `json:"next_page,omitempty"`
	PrevPage     *int  `json:"prev_page,omitempty"`
}

// ParsePagination extracts pagination parameters from the query string.
// Invalid values fall back to defaults; limit is capped at MaxPageSize.
func ParsePagination(r *http.Request, config *PaginationConfig) *PaginationParams {
	if config == nil {
		config = DefaultPaginationConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = 20
	}
	if config.MaxPageSize <= 0 {
		config.MaxPageSize = 100
	}

	query := r.URL.Query()

	page := 1
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		} else {
			logger.Debug("invalid page parameter", "value", pageStr)
		}
	}

	limit := config.DefaultPageSize
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		} else {
			logger.Debug("invalid limit parameter", "value", limitStr)
		}
	}

	if limit > config.MaxPageSize {
		logger.Debug("limit exceeds maximum, capping",
			"requested", limit,
			"maximum", config.MaxPageSize,
		)
		limit = config.MaxPageSize
	}

	// keeps page*limit within int
	if maxPage := math.MaxInt / limit; page > maxPage {
		logger.Debug("page exceeds maximum, capping", "requested", page, "maximum", maxPage)
		page = maxPage
	}

	return &PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// SetTotal sets the total count and calculates total pages
func (p *PaginationParams) SetTotal(total int64) {
	p.Total = total
	p.Pages = int(math.Ceil(float64(total) / float64(p.Limit)))
}

// Bounds returns the slice bounds of the current page within n items
func (p *PaginationParams) Bounds(n int) (start, end int) {
	start = max(0, min(p.Offset, n))
	end = max(start, min(p.Offset+p.Limit, n))
	return start, end
}

// BuildMeta creates pagination metadata for API response
func (p *PaginationParams) BuildMeta() *PaginationMeta {
	meta := &PaginationMeta{
		CurrentPage:  p.Page,
		PerPage:      p.Limit,
		TotalPages:   p.Pages,
		TotalRecords: p.Total,
		HasNext:      p.Page < p.Pages,
		HasPrev:      p.Page > 1,
	}

	if meta.HasNext {
		nextPage := p.Page + 1
		meta.NextPage = &nextPage
	}

	if meta.HasPrev {
		prevPage := p.Page - 1
		meta.PrevPage = &prevPage
	}

	return meta
}
