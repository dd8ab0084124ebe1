package http

import (
	"net/http"
	"strconv"

	apperrors "github.com/ReawEiEi/hotel-booking-server/pkg/errors"
	"github.com/ReawEiEi/hotel-booking-server/pkg/model"
)

type PageLimiter interface {
	NormalizePaginationLimit(limit int) int
}

// ExtractPage reads the 1-based page and limit query parameters.
func ExtractPage(r *http.Request, limiter PageLimiter) (page int, limit int, err error) {
	query := r.URL.Query()

	page = 1
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		page = max(1, v)
	}

	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}
	limit = limiter.NormalizePaginationLimit(limit)

	return page, limit, nil
}

// BuildPagination returns the neighbouring pages given the total item count.
func BuildPagination(page, limit int, total int64) *model.Pagination {
	pagination := &model.Pagination{}
	if int64(page*limit) < total {
		pagination.Next = &model.PageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		pagination.Prev = &model.PageRef{Page: page - 1, Limit: limit}
	}
	return pagination
}
