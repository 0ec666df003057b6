package listpager

import (
	"context"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Offset reads page req.Page of req.Limit rows together with the total number
// of matching rows.
//
// The count and the slice are issued on one session sharing the filtered
// statement; ordering, preloads and windowing only apply to the slice.
func (l *Lister[T]) Offset(ctx context.Context, db *gorm.DB, req *PaginationRequest, baseURL string) (*PaginatedResponse[T], error) {
	order, err := orderings(req, l.caps)
	if err != nil {
		return nil, err
	}

	reader, err := newFieldReader(db, l.getters, l.caps)
	if err != nil {
		return nil, err
	}

	base := scope(db.WithContext(ctx).Model(new(T)), req, l.caps, reader).Session(&gorm.Session{})

	var total int64
	if err = base.Count(&total).Error; err != nil {
		return nil, &StorageError{Op: "count", Err: err}
	}

	skip := CalculateOffset(req.Page, req.Limit)
	rows := make([]T, 0)

	// Nothing to load past the last row.
	if total > 0 && int64(skip) < total {
		tx := applyIncludes(base, req.Include, l.caps)
		tx = order.Apply(tx).Limit(req.Limit).Offset(skip)
		if err = tx.Find(&rows).Error; err != nil {
			return nil, &StorageError{Op: "find", Err: err}
		}
	}

	totalPages := CalculateTotalPages(total, req.Limit)

	return &PaginatedResponse[T]{
		Data: rows,
		Meta: Meta{
			ItemsPerPage:    req.Limit,
			HasNextPage:     req.Page < totalPages,
			HasPreviousPage: req.Page > 1 && totalPages > 0,
			TotalItems:      lo.ToPtr(total),
			CurrentPage:     lo.ToPtr(req.Page),
			TotalPages:      lo.ToPtr(totalPages),
		},
		Links: offsetLinks(baseURL, req, totalPages),
	}, nil
}

// offsetLinks substitutes page in the request query. first is always
// present; last only when there is at least one page.
func offsetLinks(baseURL string, req *PaginationRequest, totalPages int) Links {
	ret := Links{First: pageLink(baseURL, req.Query, 1)}

	if totalPages == 0 {
		return ret
	}

	if req.Page > 1 {
		ret.Prev = pageLink(baseURL, req.Query, min(req.Page-1, totalPages))
	}
	if req.Page < totalPages {
		ret.Next = pageLink(baseURL, req.Query, req.Page+1)
	}
	ret.Last = pageLink(baseURL, req.Query, totalPages)

	return ret
}
