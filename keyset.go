package listpager

import (
	"context"
	"fmt"
	"slices"

	"gorm.io/gorm"
)

// Keyset reads the req.Limit rows following (or, for NavigationPrev,
// preceding) req.Cursor without counting the collection.
//
// One extra row is fetched to learn whether the traversal can continue. In the
// forward direction that row starts the next page and becomes the next
// cursor. Backward pages are read in reversed order and flipped before they
// are returned.
func (l *Lister[T]) Keyset(ctx context.Context, db *gorm.DB, req *PaginationRequest, baseURL string) (*PaginatedResponse[T], error) {
	order, err := orderings(req, l.caps)
	if err != nil {
		return nil, err
	}

	reader, err := newFieldReader(db, l.getters, l.caps)
	if err != nil {
		return nil, err
	}

	backward := req.Direction == NavigationPrev
	if backward && req.Cursor.IsEmpty() {
		return nil, &InvalidParameterError{Param: ParamDirection, Reason: "prev requires a cursor"}
	}

	tx := scope(db.WithContext(ctx).Model(new(T)), req, l.caps, reader)
	if !req.Cursor.IsEmpty() {
		pred := newKeyPredicate(
			l.caps.Column(req.Sort), l.caps.IDColumn(),
			reader.bind(req.Sort, req.Cursor.Value), reader.bind(l.caps.idField(), req.Cursor.ID),
			req.Order, req.Direction,
		)
		tx = tx.Clauses(pred.toGORMExpression())
	}
	if backward {
		order = order.Reverse()
	}
	tx = applyIncludes(tx, req.Include, l.caps)
	tx = order.Apply(tx).Limit(req.Limit + 1)

	rows := make([]T, 0, req.Limit+1)
	if err = tx.Find(&rows).Error; err != nil {
		return nil, &StorageError{Op: "find", Err: err}
	}

	hasMore := len(rows) > req.Limit
	var overflow T
	if hasMore {
		overflow = rows[req.Limit]
		rows = rows[:req.Limit]
	}
	if backward {
		slices.Reverse(rows)
	}

	resp := &PaginatedResponse[T]{
		Data: rows,
		Meta: Meta{ItemsPerPage: req.Limit},
	}

	if backward {
		// Rows remain before this page only when the overfetch found one. No
		// prev link is issued from a page reached backwards.
		resp.Meta.HasPreviousPage = hasMore

		// The page the client came from starts at the request cursor.
		resp.Meta.HasNextPage = true
		resp.Links.Next = cursorLink(baseURL, req.Query, req.Cursor, NavigationNext)

		return resp, nil
	}

	resp.Meta.HasNextPage = hasMore
	if hasMore {
		next, err := reader.cursorFor(ctx, overflow, req.Sort, req.Order)
		if err != nil {
			return nil, fmt.Errorf("cannot build next cursor: %w", err)
		}
		resp.Links.Next = cursorLink(baseURL, req.Query, next, NavigationNext)
	}

	resp.Meta.HasPreviousPage = req.HasCursor()
	if req.HasCursor() {
		prev := req.Cursor
		if len(rows) > 0 {
			if prev, err = reader.cursorFor(ctx, rows[0], req.Sort, req.Order); err != nil {
				return nil, fmt.Errorf("cannot build prev cursor: %w", err)
			}
		}
		resp.Links.Prev = cursorLink(baseURL, req.Query, prev, NavigationPrev)
	}

	return resp, nil
}
