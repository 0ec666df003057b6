package listpager

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const _itemsURL = "http://api.test/items"

func newItemLister(t *testing.T, caps QueryCapabilities) *Lister[tItem] {
	t.Helper()

	l, err := NewLister[tItem](caps)
	require.NoError(t, err)

	return l
}

// walkNext follows next links from query until the last page and returns the
// ids of every page.
func walkNext(t *testing.T, run func(url.Values) *PaginatedResponse[tItem], query url.Values) [][]uint {
	t.Helper()

	var pages [][]uint
	for i := 0; ; i++ {
		require.Less(t, i, 100, "pagination does not terminate")

		resp := run(query)
		pages = append(pages, itemIDs(resp.Data))
		if !resp.Meta.HasNextPage {
			assert.Empty(t, resp.Links.Next)
			return pages
		}

		require.NotEmpty(t, resp.Links.Next)
		query = linkQuery(t, resp.Links.Next)
	}
}

func Test_Keyset_NoDuplicationOrLoss(t *testing.T) {
	tests := []struct {
		name  string
		sort  string
		order Direction
		limit int
		// score makes sort values collide across page boundaries.
		score func(i int) int
	}{
		{"id asc", "id", DirectionASC, 3, func(i int) int { return i }},
		{"id desc", "id", DirectionDESC, 4, func(i int) int { return i }},
		{"duplicate scores asc", "score", DirectionASC, 3, func(i int) int { return i % 3 }},
		{"duplicate scores desc", "score", DirectionDESC, 3, func(i int) int { return i % 3 }},
		{"single score value", "score", DirectionASC, 2, func(int) int { return 7 }},
		{"createdAt desc", "createdAt", DirectionDESC, 5, func(i int) int { return i }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newGORMSQLite(t)
			seedItems(t, db, 11, tt.score)
			l := newItemLister(t, _itemCaps)

			run := func(q url.Values) *PaginatedResponse[tItem] {
				resp, err := l.List(context.Background(), db, q, _itemsURL)
				require.NoError(t, err)
				return resp
			}

			// The first request has no cursor; start keyset mode with startId
			// pointing at the first row of the expected order.
			var expected []tItem
			column := _itemCaps.Column(tt.sort)
			require.NoError(t, db.Order(fmt.Sprintf("%s %s, id %s", column, tt.order, tt.order)).Find(&expected).Error)

			first := expected[0]
			query := url.Values{
				ParamLimit:   {fmt.Sprint(tt.limit)},
				ParamSort:    {tt.sort},
				ParamOrder:   {string(tt.order)},
				ParamStartID: {fmt.Sprint(first.ID)},
			}
			if tt.sort == "score" {
				query.Set(ParamStartValue, fmt.Sprint(first.Score))
			}
			if tt.sort == "createdAt" {
				query.Set(ParamStartValue, first.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
			}

			pages := walkNext(t, run, query)

			var got []uint
			for _, page := range pages {
				assert.LessOrEqual(t, len(page), tt.limit)
				got = append(got, page...)
			}
			assert.Equal(t, itemIDs(expected), got)
		})
	}
}

func Test_Keyset_CreatedAtDescScenario(t *testing.T) {
	db := newGORMSQLite(t)
	seedItems(t, db, 25, func(i int) int { return i })
	l := newItemLister(t, QueryCapabilities{
		AllowedFields: _itemCaps.AllowedFields,
		Columns:       _itemCaps.Columns,
		DefaultMode:   ModeKeyset,
	})
	ctx := context.Background()

	resp, err := l.List(ctx, db, url.Values{"limit": {"10"}, "sort": {"createdAt"}, "order": {"DESC"}}, _itemsURL)
	require.NoError(t, err)

	require.Len(t, resp.Data, 10)
	for i := 1; i < len(resp.Data); i++ {
		assert.False(t, resp.Data[i].CreatedAt.After(resp.Data[i-1].CreatedAt))
	}
	assert.True(t, resp.Meta.HasNextPage)
	assert.False(t, resp.Meta.HasPreviousPage)
	assert.Empty(t, resp.Links.Prev)
	require.NotEmpty(t, resp.Links.Next)
	assert.Nil(t, resp.Meta.TotalItems)

	next, err := l.List(ctx, db, linkQuery(t, resp.Links.Next), _itemsURL)
	require.NoError(t, err)

	require.Len(t, next.Data, 10)
	assert.Empty(t, lo.Intersect(itemIDs(resp.Data), itemIDs(next.Data)))
	assert.True(t, next.Data[0].CreatedAt.Before(resp.Data[9].CreatedAt))
	assert.True(t, next.Meta.HasNextPage)
	assert.True(t, next.Meta.HasPreviousPage)

	last, err := l.List(ctx, db, linkQuery(t, next.Links.Next), _itemsURL)
	require.NoError(t, err)
	assert.Len(t, last.Data, 5)
	assert.False(t, last.Meta.HasNextPage)
	assert.Empty(t, last.Links.Next)
}

func Test_Keyset_TimestampLikeText(t *testing.T) {
	db := newGORMSQLite(t)
	seedItems(t, db, 0, nil)

	const (
		day1 = "2024-01-01T00:00:00Z"
		day2 = "2024-01-02T00:00:00Z"
	)
	require.NoError(t, db.Create(&[]tItem{
		{ID: 1, Code: day1, CategoryID: 1, CreatedAt: _epoch},
		{ID: 2, Code: day1, CategoryID: 1, CreatedAt: _epoch},
		{ID: 3, Code: day2, CategoryID: 1, CreatedAt: _epoch.Add(24 * time.Hour)},
	}).Error)

	l := newItemLister(t, _itemCaps)
	run := func(q url.Values) *PaginatedResponse[tItem] {
		resp, err := l.List(context.Background(), db, q, _itemsURL)
		require.NoError(t, err)
		return resp
	}

	pages := walkNext(t, run, url.Values{"sort": {"code"}, "limit": {"1"}, "startId": {"1"}, "startValue": {day1}})
	assert.Equal(t, [][]uint{{1}, {2}, {3}}, pages)

	pages = walkNext(t, run, url.Values{"sort": {"code"}, "order": {"desc"}, "limit": {"2"}, "startId": {"3"}, "startValue": {day2}})
	assert.Equal(t, [][]uint{{3, 2}, {1}}, pages)

	assert.Equal(t, []uint{1, 2}, itemIDs(run(url.Values{"code": {day1}}).Data))
	assert.Equal(t, []uint{3}, itemIDs(run(url.Values{"createdAt": {"eq:" + day2}}).Data))
}

func Test_Keyset_Bidirectional(t *testing.T) {
	for _, order := range []Direction{DirectionASC, DirectionDESC} {
		t.Run(string(order), func(t *testing.T) {
			db := newGORMSQLite(t)
			seedItems(t, db, 10, func(i int) int { return i % 2 })
			l := newItemLister(t, QueryCapabilities{
				AllowedFields: _itemCaps.AllowedFields,
				Columns:       _itemCaps.Columns,
				DefaultMode:   ModeKeyset,
			})
			ctx := context.Background()
			list := func(q url.Values) *PaginatedResponse[tItem] {
				resp, err := l.List(ctx, db, q, _itemsURL)
				require.NoError(t, err)
				return resp
			}

			page1 := list(url.Values{"limit": {"3"}, "sort": {"score"}, "order": {string(order)}})
			page2 := list(linkQuery(t, page1.Links.Next))
			page3 := list(linkQuery(t, page2.Links.Next))
			require.Len(t, page3.Data, 3)

			back2 := list(linkQuery(t, page3.Links.Prev))
			assert.Equal(t, itemIDs(page2.Data), itemIDs(back2.Data))
			assert.True(t, back2.Meta.HasPreviousPage)
			assert.True(t, back2.Meta.HasNextPage)
			// A page reached backwards never links further back.
			assert.Empty(t, back2.Links.Prev)

			back1 := list(linkQuery(t, page2.Links.Prev))
			assert.Equal(t, itemIDs(page1.Data), itemIDs(back1.Data))
			assert.False(t, back1.Meta.HasPreviousPage)
			assert.Empty(t, back1.Links.Prev)

			// Going forward again from a page reached backwards.
			again2 := list(linkQuery(t, back1.Links.Next))
			assert.Equal(t, itemIDs(page2.Data), itemIDs(again2.Data))
			again3 := list(linkQuery(t, back2.Links.Next))
			assert.Equal(t, itemIDs(page3.Data), itemIDs(again3.Data))
		})
	}
}

func Test_Keyset_LinksPreserveQuery(t *testing.T) {
	db := newGORMSQLite(t)
	seedItems(t, db, 6, func(i int) int { return i })
	l := newItemLister(t, _itemCaps)

	resp, err := l.List(context.Background(), db, url.Values{
		"limit":   {"2"},
		"startId": {"1"},
		"search":  {"item"},
		"score":   {"gt:0"},
		"include": {"category"},
	}, _itemsURL)
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)
	require.NotNil(t, resp.Data[0].Category)
	assert.Equal(t, "general", resp.Data[0].Category.Name)

	next := linkQuery(t, resp.Links.Next)
	assert.Equal(t, "item", next.Get("search"))
	assert.Equal(t, "gt:0", next.Get("score"))
	assert.Equal(t, "category", next.Get("include"))
	assert.Equal(t, "2", next.Get("limit"))
	assert.Equal(t, "next", next.Get("direction"))
	assert.Empty(t, next.Get("startId"))
	assert.NotEmpty(t, next.Get("cursor"))

	prev := linkQuery(t, resp.Links.Prev)
	assert.Equal(t, "prev", prev.Get("direction"))
}

func Test_Keyset_CursorFromOtherSortRejected(t *testing.T) {
	db := newGORMSQLite(t)
	seedItems(t, db, 4, func(i int) int { return i })
	l := newItemLister(t, QueryCapabilities{
		AllowedFields: _itemCaps.AllowedFields,
		Columns:       _itemCaps.Columns,
		DefaultMode:   ModeKeyset,
	})

	resp, err := l.List(context.Background(), db, url.Values{"limit": {"2"}, "sort": {"score"}}, _itemsURL)
	require.NoError(t, err)

	q := linkQuery(t, resp.Links.Next)
	q.Set("sort", "code")
	_, err = l.List(context.Background(), db, q, _itemsURL)

	var cursorErr *InvalidCursorError
	require.ErrorAs(t, err, &cursorErr)
	assert.Equal(t, 400, StatusCode(err))
}

func Test_Keyset_QueryShape(t *testing.T) {
	cursorDesc := &KeysetCursor{ID: 7, Value: "2024-01-01T00:00:00Z", Sort: "createdAt", Order: DirectionDESC}
	cursorAsc := &KeysetCursor{ID: 7, Value: 7, Sort: "id", Order: DirectionASC}

	tests := []struct {
		name          string
		query         url.Values
		expectedQuery string
	}{
		{
			name:          "first page",
			query:         url.Values{"limit": {"3"}, "startId": {"1"}},
			expectedQuery: "^SELECT \\* FROM " + _q + "t_items" + _q + " WHERE id >= " + _ph + " ORDER BY id ASC LIMIT (?:4|" + _ph + ")$",
		},
		{
			name:  "next desc by createdAt",
			query: url.Values{"limit": {"3"}, "sort": {"createdAt"}, "order": {"DESC"}, "cursor": {cursorDesc.String()}},
			expectedQuery: "^SELECT \\* FROM " + _q + "t_items" + _q +
				" WHERE \\(created_at < " + _ph + " OR \\(created_at = " + _ph + " AND id <= " + _ph + "\\)\\)" +
				" ORDER BY created_at DESC, id DESC LIMIT (?:4|" + _ph + ")$",
		},
		{
			name: "prev desc by createdAt",
			query: url.Values{
				"limit": {"3"}, "sort": {"createdAt"}, "order": {"DESC"},
				"cursor": {cursorDesc.String()}, "direction": {"prev"},
			},
			expectedQuery: "^SELECT \\* FROM " + _q + "t_items" + _q +
				" WHERE \\(created_at > " + _ph + " OR \\(created_at = " + _ph + " AND id > " + _ph + "\\)\\)" +
				" ORDER BY created_at ASC, id ASC LIMIT (?:4|" + _ph + ")$",
		},
		{
			name:  "prev asc by id with filter",
			query: url.Values{"limit": {"3"}, "cursor": {cursorAsc.String()}, "direction": {"prev"}, "score": {"lt:5"}},
			expectedQuery: "^SELECT \\* FROM " + _q + "t_items" + _q +
				" WHERE score < " + _ph + " AND id < " + _ph + " ORDER BY id DESC LIMIT (?:4|" + _ph + ")$",
		},
	}

	for _, sqlMockFn := range _sqlMockFnList {
		for _, tt := range tests {
			dialect, db, dbMock, err := sqlMockFn()
			t.Run(fmt.Sprintf("%s %s", dialect, tt.name), func(t *testing.T) {
				require.NoError(t, err)

				dbMock.ExpectQuery(tt.expectedQuery).
					WillReturnRows(sqlmock.NewRows(_itemColumns))

				l := newItemLister(t, _itemCaps)
				resp, err := l.List(context.Background(), db, tt.query, _itemsURL)
				require.NoError(t, err)
				assert.Empty(t, resp.Data)

				assert.NoError(t, dbMock.ExpectationsWereMet())
			})
		}
	}
}

func Test_Keyset_StorageError(t *testing.T) {
	_, db, dbMock, err := newGORMPostgresMock()
	require.NoError(t, err)

	dbMock.ExpectQuery("^SELECT").WillReturnError(fmt.Errorf("connection reset"))

	l := newItemLister(t, _itemCaps)
	_, err = l.List(context.Background(), db, url.Values{"startId": {"1"}}, _itemsURL)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "find", storageErr.Op)
	assert.Equal(t, 500, StatusCode(err))
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
