package listpager

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Reserved query parameter names.
const (
	ParamLimit      = "limit"
	ParamPage       = "page"
	ParamCursor     = "cursor"
	ParamStartID    = "startId"
	ParamStartValue = "startValue"
	ParamSort       = "sort"
	ParamOrder      = "order"
	ParamDirection  = "direction"
	ParamSearch     = "search"
	ParamInclude    = "include"
)

var _reservedParams = []string{
	ParamLimit, ParamPage, ParamCursor, ParamStartID, ParamStartValue,
	ParamSort, ParamOrder, ParamDirection, ParamSearch, ParamInclude,
}

// Navigation is the traversal direction of a keyset request.
type Navigation string

const (
	NavigationNext Navigation = "next"
	NavigationPrev Navigation = "prev"
)

func (n Navigation) Valid() bool {
	return n == NavigationNext || n == NavigationPrev
}

// Mode is the pagination strategy selected for a request.
type Mode string

const (
	ModeOffset Mode = "offset"
	ModeKeyset Mode = "keyset"
)

// FieldFilter is a validated filter on one allowed field.
type FieldFilter struct {
	Field    string
	Operator ComparisonOperator
}

// PaginationRequest is a validated list request. Build it with ParseRequest;
// a zero value is not usable.
type PaginationRequest struct {
	Limit     int
	Page      int
	Cursor    *KeysetCursor
	Sort      string
	Order     Direction
	Direction Navigation
	Search    string
	Include   []string
	Filters   []FieldFilter

	// Query holds the raw parameters the request was parsed from; links are
	// derived from it so that every other parameter survives navigation.
	Query url.Values

	mode           Mode
	rawCursorGiven bool
}

// Mode reports which pagination engine handles the request.
func (r *PaginationRequest) Mode() Mode {
	return r.mode
}

// HasCursor reports whether the client supplied a position (cursor or
// startId).
func (r *PaginationRequest) HasCursor() bool {
	return r.rawCursorGiven
}

// ParseRequest validates query against caps. It never touches storage: every
// client error is reported here.
func ParseRequest(query url.Values, caps QueryCapabilities) (*PaginationRequest, error) {
	req := &PaginationRequest{
		Query:     cloneValues(query),
		Direction: NavigationNext,
		Page:      1,
	}

	var err error
	if req.Limit, err = parseLimit(query.Get(ParamLimit), caps); err != nil {
		return nil, err
	}

	req.Sort = lo.Ternary(query.Get(ParamSort) != "", query.Get(ParamSort), caps.defaultSort())
	if err = caps.CheckField(ParamSort, req.Sort); err != nil {
		return nil, err
	}

	if req.Order, err = ParseDirection(query.Get(ParamOrder), caps.defaultOrder()); err != nil {
		return nil, err
	}

	if raw := query.Get(ParamDirection); raw != "" {
		req.Direction = Navigation(strings.ToLower(raw))
		if !req.Direction.Valid() {
			return nil, &InvalidParameterError{Param: ParamDirection, Reason: fmt.Sprintf("must be next or prev, got '%s'", raw)}
		}
	}

	req.Search = strings.TrimSpace(query.Get(ParamSearch))
	if req.Search != "" && len(caps.SearchableFields) == 0 {
		return nil, &InvalidFieldError{Usage: ParamSearch, Field: ParamSearch, Allowed: caps.SearchableFields}
	}

	if req.Include, err = parseInclude(query[ParamInclude], caps); err != nil {
		return nil, err
	}

	if req.Filters, err = parseFilters(query, caps); err != nil {
		return nil, err
	}

	if err = req.parsePosition(query, caps); err != nil {
		return nil, err
	}

	return req, nil
}

// parsePosition selects the pagination mode. A cursor or startId always wins
// keyset mode; combining it with page is rejected.
func (r *PaginationRequest) parsePosition(query url.Values, caps QueryCapabilities) error {
	rawCursor := query.Get(ParamCursor)
	rawStartID := query.Get(ParamStartID)
	rawPage := query.Get(ParamPage)

	if rawCursor != "" || rawStartID != "" {
		if rawPage != "" {
			return &InvalidParameterError{Param: ParamPage, Reason: "cannot be combined with cursor pagination"}
		}

		r.mode = ModeKeyset
		r.rawCursorGiven = true

		if rawCursor != "" {
			cursor, err := DecodeCursor(rawCursor)
			if err != nil {
				return err
			}
			if err = cursor.validate(r.Sort, r.Order); err != nil {
				return err
			}
			r.Cursor = cursor

			return nil
		}

		return r.parseLegacyStart(rawStartID, query.Get(ParamStartValue), caps)
	}

	// Endpoints that default to keyset mode start from the beginning of the
	// collection until the client asks for a page explicitly.
	if caps.DefaultMode == ModeKeyset && rawPage == "" {
		if r.Direction == NavigationPrev {
			return &InvalidParameterError{Param: ParamDirection, Reason: "prev requires a cursor"}
		}

		r.mode = ModeKeyset
		return nil
	}

	r.mode = ModeOffset
	if rawPage != "" {
		page, err := strconv.Atoi(rawPage)
		if err != nil || page < 1 {
			return &InvalidParameterError{Param: ParamPage, Reason: "must be a positive integer"}
		}
		if maxPage := MaxPage(r.Limit); page > maxPage {
			return &InvalidParameterError{Param: ParamPage, Reason: fmt.Sprintf("must be at most %d for limit %d", maxPage, r.Limit)}
		}
		r.Page = page
	}

	return nil
}

// parseLegacyStart turns startId/startValue into a cursor under the request's
// own ordering.
func (r *PaginationRequest) parseLegacyStart(rawID, rawValue string, caps QueryCapabilities) error {
	id := parseScalar(rawID)

	var value any
	switch {
	case r.Sort == caps.idField():
		value = id
	case rawValue != "":
		value = parseScalar(rawValue)
	default:
		return &InvalidParameterError{Param: ParamStartValue, Reason: fmt.Sprintf("is required when sorting by '%s'", r.Sort)}
	}

	r.Cursor = &KeysetCursor{ID: id, Value: value, Sort: r.Sort, Order: r.Order}

	return nil
}

func parseLimit(raw string, caps QueryCapabilities) (int, error) {
	if raw == "" {
		return caps.defaultLimit(), nil
	}

	maxLimit := caps.maxLimit()

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidParameterError{Param: ParamLimit, Reason: "must be an integer"}
	}
	if limit < 1 {
		return 0, &InvalidParameterError{Param: ParamLimit, Reason: fmt.Sprintf("must be between 1 and %d", maxLimit)}
	}

	return NormalizeLimitMax(limit, maxLimit), nil
}

func parseInclude(raw []string, caps QueryCapabilities) ([]string, error) {
	requested := lo.Uniq(lo.Compact(lo.FlatMap(raw, func(item string, _ int) []string {
		return lo.Map(strings.Split(item, ","), func(rel string, _ int) string {
			return strings.TrimSpace(rel)
		})
	})))
	if len(requested) == 0 {
		return nil, nil
	}

	if err := caps.CheckRelations(requested); err != nil {
		return nil, err
	}

	return requested, nil
}

func parseFilters(query url.Values, caps QueryCapabilities) ([]FieldFilter, error) {
	keys := lo.Keys(query)
	slices.Sort(keys)

	filters := make([]FieldFilter, 0, len(keys))
	for _, field := range keys {
		if slices.Contains(_reservedParams, field) {
			continue
		}

		if err := caps.CheckField("filter", field); err != nil {
			if caps.DropUnknownFilters {
				continue
			}

			return nil, err
		}

		for _, raw := range query[field] {
			op, err := ParseFilter(raw)
			if err != nil {
				var filterErr *InvalidFilterError
				if errors.As(err, &filterErr) {
					filterErr.Field = field
				}

				return nil, err
			}

			filters = append(filters, FieldFilter{Field: field, Operator: op})
		}
	}

	return filters, nil
}

// parseScalar reads a legacy start parameter as an integer when possible so
// that it compares numerically against integer keys.
func parseScalar(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}

	return raw
}

func cloneValues(v url.Values) url.Values {
	ret := make(url.Values, len(v))
	for key, values := range v {
		ret[key] = slices.Clone(values)
	}

	return ret
}
