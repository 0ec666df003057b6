// Package listpager serves paginated, filtered and sorted reads of GORM models
// from URL query parameters.
//
// Overview
//
// listpager implements two pagination modes behind one entry point:
//   - Keyset: opaque cursors carrying the sort value and id of a boundary
//     row. Pages are read with comparison predicates, never counted, and stay
//     stable under concurrent inserts.
//   - Offset: page and limit with LIMIT/OFFSET and a total count. Useful
//     when clients need page numbers or totals.
//
// The mode is picked per request: a cursor (or the legacy startId/startValue
// pair) selects keyset, a page selects offset, and neither falls back to
// QueryCapabilities.DefaultMode.
//
// Key concepts
//   - QueryCapabilities: the per-entity allow-list of sortable, filterable and
//     searchable fields and includable relations.
//   - ParseRequest: turns url.Values into a validated PaginationRequest.
//     Every client error is reported before the database is touched.
//   - Filters: field=op:value expressions (eq, lt, gt, like, between, in,
//     null). A bare value means equality.
//   - Lister: runs a request against a *gorm.DB and returns a
//     PaginatedResponse with data, meta and links.
//   - Getters: optional extractors reading cursor values from loaded rows.
//     Fields without a getter are read through the GORM schema.
//
// Errors returned by List are typed; StatusCode and NewErrorResponse map
// them to HTTP responses without leaking storage failures.
package listpager
