package listpager

import (
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// valueBinder converts raw filter values into the type of a field's column.
type valueBinder interface {
	binder(field string) Binder
}

// applyFilters AND-s every field filter onto db.
func applyFilters(db *gorm.DB, filters []FieldFilter, caps QueryCapabilities, values valueBinder) *gorm.DB {
	if len(filters) == 0 {
		return db
	}

	exprs := lo.Map(filters, func(f FieldFilter, _ int) clause.Expression {
		return f.Operator.Expression(caps.Column(f.Field), values.binder(f.Field))
	})

	return db.Clauses(clause.And(exprs...))
}

// applySearch adds "(f1 LIKE ? OR f2 LIKE ? ...)" over the searchable fields.
// Combined with filters the statement reads (filters) AND (search).
func applySearch(db *gorm.DB, search string, caps QueryCapabilities) *gorm.DB {
	if search == "" || len(caps.SearchableFields) == 0 {
		return db
	}

	pattern := "%" + search + "%"
	exprs := lo.Map(caps.SearchableFields, func(field string, _ int) clause.Expression {
		return clause.Expr{SQL: fmt.Sprintf("%s LIKE ?", caps.Column(field)), Vars: []any{pattern}}
	})

	// A single-element OR would be joined to the other conditions with OR.
	if len(exprs) == 1 {
		return db.Clauses(exprs[0])
	}

	return db.Clauses(clause.Or(exprs...))
}

// applyIncludes preloads every requested relation.
func applyIncludes(db *gorm.DB, include []string, caps QueryCapabilities) *gorm.DB {
	for _, rel := range include {
		db = db.Preload(caps.Relation(rel))
	}

	return db
}

// scope applies the conditions shared by both engines: filters and search.
// Includes, ordering and windowing are applied by each engine to the
// statement that loads rows.
func scope(db *gorm.DB, req *PaginationRequest, caps QueryCapabilities, values valueBinder) *gorm.DB {
	db = applyFilters(db, req.Filters, caps, values)

	return applySearch(db, req.Search, caps)
}

// orderings returns the validated total order for the request: the sort
// column followed by the id column as a tie-breaker.
func orderings(req *PaginationRequest, caps QueryCapabilities) (Orderings, error) {
	ret := withTieBreaker(caps.Column(req.Sort), caps.IDColumn(), req.Order)
	if err := ret.validate(); err != nil {
		return nil, fmt.Errorf("cannot order by '%s': %w", req.Sort, err)
	}

	return ret, nil
}
