package listpager

import (
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

type (
	// keyTerm is a single comparison "Column Operator Value".
	keyTerm struct {
		Column   string
		Operator Operator
		Value    any
	}

	// keyConjunction is a list of terms joined by AND.
	keyConjunction []keyTerm

	// keyPredicate is a keyset seek condition in disjunctive normal form: a
	// list of conjunctions joined by OR.
	//
	// For the bounds [(C1, O1, V1), (C2, O2, V2)] it reads:
	//
	//	(C1 O1 V1) OR (C1 = V1 AND C2 O2 V2)
	keyPredicate []keyConjunction
)

// keysetOperators returns the comparison used on the sort column and on the
// identifier column.
//
// A "next" cursor names the first row of the page to return, so the id
// comparison includes it. A "prev" cursor names the first row of the page the
// client is leaving, so everything strictly before it qualifies.
func keysetOperators(order Direction, nav Navigation) (sortOp Operator, idOp Operator) {
	switch {
	case order == DirectionASC && nav == NavigationNext:
		return OperatorGT, OperatorGTE
	case order == DirectionDESC && nav == NavigationNext:
		return OperatorLT, OperatorLTE
	case order == DirectionASC && nav == NavigationPrev:
		return OperatorLT, OperatorLT
	case order == DirectionDESC && nav == NavigationPrev:
		return OperatorGT, OperatorGT
	default:
		panic(fmt.Errorf("cannot map order '%s' and navigation '%s' to keyset operators", order, nav))
	}
}

// newKeyPredicate builds the seek condition for resuming after (or before) the
// row identified by (idValue, sortValue).
func newKeyPredicate(
	sortColumn, idColumn string,
	sortValue, idValue any,
	order Direction,
	nav Navigation,
) keyPredicate {
	sortOp, idOp := keysetOperators(order, nav)
	if sortColumn == idColumn {
		return keyPredicate{{{Column: idColumn, Operator: idOp, Value: idValue}}}
	}

	return inflate([]keyTerm{
		{Column: sortColumn, Operator: sortOp, Value: sortValue},
		{Column: idColumn, Operator: idOp, Value: idValue},
	})
}

// inflate expands ordered bounds into DNF: the i-th conjunction pins every
// earlier column to equality and applies the i-th bound.
func inflate(bounds []keyTerm) keyPredicate {
	ret := make(keyPredicate, 0, len(bounds))
	for i, bound := range bounds {
		conj := lo.Map(bounds[:i], func(prior keyTerm, _ int) keyTerm {
			return keyTerm{Column: prior.Column, Operator: operatorEq, Value: prior.Value}
		})

		ret = append(ret, append(conj, bound))
	}

	return ret
}

// toGORMExpression converts the term into "Column Operator ?".
func (t keyTerm) toGORMExpression() clause.Expression {
	return clause.Expr{SQL: fmt.Sprintf("%s %s ?", t.Column, t.Operator), Vars: []any{t.Value}}
}

func (c keyConjunction) toGORMExpression() clause.Expression {
	switch len(c) {
	case 0:
		return nil
	case 1:
		return c[0].toGORMExpression()
	default:
		return clause.And(lo.Map(c, func(t keyTerm, _ int) clause.Expression {
			return t.toGORMExpression()
		})...)
	}
}

func (p keyPredicate) toGORMExpression() clause.Expression {
	exprs := lo.FilterMap(p, func(c keyConjunction, _ int) (clause.Expression, bool) {
		expr := c.toGORMExpression()
		return expr, expr != nil
	})

	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	default:
		return clause.Or(exprs...)
	}
}
