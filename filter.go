package listpager

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

// ComparisonOperator is a parsed filter expression. The concrete variants are
// Eq, Lt, Gt, Like, Between, In and IsNull.
type ComparisonOperator interface {
	// Expression renders the comparison against column. Values are bound
	// through bind; a nil bind binds the raw strings.
	Expression(column string, bind Binder) clause.Expression
	// String renders the operator back to its wire format.
	String() string

	isComparisonOperator()
}

// Binder converts a raw filter value into the type of the filtered column.
type Binder func(raw string) any

func (b Binder) value(raw string) any {
	if b == nil {
		return raw
	}

	return b(raw)
}

type (
	Eq      struct{ Value string }
	Lt      struct{ Value string }
	Gt      struct{ Value string }
	Like    struct{ Pattern string }
	Between struct{ Min, Max string }
	In      struct{ Values []string }
	// IsNull matches NULL columns, or non-NULL ones when Negate is set.
	IsNull struct{ Negate bool }
)

// Filter keywords of the "operator:value" wire format.
const (
	filterEq      = "eq"
	filterLt      = "lt"
	filterGt      = "gt"
	filterLike    = "like"
	filterBetween = "between"
	filterIn      = "in"
	filterNull    = "null"
)

// ParseFilter parses "operator:value" or a bare value. Unknown operators and
// values without ':' fall back to equality against the whole raw string, so
// plain "field=value" filters keep working.
func ParseFilter(raw string) (ComparisonOperator, error) {
	keyword, value, found := strings.Cut(raw, ":")
	if !found {
		return Eq{Value: raw}, nil
	}

	switch keyword {
	case filterEq:
		return Eq{Value: value}, nil
	case filterLt:
		return Lt{Value: value}, nil
	case filterGt:
		return Gt{Value: value}, nil
	case filterLike:
		return Like{Pattern: value}, nil
	case filterBetween:
		parts := strings.Split(value, ",")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, &InvalidFilterError{Expression: raw, Reason: "between expects exactly two values 'min,max'"}
		}

		return Between{Min: parts[0], Max: parts[1]}, nil
	case filterIn:
		values := lo.Compact(strings.Split(value, ","))
		if len(values) == 0 {
			return nil, &InvalidFilterError{Expression: raw, Reason: "in expects at least one value"}
		}

		return In{Values: values}, nil
	case filterNull:
		if value == "" {
			return IsNull{}, nil
		}

		isNull, err := strconv.ParseBool(value)
		if err != nil {
			return nil, &InvalidFilterError{Expression: raw, Reason: "null expects true or false"}
		}

		return IsNull{Negate: !isNull}, nil
	default:
		return Eq{Value: raw}, nil
	}
}

func (Eq) isComparisonOperator()      {}
func (Lt) isComparisonOperator()      {}
func (Gt) isComparisonOperator()      {}
func (Like) isComparisonOperator()    {}
func (Between) isComparisonOperator() {}
func (In) isComparisonOperator()      {}
func (IsNull) isComparisonOperator()  {}

func (o Eq) Expression(column string, bind Binder) clause.Expression {
	return clause.Expr{SQL: fmt.Sprintf("%s = ?", column), Vars: []any{bind.value(o.Value)}}
}

func (o Lt) Expression(column string, bind Binder) clause.Expression {
	return clause.Expr{SQL: fmt.Sprintf("%s < ?", column), Vars: []any{bind.value(o.Value)}}
}

func (o Gt) Expression(column string, bind Binder) clause.Expression {
	return clause.Expr{SQL: fmt.Sprintf("%s > ?", column), Vars: []any{bind.value(o.Value)}}
}

// Expression uses the pattern verbatim when it already has wildcards and
// wraps it in '%' otherwise.
func (o Like) Expression(column string, _ Binder) clause.Expression {
	return clause.Expr{SQL: fmt.Sprintf("%s LIKE ?", column), Vars: []any{likePattern(o.Pattern)}}
}

func (o Between) Expression(column string, bind Binder) clause.Expression {
	return clause.Expr{
		SQL:  fmt.Sprintf("%s BETWEEN ? AND ?", column),
		Vars: []any{bind.value(o.Min), bind.value(o.Max)},
	}
}

func (o In) Expression(column string, bind Binder) clause.Expression {
	return clause.Expr{
		SQL:  fmt.Sprintf("%s IN ?", column),
		Vars: []any{lo.Map(o.Values, func(v string, _ int) any { return bind.value(v) })},
	}
}

func (o IsNull) Expression(column string, _ Binder) clause.Expression {
	if o.Negate {
		return clause.Expr{SQL: fmt.Sprintf("%s IS NOT NULL", column)}
	}

	return clause.Expr{SQL: fmt.Sprintf("%s IS NULL", column)}
}

func (o Eq) String() string      { return filterEq + ":" + o.Value }
func (o Lt) String() string      { return filterLt + ":" + o.Value }
func (o Gt) String() string      { return filterGt + ":" + o.Value }
func (o Like) String() string    { return filterLike + ":" + o.Pattern }
func (o Between) String() string { return filterBetween + ":" + o.Min + "," + o.Max }
func (o In) String() string      { return filterIn + ":" + strings.Join(o.Values, ",") }
func (o IsNull) String() string  { return filterNull + ":" + strconv.FormatBool(!o.Negate) }

func likePattern(p string) string {
	if strings.ContainsAny(p, "%_") {
		return p
	}

	return "%" + p + "%"
}

var (
	_ ComparisonOperator = Eq{}
	_ ComparisonOperator = Lt{}
	_ ComparisonOperator = Gt{}
	_ ComparisonOperator = Like{}
	_ ComparisonOperator = Between{}
	_ ComparisonOperator = In{}
	_ ComparisonOperator = IsNull{}
)
