package listpager

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

// Reverse returns the opposite direction.
func (o Direction) Reverse() Direction {
	if o == DirectionDESC {
		return DirectionASC
	}

	return DirectionDESC
}

// ParseDirection accepts "asc"/"desc" in any case. An empty string yields def.
func ParseDirection(raw string, def Direction) (Direction, error) {
	if raw == "" {
		return def, nil
	}

	d := Direction(strings.ToUpper(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", &InvalidParameterError{Param: ParamOrder, Reason: fmt.Sprintf("must be ASC or DESC, got '%s'", raw)}
	}

	return d, nil
}

type (
	Orderings []OrderBy
	OrderBy   struct {
		Column    string
		Direction Direction
	}

	ColumnAlias = string

	// ColumnMapping maps external column aliases to fully qualified column names.
	// Use it when bare column names could cause an "ambiguous column name" error
	// or when the API name differs from the column ("createdAt" -> "created_at").
	ColumnMapping = map[ColumnAlias]string
)

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func validateColumnName(column string) error {
	if column == "" {
		return fmt.Errorf("empty column name")
	}

	// Guard against SQL injection by restricting allowed characters in column names.
	if !lo.Every(_availableColumnNameSymbols, []rune(column)) {
		return fmt.Errorf("column name contains forbidden symbols '%s'", column)
	}

	return nil
}

func (o OrderBy) validate() error {
	if !o.Direction.Valid() {
		return fmt.Errorf("invalid ordering direction '%s'", o.Direction)
	}

	return validateColumnName(o.Column)
}

// ToSQLSlice converts Orderings to a slice of strings in the form
// "<order_column> <order_direction>".
func (o Orderings) ToSQLSlice() []string {
	return lo.Map(o, func(ordering OrderBy, _ int) string {
		return fmt.Sprintf("%s %s", ordering.Column, ordering.Direction)
	})
}

// ToSQL converts Orderings to "a ASC, b DESC".
func (o Orderings) ToSQL() string {
	return strings.Join(o.ToSQLSlice(), ", ")
}

// Reverse flips every direction, keeping column order.
func (o Orderings) Reverse() Orderings {
	return lo.Map(o, func(ordering OrderBy, _ int) OrderBy {
		return OrderBy{Column: ordering.Column, Direction: ordering.Direction.Reverse()}
	})
}

// Apply applies the ordering to a gorm query.
func (o Orderings) Apply(db *gorm.DB) *gorm.DB {
	if len(o) == 0 {
		return db
	}

	return db.Order(o.ToSQL())
}

func (o Orderings) validate() error {
	if len(o) == 0 {
		return fmt.Errorf("empty ordering list")
	}

	for _, ordering := range o {
		if err := ordering.validate(); err != nil {
			return err
		}
	}

	return nil
}

// withTieBreaker orders by column then by idColumn in the same direction, so
// rows sharing a sort value still have a total order.
func withTieBreaker(column, idColumn string, direction Direction) Orderings {
	ret := Orderings{{Column: column, Direction: direction}}
	if column != idColumn {
		ret = append(ret, OrderBy{Column: idColumn, Direction: direction})
	}

	return ret
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		if dist < minDist {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}
