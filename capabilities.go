package listpager

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// QueryCapabilities declares what a list endpoint lets clients touch. Every
// sort, filter, search and include request is checked against it before a
// query is built; it is the only thing standing between query parameters and
// the SQL statement.
//
// Field and relation names are the API aliases. Columns and Relations map
// aliases to storage names when they differ.
type QueryCapabilities struct {
	// IDField is the alias of the unique identifier used as a tie-breaker.
	// Defaults to "id".
	IDField string
	// AllowedFields may be sorted and filtered on.
	AllowedFields []string
	// SearchableFields take part in the free-text search. Each must also be
	// an allowed field.
	SearchableFields []string
	// AllowedRelations may be requested through "include".
	AllowedRelations []string

	// Columns maps field aliases to (optionally qualified) column names.
	// Missing aliases map to themselves.
	Columns ColumnMapping
	// Relations maps relation aliases to GORM preload paths ("category" ->
	// "Category"). Missing aliases map to themselves.
	Relations map[string]string

	// DefaultSort and DefaultOrder apply when the request omits them.
	// They default to IDField and ASC.
	DefaultSort  string
	DefaultOrder Direction
	// DefaultLimit is the page size when the request omits it. Defaults to
	// DefaultLimit.
	DefaultLimit int
	// MaxLimit caps the page size. Defaults to MaxLimit.
	MaxLimit int

	// DefaultMode is used when the request names neither a page nor a
	// cursor. Defaults to ModeOffset.
	DefaultMode Mode

	// DropUnknownFilters ignores query parameters that are neither reserved
	// nor allowed fields instead of rejecting the request.
	DropUnknownFilters bool
}

// Validate checks the declaration itself: the id field must be allowed,
// searchable fields must be a subset of allowed fields and every column must
// be a safe identifier.
func (c QueryCapabilities) Validate() error {
	id := c.idField()
	if !slices.Contains(c.AllowedFields, id) {
		return fmt.Errorf("id field '%s' is not in allowed fields", id)
	}

	if missing, _ := lo.Difference(c.SearchableFields, c.AllowedFields); len(missing) > 0 {
		return fmt.Errorf("searchable fields are not allowed fields: %s", strings.Join(missing, ", "))
	}

	if c.DefaultSort != "" && !slices.Contains(c.AllowedFields, c.DefaultSort) {
		return fmt.Errorf("default sort '%s' is not in allowed fields", c.DefaultSort)
	}

	if c.DefaultMode != "" && c.DefaultMode != ModeOffset && c.DefaultMode != ModeKeyset {
		return fmt.Errorf("invalid default mode '%s'", c.DefaultMode)
	}

	if c.DefaultOrder != "" && !c.DefaultOrder.Valid() {
		return fmt.Errorf("invalid default order '%s'", c.DefaultOrder)
	}

	for _, field := range c.AllowedFields {
		if err := validateColumnName(c.Column(field)); err != nil {
			return fmt.Errorf("field '%s': %w", field, err)
		}
	}

	return nil
}

func (c QueryCapabilities) idField() string {
	if c.IDField == "" {
		return "id"
	}

	return c.IDField
}

func (c QueryCapabilities) defaultSort() string {
	if c.DefaultSort == "" {
		return c.idField()
	}

	return c.DefaultSort
}

func (c QueryCapabilities) defaultOrder() Direction {
	if c.DefaultOrder == "" {
		return DirectionASC
	}

	return c.DefaultOrder
}

func (c QueryCapabilities) defaultLimit() int {
	return NormalizeLimitMax(c.DefaultLimit, c.maxLimit())
}

func (c QueryCapabilities) maxLimit() int {
	if c.MaxLimit <= 0 {
		return MaxLimit
	}

	return c.MaxLimit
}

// Column resolves a field alias to its column name.
func (c QueryCapabilities) Column(field string) string {
	if column, ok := c.Columns[field]; ok && column != "" {
		return column
	}

	return field
}

// IDColumn is the column of the identifier field.
func (c QueryCapabilities) IDColumn() string {
	return c.Column(c.idField())
}

// Relation resolves a relation alias to its preload path.
func (c QueryCapabilities) Relation(alias string) string {
	if name, ok := c.Relations[alias]; ok && name != "" {
		return name
	}

	return alias
}

// IsAllowedField reports whether field may be sorted or filtered on.
func (c QueryCapabilities) IsAllowedField(field string) bool {
	return slices.Contains(c.AllowedFields, field)
}

// CheckField returns an *InvalidFieldError when field is not allowed.
func (c QueryCapabilities) CheckField(usage, field string) error {
	if c.IsAllowedField(field) {
		return nil
	}

	return &InvalidFieldError{
		Usage:   usage,
		Field:   field,
		Closest: closestAlias(field, c.AllowedFields),
		Allowed: c.AllowedFields,
	}
}

// CheckRelations returns an *InvalidRelationError listing every requested
// relation that is not allowed.
func (c QueryCapabilities) CheckRelations(requested []string) error {
	invalid := lo.Filter(requested, func(rel string, _ int) bool {
		return !slices.Contains(c.AllowedRelations, rel)
	})
	if len(invalid) == 0 {
		return nil
	}

	return &InvalidRelationError{Requested: invalid, Allowed: c.AllowedRelations}
}
