package listpager

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Getters maps field aliases to value extractors. They are used to read the
// identifier and sort value of a row when building cursors.
//
//	listpager.Getters[ErrorCode]{
//		"id":        func(e ErrorCode) any { return e.ID },
//		"createdAt": func(e ErrorCode) any { return e.CreatedAt },
//	}
//
// Fields without a getter are read through the GORM schema of T.
type Getters[T any] map[string]func(T) any

var _schemaCache = &sync.Map{}

// fieldReader reads field values from rows of T.
type fieldReader[T any] struct {
	getters Getters[T]
	caps    QueryCapabilities
	schema  *schema.Schema
}

func newFieldReader[T any](db *gorm.DB, getters Getters[T], caps QueryCapabilities) (*fieldReader[T], error) {
	r := &fieldReader[T]{getters: getters, caps: caps}

	var namer schema.Namer = schema.NamingStrategy{}
	if db != nil && db.Config != nil && db.NamingStrategy != nil {
		namer = db.NamingStrategy
	}

	sch, err := schema.Parse(new(T), _schemaCache, namer)
	if err != nil {
		// Non-struct rows can still be served entirely by getters.
		if len(getters) == 0 {
			return nil, fmt.Errorf("cannot parse schema of %T: %w", *new(T), err)
		}

		return r, nil
	}
	r.schema = sch

	return r, nil
}

// value returns the value of field (an API alias) on row.
func (r *fieldReader[T]) value(ctx context.Context, row T, field string) (any, error) {
	if getter, ok := r.getters[field]; ok {
		return getter(row), nil
	}

	if r.schema == nil {
		return nil, fmt.Errorf("cannot find getter for field '%s'", field)
	}

	f := r.lookup(field)
	if f == nil {
		return nil, fmt.Errorf("cannot find field '%s' (column '%s') on %s", field, r.caps.Column(field), r.schema.Name)
	}

	v, _ := f.ValueOf(ctx, reflect.ValueOf(row))

	return v, nil
}

// lookup returns the schema field stored in the column of field, or nil.
func (r *fieldReader[T]) lookup(field string) *schema.Field {
	if r.schema == nil {
		return nil
	}

	column := r.caps.Column(field)
	if idx := strings.LastIndexByte(column, '.'); idx >= 0 {
		column = column[idx+1:]
	}
	column = strings.Trim(column, "`\"'")

	if f := r.schema.LookUpField(column); f != nil {
		return f
	}

	return r.schema.LookUpField(field)
}

// bind converts v, read from a cursor or a query string, into the type of
// field's column. RFC3339 text becomes time.Time only on time columns and
// numbers become text on text columns. Values of unknown fields pass through.
func (r *fieldReader[T]) bind(field string, v any) any {
	f := r.lookup(field)
	if f == nil || v == nil {
		return v
	}

	switch f.DataType {
	case schema.Time:
		return parseTimeValue(v)
	case schema.String:
		switch vt := v.(type) {
		case string:
			return vt
		case []byte:
			return string(vt)
		default:
			return fmt.Sprint(vt)
		}
	default:
		return v
	}
}

// binder returns the Binder of field's filter values.
func (r *fieldReader[T]) binder(field string) Binder {
	return func(raw string) any {
		return r.bind(field, raw)
	}
}

// parseTimeValue turns RFC3339 text back into time.Time. Other values pass
// through.
func parseTimeValue(v any) any {
	var raw []byte
	switch vt := v.(type) {
	case string:
		raw = []byte(vt)
	case []byte:
		raw = vt
	default:
		return v
	}

	var ts time.Time
	if err := ts.UnmarshalText(raw); err != nil {
		return v
	}

	return ts
}

// cursorFor builds the cursor that resumes at row.
func (r *fieldReader[T]) cursorFor(ctx context.Context, row T, sort string, order Direction) (*KeysetCursor, error) {
	id, err := r.value(ctx, row, r.caps.idField())
	if err != nil {
		return nil, err
	}

	value := id
	if sort != r.caps.idField() {
		if value, err = r.value(ctx, row, sort); err != nil {
			return nil, err
		}
	}

	return &KeysetCursor{ID: id, Value: value, Sort: sort, Order: order}, nil
}
