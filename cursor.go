package listpager

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

var _encoder = base64.RawURLEncoding

// KeysetCursor is the payload behind an opaque keyset token: the identifier and
// sort value of the row to resume from, plus the ordering it was issued under.
type KeysetCursor struct {
	ID    any       `json:"id"`
	Value any       `json:"v"`
	Sort  string    `json:"s"`
	Order Direction `json:"o"`
}

// String - implements fmt.Stringer.
func (c *KeysetCursor) String() string {
	if c == nil {
		return ""
	}

	return EncodeToken(c)
}

// IsEmpty reports whether the cursor carries no position.
func (c *KeysetCursor) IsEmpty() bool {
	return c == nil || c.ID == nil
}

// validate checks that the cursor was issued for the given ordering. Reusing a
// cursor under another sort would silently compare against the wrong column.
func (c *KeysetCursor) validate(sort string, order Direction) error {
	if c.IsEmpty() {
		return &InvalidCursorError{Reason: "cursor has no identifier"}
	}

	if c.Sort != sort || c.Order != order {
		return &InvalidCursorError{
			Reason: fmt.Sprintf("cursor was issued for sort '%s %s', request uses '%s %s'", c.Sort, c.Order, sort, order),
		}
	}

	return nil
}

var _ fmt.Stringer = (*KeysetCursor)(nil)

// EncodeCursor returns the opaque token for c.
func EncodeCursor(c KeysetCursor) string {
	return EncodeToken(c)
}

// DecodeCursor parses a token produced by EncodeCursor. JSON numbers are
// restored as int64 when integral and float64 otherwise.
func DecodeCursor(token string) (*KeysetCursor, error) {
	var c KeysetCursor
	if err := DecodeToken(token, &c); err != nil {
		return nil, err
	}

	c.ID = normalizeJSONValue(c.ID)
	c.Value = normalizeJSONValue(c.Value)

	return &c, nil
}

// EncodeToken serializes v as compact JSON wrapped in URL-safe base64.
// A nil value encodes to the empty string.
//
// IMPORTANT:
// panics if v cannot be marshaled to JSON.
func EncodeToken(v any) string {
	if v == nil {
		return ""
	}

	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("cannot marshal cursor value: %w", err))
	}

	var buf bytes.Buffer
	if err = json.Compact(&buf, raw); err != nil {
		panic(fmt.Errorf("cannot compact cursor value: %w", err))
	}

	return _encoder.EncodeToString(buf.Bytes())
}

// DecodeToken is the inverse of EncodeToken. It fails with
// *InvalidCursorError for an empty token, invalid base64 or a payload that is
// not valid JSON for dst.
func DecodeToken(token string, dst any) error {
	if len(token) == 0 {
		return &InvalidCursorError{Reason: "empty token"}
	}

	raw, err := _encoder.DecodeString(token)
	if err != nil {
		return &InvalidCursorError{Reason: "failed to decode base64 encoded cursor", Err: err}
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err = decoder.Decode(dst); err != nil {
		return &InvalidCursorError{Reason: "failed to unmarshal json encoded cursor", Err: err}
	}
	if _, err = decoder.Token(); !errors.Is(err, io.EOF) {
		return &InvalidCursorError{Reason: "unexpected data after json encoded cursor"}
	}

	return nil
}

func normalizeJSONValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}

	if i, err := n.Int64(); err == nil {
		return i
	}

	if f, err := n.Float64(); err == nil && !math.IsInf(f, 0) {
		return f
	}

	return n.String()
}
