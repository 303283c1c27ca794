package sheetmerge

import (
	"bytes"
	"encoding/json"
	"strconv"

	gyaml "github.com/goccy/go-yaml"
	"github.com/mohae/deepcopy"
)

// Clone returns a deep copy of a document tree.
func Clone(doc any) any {
	if doc == nil {
		return nil
	}
	return deepcopy.Copy(doc)
}

// strictEqual compares a document value with a proposed value without
// coercion: "5" and 5 differ. Numbers of any representation compare by
// value. Containers never equal anything, so replacing one always counts as
// a change.
func strictEqual(a, b any) bool {
	if an, ok := asNumber(a); ok {
		bn, ok := asNumber(b)
		return ok && an == bn
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint:
		return float64(n), true
	}
	return 0, false
}

// isContainer reports whether v is a mapping or a sequence.
func isContainer(v any) bool {
	switch v.(type) {
	case gyaml.MapSlice, []any:
		return true
	}
	return false
}

// FormatValue renders a value as a JSON literal for change listings.
// An undefined value renders as "undefined".
func FormatValue(v any, defined bool) string {
	if !defined {
		return "undefined"
	}
	var b bytes.Buffer
	enc := &docEncoder{buf: &b}
	if err := enc.encode(v); err != nil {
		return "<invalid>"
	}
	return b.String()
}
