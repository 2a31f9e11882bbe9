package lifecycle

import (
	"fmt"
	"unicode/utf8"
)

// FieldFromInput normalises a raw change event from a renderer into a
// FieldChanged intent. Raw UI event types never reach Reduce: anything that
// is not text becomes a FieldChanged carrying a decode error.
//
// Accepted inputs are string, []rune, []byte and fmt.Stringer. Text must be
// valid UTF-8.
func FieldFromInput(field string, raw any) FieldChanged {
	var value string
	switch v := raw.(type) {
	case string:
		value = v
	case []rune:
		value = string(v)
	case []byte:
		value = string(v)
	case fmt.Stringer:
		value = v.String()
	case nil:
		return FieldChanged{Field: field, Err: fmt.Errorf("field %q: empty change event", field)}
	default:
		return FieldChanged{Field: field, Err: fmt.Errorf("field %q: unsupported change event %T", field, raw)}
	}

	if !utf8.ValidString(value) {
		return FieldChanged{Field: field, Err: fmt.Errorf("field %q: value is not valid UTF-8", field)}
	}
	return FieldChanged{Field: field, Value: value}
}
