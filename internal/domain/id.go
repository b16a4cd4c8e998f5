package domain

import "strconv"

// CoerceID extracts a numeric identifier from a decoded JSON value. Pipedrive
// delivers identifiers inconsistently: as a bare number, a numeric string, or
// an object wrapping the number (e.g. a deal's person_id arrives as
// {"name": ..., "value": 42}). Extraction priority is a "value" field, then
// an "id" field, then the raw scalar itself. A value that cannot be coerced
// is excluded from consideration (ok=false), never an error.
func CoerceID(v any) (int64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case map[string]any:
		if inner, found := t["value"]; found {
			if id, ok := coerceScalar(inner); ok {
				return id, true
			}
		}
		if inner, found := t["id"]; found {
			if id, ok := coerceScalar(inner); ok {
				return id, true
			}
		}
		return 0, false
	default:
		return coerceScalar(v)
	}
}

func coerceScalar(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		id, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	default:
		return 0, false
	}
}
