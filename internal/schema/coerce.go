package schema

import (
	"encoding/json"
	"strconv"
)

// CoerceCell converts a stored cell back to the scalar it represents.
//
// Rules, checked in order:
//   - "TRUE" or "Yes"  -> true
//   - "FALSE" or "No"  -> false
//   - integer string   -> int64
//   - numeric string   -> float64
//   - anything else    -> the string unchanged
func CoerceCell(cell string) any {
	switch cell {
	case "TRUE", "Yes":
		return true
	case "FALSE", "No":
		return false
	}
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return cell
}

// EncodeCell converts an ingested scalar to its stored string form. This is
// the inverse direction of CoerceCell: booleans become "TRUE"/"FALSE" so
// they survive the round trip, numbers keep the caller's textual form when
// decoded as json.Number, and null becomes the empty cell.
func EncodeCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case json.Number:
		return val.String()
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		// Non-scalar input. The payload decoder rejects these before
		// rows are built; this is a safety net for direct callers.
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
