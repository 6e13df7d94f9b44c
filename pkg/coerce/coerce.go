package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// String accepts strings and byte slices. Numbers are not turned into strings.
// The result is NFC-normalized so length bounds count what a reader sees.
func String(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return norm.NFC.String(s), nil
	case []byte:
		return norm.NFC.String(string(s)), nil
	case json.RawMessage:
		var out string
		if err := json.Unmarshal(s, &out); err != nil {
			return "", newError(TypeString, v, err)
		}
		return norm.NFC.String(out), nil
	}
	return "", newError(TypeString, v, nil)
}

// Int accepts every integer width, floats without a fractional part,
// json.Number and decimal strings. Booleans are rejected.
func Int(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return uintToInt(v, uint64(n))
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return uintToInt(v, n)
	case float32:
		return floatToInt(v, float64(n))
	case float64:
		return floatToInt(v, n)
	case json.Number:
		return parseInt(v, string(n))
	case string:
		return parseInt(v, n)
	}
	return 0, newError(TypeInteger, v, nil)
}

func uintToInt(orig any, n uint64) (int64, error) {
	if n > math.MaxInt64 {
		return 0, newError(TypeInteger, orig, errOverflow)
	}
	return int64(n), nil
}

func floatToInt(orig any, f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, newError(TypeInteger, orig, errFraction)
	}
	if f >= 0x1p63 || f < -0x1p63 {
		return 0, newError(TypeInteger, orig, errOverflow)
	}
	return int64(f), nil
}

func parseInt(orig any, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// "5.0" is an integer written as a float.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, newError(TypeInteger, orig, err)
	}
	return floatToInt(orig, f)
}

// Float accepts every numeric kind, json.Number and decimal strings.
func Float(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return checkFinite(v, n)
	case float32:
		return checkFinite(v, float64(n))
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return parseFloat(v, string(n))
	case string:
		return parseFloat(v, n)
	}
	return 0, newError(TypeFloat, v, nil)
}

func parseFloat(orig any, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, newError(TypeFloat, orig, err)
	}
	return checkFinite(orig, f)
}

func checkFinite(orig any, f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, newError(TypeFloat, orig, errNotFinite)
	}
	return f, nil
}

// Bool accepts booleans, the words true/false/yes/no/on/off/1/0 in any case,
// and the integers 0 and 1.
func Bool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes", "on", "1", "t", "y":
			return true, nil
		case "false", "no", "off", "0", "f", "n":
			return false, nil
		}
	case json.Number:
		return Bool(string(b))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, err := Int(b)
		if err == nil && (n == 0 || n == 1) {
			return n == 1, nil
		}
	}
	return false, newError(TypeBoolean, v, nil)
}

// dateTimeLayouts are tried in order. Layouts without a zone are read as UTC.
var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// DateTime accepts time.Time, ISO-8601 date and date-time strings and Unix
// seconds. The result is always in UTC.
func DateTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case *time.Time:
		if t != nil {
			return t.UTC(), nil
		}
	case string:
		return parseDateTime(v, t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return unixSeconds(v, n)
		}
		f, err := t.Float64()
		if err != nil {
			return time.Time{}, newError(TypeDateTime, v, err)
		}
		return unixFloat(v, f)
	case float64:
		return unixFloat(v, t)
	case float32:
		return unixFloat(v, float64(t))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n, err := Int(t)
		if err != nil {
			return time.Time{}, newError(TypeDateTime, v, err)
		}
		return unixSeconds(v, n)
	}
	return time.Time{}, newError(TypeDateTime, v, nil)
}

func parseDateTime(orig any, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, newError(TypeDateTime, orig, lastErr)
}

// Unix seconds are accepted for years 0001 through 9999, the range RFC 3339
// can represent.
const (
	minUnix = -62135596800
	maxUnix = 253402300799
)

func unixSeconds(orig any, n int64) (time.Time, error) {
	if n < minUnix || n > maxUnix {
		return time.Time{}, newError(TypeDateTime, orig, errTimeRange)
	}
	return time.Unix(n, 0).UTC(), nil
}

func unixFloat(orig any, f float64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, newError(TypeDateTime, orig, errNotFinite)
	}
	if f < minUnix || f >= maxUnix+1 {
		return time.Time{}, newError(TypeDateTime, orig, errTimeRange)
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
}

// UUID accepts uuid.UUID values and their string forms.
func UUID(v any) (uuid.UUID, error) {
	switch u := v.(type) {
	case uuid.UUID:
		return u, nil
	case string:
		id, err := uuid.Parse(strings.TrimSpace(u))
		if err != nil {
			return uuid.Nil, newError(TypeUUID, v, err)
		}
		return id, nil
	case []byte:
		id, err := uuid.ParseBytes(u)
		if err != nil {
			return uuid.Nil, newError(TypeUUID, v, err)
		}
		return id, nil
	}
	return uuid.Nil, newError(TypeUUID, v, nil)
}

// Map accepts the map shapes produced by encoding/json and yaml.v3.
func Map(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return m, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, newError(TypeRecord, v, errNonStringKey)
			}
			out[key] = val
		}
		return out, nil
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, nil
	}
	return nil, newError(TypeRecord, v, nil)
}

// List accepts []any and typed slices of the common scalar and map kinds.
func List(v any) ([]any, error) {
	switch l := v.(type) {
	case []any:
		return l, nil
	case []map[string]any:
		return toAny(l), nil
	case []string:
		return toAny(l), nil
	case []int:
		return toAny(l), nil
	case []int64:
		return toAny(l), nil
	case []float64:
		return toAny(l), nil
	case []bool:
		return toAny(l), nil
	}
	return nil, newError(TypeList, v, nil)
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
