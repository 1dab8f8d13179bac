// Package payload reads loosely shaped JSON objects whose keys may arrive
// under several spellings.
package payload

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Fields is a decoded JSON object.
type Fields map[string]interface{}

// Keys lists the accepted spellings of one logical field, highest priority first.
type Keys []string

// Lookup returns the value of the first key present with a non-null value.
func (f Fields) Lookup(keys Keys) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := f[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether the key is present, even when its value is null.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String resolves keys to a string. Numbers and booleans are rendered in
// their JSON form; objects and arrays are treated as absent.
func (f Fields) String(keys Keys) (string, bool) {
	v, ok := f.Lookup(keys)
	if !ok {
		return "", false
	}

	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// StringPtr is String returning nil when the field is absent.
func (f Fields) StringPtr(keys Keys) *string {
	s, ok := f.String(keys)
	if !ok {
		return nil
	}
	return &s
}

// Int resolves keys to an integer that fits a 32-bit column. Numbers are
// truncated, numeric strings are parsed, and anything else, including values
// outside the int32 range, yields zero.
func (f Fields) Int(keys Keys) int {
	v, ok := f.Lookup(keys)
	if !ok {
		return 0
	}

	switch t := v.(type) {
	case float64:
		return int32OrZero(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int32OrZero(float64(n))
		}
		if fl, err := t.Float64(); err == nil {
			return int32OrZero(fl)
		}
		return 0
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 32)
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}

func int32OrZero(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Trunc(f)
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// Object returns the nested object stored under key. The second result is
// false when the key is absent or null; the third is false when the value is
// present but not an object.
func (f Fields) Object(key string) (Fields, bool, bool) {
	v, ok := f[key]
	if !ok || v == nil {
		return nil, false, true
	}
	obj, isObj := v.(map[string]interface{})
	if !isObj {
		return nil, true, false
	}
	return Fields(obj), true, true
}
