package heap

import (
	"encoding/json"
	"fmt"
	"iter"
	"math"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"
)

// PropertyBag is anything that can enumerate key-value properties.
// Implementations should yield keys in a stable order so that validation
// errors are reproducible.
type PropertyBag interface {
	All() iter.Seq2[string, any]
}

// Properties is the canonical property bag. Values must be numbers or
// strings.
//
// Example:
//
//	client.Track(ctx, "purchase", "alice@example.com", heap.Properties{
//	    "sku":   "A-100",
//	    "total": 42.5,
//	})
type Properties map[string]any

// All yields the properties sorted by key.
func (p Properties) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		keys := make([]string, 0, len(p))
		for k := range p {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if !yield(k, p[k]) {
				return
			}
		}
	}
}

var _ PropertyBag = Properties(nil)

type property struct {
	key   string
	value any
}

// ValidateProperties checks a property bag and returns its normalized form.
//
// A nil bag (nil interface, nil map or nil pointer) is absent and yields
// (nil, nil). The bag must be a
// PropertyBag or a Go map; anything else fails with ErrNotIterable. Keys are
// stringified and limited to MaxPropertyKeyLength characters; two keys that
// stringify to the same name fail with ErrDuplicateKey. Values must be
// numeric or string-kinded; strings are limited to MaxPropertyValueLength
// characters.
func ValidateProperties(props any) (Properties, error) {
	if props == nil {
		return nil, nil
	}

	rv := reflect.ValueOf(props)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
	}

	var entries []property
	if bag, ok := props.(PropertyBag); ok {
		for k, v := range bag.All() {
			entries = append(entries, property{key: k, value: v})
		}
	} else {
		if rv.Kind() != reflect.Map {
			return nil, NewValidationError("properties", "properties object is not iterable", ErrNotIterable)
		}
		entries = make([]property, 0, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			entries = append(entries, property{
				key:   fmt.Sprint(it.Key().Interface()),
				value: it.Value().Interface(),
			})
		}
		slices.SortStableFunc(entries, func(a, b property) int {
			return strings.Compare(a.key, b.key)
		})
		// Map order is random, so collisions are reported before any value
		// is inspected.
		for i := 1; i < len(entries); i++ {
			if entries[i].key == entries[i-1].key {
				return nil, duplicateKey(entries[i].key)
			}
		}
	}

	out := make(Properties, len(entries))
	for _, e := range entries {
		if _, dup := out[e.key]; dup {
			return nil, duplicateKey(e.key)
		}
		if n := utf8.RuneCountInString(e.key); n > MaxPropertyKeyLength {
			return nil, NewValidationError("properties",
				tooLong("property name "+e.key, n, MaxPropertyKeyLength), ErrTooLong)
		}
		v, err := normalizePropertyValue(e.key, e.value)
		if err != nil {
			return nil, err
		}
		out[e.key] = v
	}
	return out, nil
}

func duplicateKey(key string) error {
	return NewValidationError("properties", "duplicate property name "+key, ErrDuplicateKey)
}

// normalizePropertyValue keeps numbers as they are and flattens string-kinded
// values to plain strings.
func normalizePropertyValue(key string, v any) (any, error) {
	if n, ok := v.(json.Number); ok {
		if _, err := n.Float64(); err != nil {
			return nil, NewValidationError("properties",
				fmt.Sprintf("property %s value %q is not a valid number", key, string(n)), ErrUnsupportedType)
		}
		return n, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v, nil
	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, NewValidationError("properties",
				fmt.Sprintf("property %s value %v is not a finite number", key, f), ErrUnsupportedType)
		}
		return v, nil
	case reflect.String:
		s := rv.String()
		if n := utf8.RuneCountInString(s); n > MaxPropertyValueLength {
			return nil, NewValidationError("properties",
				tooLong(fmt.Sprintf("property %s value %q", key, s), n, MaxPropertyValueLength), ErrTooLong)
		}
		return s, nil
	default:
		return nil, NewValidationError("properties",
			fmt.Sprintf("unsupported type for property %s value %#v", key, v), ErrUnsupportedType)
	}
}
