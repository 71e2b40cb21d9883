package heap

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"time"
	"unicode/utf8"
)

// Limits documented by the Heap server-side API. Lengths are in characters.
const (
	MaxEventNameLength     = 1024
	MaxIdentityLength      = 255
	MaxPropertyKeyLength   = 1024
	MaxPropertyValueLength = 1024
)

// iso8601Pattern matches extended-format calendar dates with an optional
// time of day, fractional seconds and zone designator. Submatches: date,
// hour, minute, second, zone hour, zone minute.
var iso8601Pattern = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2})(?:T(\d{2}):(\d{2})(?::(\d{2})(?:\.\d+)?)?(?:Z|[+-](\d{2})(?::?(\d{2}))?)?)?$`,
)

// Validation rules
//
// Every validator is pure: it inspects its argument and returns an error, and
// the same input always produces the same error message.

// ValidateAppID returns ErrMissingAppID if the application ID is unset.
func ValidateAppID(appID string) error {
	if appID == "" {
		return ErrMissingAppID
	}
	return nil
}

// ValidateEventName checks that a server-side event name is present and
// within MaxEventNameLength characters.
func ValidateEventName(event string) error {
	if event == "" {
		return NewValidationError("event", "missing or empty event name", ErrMissingValue)
	}
	if n := utf8.RuneCountInString(event); n > MaxEventNameLength {
		return NewValidationError("event", tooLong("event name", n, MaxEventNameLength), ErrTooLong)
	}
	return nil
}

// ValidateIdentity checks an identity value and returns its string form.
// Strings, string-kinded named types and integers of any width are accepted.
func ValidateIdentity(identity any) (string, error) {
	s, ok := scalarString(identity)
	if !ok {
		return "", NewValidationError("identity",
			fmt.Sprintf("unsupported type for identity value %#v", identity), ErrUnsupportedType)
	}
	if n := utf8.RuneCountInString(s); n > MaxIdentityLength {
		return "", NewValidationError("identity", tooLong("identity", n, MaxIdentityLength), ErrTooLong)
	}
	return s, nil
}

// ValidateTimestamp normalizes an event timestamp for the wire.
//
// A time.Time becomes a string of Unix epoch milliseconds, an integer becomes
// its decimal string and an ISO-8601 string is passed through unchanged.
// Anything else fails with ErrInvalidFormat.
func ValidateTimestamp(ts any) (string, error) {
	switch t := ts.(type) {
	case time.Time:
		return strconv.FormatInt(t.UnixMilli(), 10), nil
	case *time.Time:
		if t != nil {
			return strconv.FormatInt(t.UnixMilli(), 10), nil
		}
	}

	if s, ok := integerString(ts); ok {
		return s, nil
	}

	if rv := reflect.ValueOf(ts); rv.Kind() == reflect.String {
		s := rv.String()
		if !isISO8601(s) {
			return "", NewValidationError("timestamp",
				fmt.Sprintf("timestamp %q is not in ISO-8601 format", s), ErrInvalidFormat)
		}
		return s, nil
	}

	return "", NewValidationError("timestamp",
		fmt.Sprintf("unsupported type for timestamp value %#v", ts), ErrInvalidFormat)
}

// ValidateIdempotencyKey accepts a string or an integer and returns it as a
// string.
func ValidateIdempotencyKey(key any) (string, error) {
	if s, ok := integerString(key); ok {
		return s, nil
	}
	if rv := reflect.ValueOf(key); rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return "", NewValidationError("idempotency_key",
		fmt.Sprintf("unsupported type for idempotency key value %#v", key), ErrInvalidFormat)
}

// scalarString stringifies the identity-like scalars: strings, string-kinded
// types and integers.
func scalarString(v any) (string, bool) {
	if s, ok := integerString(v); ok {
		return s, true
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// integerString formats any signed or unsigned integer kind.
func integerString(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true
	default:
		return "", false
	}
}

func isISO8601(s string) bool {
	m := iso8601Pattern.FindStringSubmatch(s)
	if m == nil {
		return false
	}
	// The pattern only checks shape; reject impossible values like
	// 2024-13-45 or 12:99.
	if _, err := time.Parse(time.DateOnly, m[1]); err != nil {
		return false
	}
	return inRange(m[2], 23) && inRange(m[3], 59) && inRange(m[4], 60) &&
		inRange(m[5], 23) && inRange(m[6], 59)
}

// inRange reports whether an optional two-digit field is at most limit.
func inRange(field string, limit int) bool {
	if field == "" {
		return true
	}
	n, err := strconv.Atoi(field)
	return err == nil && n <= limit
}

func tooLong(what string, n, limit int) string {
	return fmt.Sprintf("%s too long; %d is above the %d-character limit", what, n, limit)
}
