package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	heap "github.com/jdziat/heap-go"
)

// propertyError reports a --prop flag that is not KEY=VALUE.
type propertyError struct {
	arg string
}

func (e *propertyError) Error() string {
	return fmt.Sprintf("heap: invalid property %q: want KEY=VALUE", e.arg)
}

// parseProperties turns KEY=VALUE arguments into properties. Values that parse
// as integers or finite floats are sent as numbers; wrap a value in double
// quotes to force a string. A repeated key keeps the last value.
func parseProperties(args []string) (heap.Properties, error) {
	if len(args) == 0 {
		return nil, nil
	}
	props := make(heap.Properties, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, &propertyError{arg: arg}
		}
		props[key] = parseValue(value)
	}
	return props, nil
}

func parseValue(s string) any {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return s
}

// parseTimestamp sends all-digit values as Unix milliseconds and everything
// else as a string for the client to validate.
func parseTimestamp(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}
