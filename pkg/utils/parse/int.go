// ABOUTME: Utility functions for parsing integers from form values
// ABOUTME: Provides lenient parsing that yields zero instead of errors

package parse

import (
	"strconv"
	"strings"
)

// IntOrZero safely parses an integer from a string, returning 0 if parsing fails
func IntOrZero(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

// AbsInt parses an integer and returns its absolute value, or 0 if parsing fails.
// Form fields such as ids and timestamps are read this way.
func AbsInt(s string) uint64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}
