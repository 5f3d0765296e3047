// ABOUTME: Number formatting utilities for displaying view counts
// ABOUTME: Provides the short "2K+" format and locale-grouped full numbers

package number

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Short formats n with a K+, M+, B+ or T+ suffix once it reaches a thousand.
// The value is floored, so 2143 becomes "2K+".
func Short(n int64) string {
	switch {
	case n < 1_000:
		return fmt.Sprintf("%d", n)
	case n < 1_000_000:
		return fmt.Sprintf("%dK+", n/1_000)
	case n < 1_000_000_000:
		return fmt.Sprintf("%dM+", n/1_000_000)
	case n < 1_000_000_000_000:
		return fmt.Sprintf("%dB+", n/1_000_000_000)
	default:
		return fmt.Sprintf("%dT+", n/1_000_000_000_000)
	}
}

// Full formats n with thousands separators, e.g. "2,143"
func Full(n int64) string {
	return printer.Sprintf("%d", n)
}
