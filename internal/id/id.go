package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders an expense ID for display.
func Format(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Parse converts a user-supplied expense ID into the serial key.
// Only positive base-10 integers are accepted.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty expense ID")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid expense ID %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid expense ID %q: must be positive", s)
	}
	return n, nil
}
