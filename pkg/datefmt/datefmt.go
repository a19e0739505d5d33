// Package datefmt formats and parses the compact YYYYMMDD date strings used
// on tax records. Pure functions, no shared state.
package datefmt

import (
	"fmt"
	"time"
)

const layout = "20060102"

// Format renders a time as an 8-character YYYYMMDD string, zero-padded.
func Format(t time.Time) string {
	return t.Format(layout)
}

// Parse reads a YYYYMMDD string back into a time. The input must be exactly
// eight digits.
func Parse(s string) (time.Time, error) {
	if len(s) != 8 {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYYMMDD", s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
