// Package timeparsing resolves the relative date expressions accepted in
// date bounds: compact durations ("-2w", "+6h"), calendar dates, RFC3339
// timestamps, and natural-language phrases ("next monday").
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// compactDurationRe matches the signed duration shorthand used in date
// bounds: an optional sign, digits, and a unit out of h/d/w/m/y.
var compactDurationRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

// ParseCompactDuration resolves a compact duration like "-2w" or "+6h"
// against now. A missing sign means forward. Month and year arithmetic
// follows time.AddDate, so overflowing a short month normalizes into the
// next one.
func ParseCompactDuration(s string, now time.Time) (time.Time, error) {
	matches := compactDurationRe.FindStringSubmatch(s)
	if matches == nil {
		return time.Time{}, fmt.Errorf("not a compact duration: %q", s)
	}

	amount, err := strconv.Atoi(matches[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration amount: %q", matches[2])
	}
	if matches[1] == "-" {
		amount = -amount
	}
	return applyDuration(now, amount, matches[3]), nil
}

func applyDuration(base time.Time, amount int, unit string) time.Time {
	switch unit {
	case "h":
		return base.Add(time.Duration(amount) * time.Hour)
	case "d":
		return base.AddDate(0, 0, amount)
	case "w":
		return base.AddDate(0, 0, amount*7)
	case "m":
		return base.AddDate(0, amount, 0)
	case "y":
		return base.AddDate(amount, 0, 0)
	default:
		return base
	}
}

// IsCompactDuration reports whether s uses the compact duration shorthand.
// It decides which parsing path a date bound takes before any slower
// interpretation runs.
func IsCompactDuration(s string) bool {
	return compactDurationRe.MatchString(s)
}
