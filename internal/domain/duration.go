package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var durationPattern = regexp.MustCompile(`^\d+:[0-5]\d$`)

// IsValidDuration reports whether s is a well-formed "HH:MM" duration
// string: non-negative unbounded hours, minutes in [0,59]. The empty string
// is accepted (a task with no hours logged).
func IsValidDuration(s string) bool {
	if s == "" {
		return true
	}
	return durationPattern.MatchString(s)
}

// DurationToMinutes parses an "HH:MM" duration string into total minutes.
// Empty or malformed strings contribute zero and are not an error.
func DurationToMinutes(s string) int {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0
	}
	return hours*60 + minutes
}

// MinutesToDuration formats total minutes back into an "HH:MM" duration
// string with both components zero-padded to two digits.
func MinutesToDuration(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
