package importer

import (
	"strconv"
	"strings"
	"time"
)

// Pure string -> bool format predicates. Empty values are handled by the
// required-field checks, so every predicate treats its input as present.

const dateLayout = "2006-01-02"

// isValidDate accepts calendar-valid YYYY-MM-DD dates only.
func isValidDate(value string) bool {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return false
	}
	// time.Parse normalizes overflow (2013-02-30 -> 2013-03-02); reformatting
	// catches those.
	return parsed.Format(dateLayout) == value
}

// isValidSession accepts academic sessions of the form YYYY-YYYY with
// consecutive years, e.g. 2025-2026.
func isValidSession(value string) bool {
	parts := strings.Split(value, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 4 {
		return false
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return end == start+1
}

// stripSeparators drops spaces, dashes and dots from numeric identifiers.
func stripSeparators(value string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '(', ')':
			return -1
		}
		return r
	}, value)
}

func allDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isValidPhone accepts 10-15 digits after stripping separators and an
// optional leading +.
func isValidPhone(value string) bool {
	digits := stripSeparators(value)
	digits = strings.TrimPrefix(digits, "+")
	return allDigits(digits) && len(digits) >= 10 && len(digits) <= 15
}

// isValidAadhaar accepts exactly 12 digits after stripping separators.
func isValidAadhaar(value string) bool {
	digits := stripSeparators(value)
	return allDigits(digits) && len(digits) == 12
}

// isValidPincode accepts exactly 6 digits.
func isValidPincode(value string) bool {
	return allDigits(value) && len(value) == 6
}

// isValidEmail requires a single @ with non-empty local and domain parts.
func isValidEmail(value string) bool {
	at := strings.Count(value, "@")
	if at != 1 {
		return false
	}
	idx := strings.Index(value, "@")
	return idx > 0 && idx < len(value)-1
}
