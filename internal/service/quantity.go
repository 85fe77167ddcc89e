package service

import (
	"strconv"
	"strings"
)

// ParseQuantity reads a quantity typed into a form field. It takes the
// leading integer the way a browser's parseInt does, so "3.7" is 3 and
// "4 plants" is 4. Input with no leading integer, or values below 1, yield 1.
// Values above MaxQuantity yield MaxQuantity.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 1
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Only out-of-range values reach here.
		if s[0] == '-' {
			return 1
		}
		return MaxQuantity
	}
	return clampQuantity(n)
}

func clampQuantity(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxQuantity:
		return MaxQuantity
	default:
		return n
	}
}
