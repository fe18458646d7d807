// Package core money formatting.
//
// Monetary values travel as decimal numbers on the wire and are formatted
// for display only; no unit conversion happens anywhere in the client.
package core

import (
	"math"
	"strconv"
	"strings"
)

// FormatAmount renders a rupee amount with Indian digit grouping and up to
// two decimal places, e.g. 1234567.5 -> "₹12,34,567.50".
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")

	grouped := groupIndian(intPart)
	out := "₹" + grouped + "." + fracPart
	if neg {
		return "-" + out
	}
	return out
}

// groupIndian inserts commas in the Indian numbering style: the last three
// digits form one group, every two digits before that form another.
func groupIndian(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	head := digits[:n-3]
	tail := digits[n-3:]
	var b strings.Builder
	rem := len(head) % 2
	if rem == 1 {
		b.WriteString(head[:1])
		head = head[1:]
		if len(head) > 0 {
			b.WriteByte(',')
		}
	}
	for i := 0; i < len(head); i += 2 {
		b.WriteString(head[i : i+2])
		b.WriteByte(',')
	}
	return b.String() + tail
}

// ParseAmount converts a user-entered decimal string to a float64 amount.
// It accepts an optional comma as thousands separator and rejects negative
// or zero values.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
