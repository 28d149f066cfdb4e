// Package utils provides shared formatting helpers.
package utils

import (
	"fmt"
	"strings"
	"time"
)

// FormatUSD formats a whole-dollar amount with thousands separators.
func FormatUSD(amount int) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%d", amount)
	n := len(s)
	if n > 3 {
		var b strings.Builder
		rem := n % 3
		if rem > 0 {
			b.WriteString(s[:rem])
		}
		for i := rem; i < n; i += 3 {
			if b.Len() > 0 {
				b.WriteString(",")
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}

	if negative {
		return "-$" + s
	}
	return "$" + s
}

// FormatTimeAgo renders a timestamp as a relative duration.
func FormatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// Truncate shortens s to max runes with an ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
