package ui

import (
	"fmt"
	"strings"
)

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(r))
}

// formatPrice renders a price in dollars, dropping the cents when whole.
func formatPrice(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("$%d", int64(v))
	}
	return fmt.Sprintf("$%.2f", v)
}

// wrap breaks text into lines no longer than width, on word boundaries.
func wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		wordLen := len([]rune(word))
		if i == 0 {
			b.WriteString(word)
			lineLen = wordLen
			continue
		}
		if lineLen+1+wordLen > width {
			b.WriteString("\n")
			b.WriteString(word)
			lineLen = wordLen
			continue
		}
		b.WriteString(" ")
		b.WriteString(word)
		lineLen += 1 + wordLen
	}
	return b.String()
}

// maxInt returns the larger of two integers.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
