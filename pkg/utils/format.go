package utils

import "fmt"

// FormatUSD renders a dollar amount scaled to thousands, millions or
// billions with a one-letter suffix, e.g. 1234567890 -> "$1.23B".
func FormatUSD(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// FormatPct renders a percentage with two decimals, e.g. "3.14%".
func FormatPct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatPrice renders a plain two-decimal dollar price.
func FormatPrice(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// TruncateString shortens s to max runes, appending an ellipsis when it was
// cut.
func TruncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
