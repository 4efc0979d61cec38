package ui

import "math"

const (
	reset      = "\033[0m"
	green      = "\033[38;5;2m"
	yellow     = "\033[38;5;3m"
	red        = "\033[38;5;1m"
	lightBlack = "\033[38;5;8m"
)

// palette emits escape sequences only when color is enabled.
type palette struct {
	enabled bool
}

func (p palette) paint(code string) string {
	if !p.enabled {
		return ""
	}
	return code
}

// loadColor picks the bar color: up to 75% green, up to 95% yellow, red above.
func loadColor(load float64) string {
	switch pct := int(clamp(load) * 100); {
	case pct <= 75:
		return green
	case pct <= 95:
		return yellow
	default:
		return red
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
