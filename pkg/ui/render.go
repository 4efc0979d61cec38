// Package ui renders cgroup loads as aligned, color-coded progress bars.
package ui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/srodi/cgstats/pkg/report"
	"github.com/srodi/cgstats/pkg/types"
)

// IndentWidth is the indentation unit of the report.
const IndentWidth = 2

// Style controls how bars are drawn.
type Style struct {
	FullChar  string
	EmptyChar string
	Prefix    string
	Suffix    string
	Width     int // default line width when the host negotiates none
	Color     bool
}

// DefaultStyle matches the stock "[=====]" bars on an 80 column line.
func DefaultStyle() Style {
	return Style{
		FullChar:  "=",
		EmptyChar: "=",
		Prefix:    "[",
		Suffix:    "]",
		Width:     80,
		Color:     true,
	}
}

// MinWidth is the narrowest line that still fits names, percentages and a
// short bar.
func MinWidth(maxNameWidth int) int {
	return IndentWidth + maxNameWidth + len("100%") + len("[=========]") + 2
}

// Bar draws a width-wide bar filled to load, clamped to [0, 1].
func Bar(s Style, width int, load float64) string {
	inner := max(width-len(s.Suffix)-len(s.Prefix), 0)
	full := int(math.Round(float64(inner) * clamp(load)))
	empty := inner - full
	p := palette{enabled: s.Color}

	var b strings.Builder
	b.WriteString(s.Prefix)
	b.WriteString(p.paint(loadColor(load)))
	b.WriteString(strings.Repeat(s.FullChar, full))
	b.WriteString(p.paint(lightBlack))
	b.WriteString(strings.Repeat(s.EmptyChar, empty))
	b.WriteString(p.paint(reset))
	b.WriteString(s.Suffix)
	return b.String()
}

// Render writes the report for result at the given line width. A width of
// zero or less falls back to the style's default width.
func Render(w io.Writer, s Style, result types.PreparedResult, width int) error {
	if width <= 0 {
		width = s.Width - IndentWidth
	}
	p := palette{enabled: s.Color}

	var b strings.Builder
	idle := ""
	if result.Empty() {
		idle = " " + p.paint(green) + "almost idle" + p.paint(reset)
	}
	fmt.Fprintf(&b, "CPU usage in the past %s:%s\n", FormatDuration(report.RoundElapsed(result.Elapsed)), idle)

	indent := strings.Repeat(" ", IndentWidth)
	barWidth := width - IndentWidth - result.MaxNameWidth - 1 - 5
	sections := []struct {
		title   string
		entries []types.DeltaEntry
	}{
		{"Users", result.Users},
		{"Services", result.Services},
	}
	for _, section := range sections {
		if len(section.entries) > 0 {
			fmt.Fprintf(&b, "%s%s:\n", indent, section.title)
		}
		for _, e := range section.entries {
			fmt.Fprintf(&b, "%s%s%-*s %3.0f%% %s\n",
				indent, indent, result.MaxNameWidth, e.Name, e.Load*100, Bar(s, barWidth, e.Load))
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderError writes the single line shown instead of the report.
func RenderError(w io.Writer, err error) error {
	_, werr := fmt.Fprintf(w, "Cgroup Statistics error: %v\n", err)
	return werr
}

// FormatDuration prints d compactly, e.g. "3m", "2m 50s" or "1day 2h".
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs <= 0 {
		return "0s"
	}
	units := []struct {
		size   int64
		suffix string
	}{
		{86400, "day"},
		{3600, "h"},
		{60, "m"},
		{1, "s"},
	}
	parts := make([]string, 0, len(units))
	for _, u := range units {
		n := secs / u.size
		secs %= u.size
		if n == 0 {
			continue
		}
		suffix := u.suffix
		if suffix == "day" && n > 1 {
			suffix = "days"
		}
		parts = append(parts, fmt.Sprintf("%d%s", n, suffix))
	}
	return strings.Join(parts, " ")
}
