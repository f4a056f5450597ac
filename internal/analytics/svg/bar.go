package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Ranked renders a horizontal bar per label, longest bar for the largest
// value, in the order given. Height grows with the number of rows.
func Ranked(width int, values []float64, labels []string, opts RankOpts) (string, error) {
	if len(values) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match values")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	padding := positive(opts.Padding, DefaultPadding)
	labelWidth := positive(opts.LabelWidth, DefaultLabelWidth)
	barHeight := positive(opts.BarHeight, DefaultBarHeight)
	barColor := fallback(opts.BarColor, "#0ea5e9")
	textColor := fallback(opts.TextColor, "#334155")
	gridColor := fallback(opts.GridColor, "#e2e8f0")

	plotWidth := float64(width) - 2*padding - labelWidth - 56
	if plotWidth <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}
	rowHeight := barHeight * 1.5
	height := int(math.Ceil(2*padding + 18 + rowHeight*float64(max(len(values), 1))))

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if almostEqual(maxVal, 0) {
		maxVal = 1
	}

	titleID := makeID(opts.Title, "rank-title")
	descID := makeID(opts.Title, "rank-desc")

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img" aria-labelledby="%s %s">`, width, height, titleID, descID)
	fmt.Fprintf(&b, `<title id="%s">%s</title>`, titleID, template.HTMLEscapeString(fallback(opts.Title, "Ranking")))
	fmt.Fprintf(&b, `<desc id="%s">%s</desc>`, descID, template.HTMLEscapeString(fallback(opts.Description, "Ranked values")))
	fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="12" font-weight="bold">%s</text>`, padding, padding+10, textColor, template.HTMLEscapeString(fallback(opts.Title, "Ranking")))

	top := padding + 18
	left := padding + labelWidth
	fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="1"></line>`, left, top, left, top+rowHeight*float64(len(values)), gridColor)

	if len(values) == 0 {
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="11">Not enough data to display.</text>`, left+8, top+barHeight, textColor)
	}
	for i, v := range values {
		y := top + float64(i)*rowHeight + (rowHeight-barHeight)/2
		w := math.Max(v, 0) / maxVal * plotWidth
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="11" text-anchor="end">%s</text>`, left-6, y+barHeight*0.7, textColor, template.HTMLEscapeString(truncate(labels[i], 28)))
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" aria-label="%s"></rect>`, left, y, w, barHeight, barColor, template.HTMLEscapeString(labels[i]))
		value := formatTick(v)
		if opts.Unit != "" {
			value += " " + opts.Unit
		}
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="11">%s</text>`, left+w+6, y+barHeight*0.7, textColor, template.HTMLEscapeString(value))
	}

	b.WriteString("</svg>")
	return b.String(), nil
}

func positive(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return cleaned + "-" + suffix
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 10_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	case almostEqual(v, math.Round(v)):
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
