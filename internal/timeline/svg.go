package timeline

import (
	"fmt"
	"html"
	"strings"
)

const (
	padLeft   = 80
	padTop    = 20
	padRight  = 20
	padBottom = 40
	barHeight = 16

	colorDone  = "#22c55e"
	colorOpen  = "#3b82f6"
	colorGrid  = "#2b3448"
	colorLabel = "#8aa0c4"
)

// SVG renders the chart as a standalone SVG document.
func (c Chart) SVG() string {
	rows := len(c.Bars)
	width := c.PixelWidth + padLeft + padRight
	height := float64(padTop + rows*c.RowHeight + padBottom)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s">`, num(width), num(height))

	for _, g := range c.Grid {
		x := padLeft + g.X
		fmt.Fprintf(&b, `<line x1="%s" y1="%d" x2="%s" y2="%d" stroke="%s" stroke-width="0.5"/>`,
			num(x), padTop-10, num(x), padTop+rows*c.RowHeight+10, colorGrid)
		fmt.Fprintf(&b, `<text x="%s" y="14" font-size="10" fill="%s">%s</text>`,
			num(x+4), colorLabel, g.Date)
	}

	for _, bar := range c.Bars {
		y := padTop + bar.Row*c.RowHeight
		fill := colorOpen
		if bar.Done {
			fill = colorDone
		}
		fmt.Fprintf(&b, `<text x="6" y="%d" font-size="12" fill="%s">%s</text>`,
			y+12, colorLabel, html.EscapeString(bar.Label))
		fmt.Fprintf(&b, `<rect x="%s" y="%d" width="%s" height="%d" rx="6" fill="%s"/>`,
			num(padLeft+bar.X), y, num(bar.Width), barHeight, fill)
	}

	b.WriteString(`</svg>`)
	return b.String()
}

func num(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
