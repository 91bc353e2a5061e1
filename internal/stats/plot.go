package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight = 8
	minPlotWidth      = 10
	fallbackTermWidth = 80
	axisSeparator     = " ┤"
	colorReset        = "\x1b[0m"
)

var seriesColors = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
}

// canvas is a grid of braille cells; each cell holds 2x4 dots.
type canvas struct {
	w, h  int
	cells [][]uint8
	owner [][]int
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]uint8, h), owner: make([][]int, h)}
	for y := range c.cells {
		c.cells[y] = make([]uint8, w)
		c.owner[y] = make([]int, w)
		for x := range c.owner[y] {
			c.owner[y][x] = -1
		}
	}
	return c
}

// dot bit layout inside a braille cell, indexed by [column][row].
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (c *canvas) set(px, py, series int) {
	cx, cy := px/2, py/4
	if px < 0 || py < 0 || cx >= c.w || cy >= c.h {
		return
	}
	c.cells[cy][cx] |= dotBits[px%2][py%4]
	if c.owner[cy][cx] < 0 {
		c.owner[cy][cx] = series
	}
}

// line draws between two dot coordinates with Bresenham's algorithm.
func (c *canvas) line(x0, y0, x1, y1, series int) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		c.set(x0, y0, series)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (c *canvas) row(y int, color bool) string {
	var b strings.Builder
	for x := 0; x < c.w; x++ {
		ch := rune(0x2800 + int(c.cells[y][x]))
		if color && c.owner[y][x] >= 0 {
			b.WriteString(seriesColors[c.owner[y][x]%len(seriesColors)])
			b.WriteRune(ch)
			b.WriteString(colorReset)
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// PlotSeries renders series on a shared braille chart. All series share
// one y-axis spanning their combined range.
func PlotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	var kept []Series
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	lo, hi := bounds(kept)
	labelTop, labelBottom := formatAxis(hi), formatAxis(lo)
	axisWidth := max(runewidth.StringWidth(labelTop), runewidth.StringWidth(labelBottom))
	if width <= 0 {
		width = PlotWidthFor(terminalWidth(), axisWidth)
	}
	width = max(width, minPlotWidth)

	c := newCanvas(width, height)
	dotsX, dotsY := width*2, height*4
	for si, s := range kept {
		values := resample(s.Values, dotsX)
		prevX, prevY := -1, -1
		for x, v := range values {
			y := scaleY(v, lo, hi, dotsY)
			if prevX < 0 {
				c.set(x, y, si)
			} else {
				c.line(prevX, prevY, x, y, si)
			}
			prevX, prevY = x, y
		}
	}

	color := shouldUseColor(w, forceColor)
	var out strings.Builder
	if title != "" {
		out.WriteString(title + "\n")
	}
	for y := 0; y < height; y++ {
		label := ""
		switch y {
		case 0:
			label = labelTop
		case height - 1:
			label = labelBottom
		}
		fmt.Fprintf(&out, "%s%s%s\n", runewidth.FillLeft(label, axisWidth), axisSeparator, c.row(y, color))
	}
	out.WriteString(legend(kept, color) + "\n\n")
	_, err := io.WriteString(w, out.String())
	return err
}

// PlotWidthFor computes a plot width that fits within totalWidth next to
// an axis label of axisWidth columns.
func PlotWidthFor(totalWidth, axisWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisWidth-runewidth.StringWidth(axisSeparator), minPlotWidth)
}

func legend(series []Series, color bool) string {
	parts := make([]string, len(series))
	for i, s := range series {
		label := "⣿ " + s.Name
		if color {
			label = seriesColors[i%len(seriesColors)] + label + colorReset
		}
		parts[i] = label
	}
	return strings.Join(parts, "  ")
}

func bounds(series []Series) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	return lo, hi
}

func formatAxis(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func scaleY(v, lo, hi float64, dots int) int {
	pos := (v - lo) / (hi - lo)
	y := int(math.Round((1 - pos) * float64(dots-1)))
	return min(max(y, 0), dots-1)
}

// resample stretches or averages values into exactly n points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	switch {
	case len(values) == 1 || n == 1:
		for i := range out {
			out[i] = values[0]
		}
	case len(values) >= n:
		for i := range out {
			start := i * len(values) / n
			end := max((i+1)*len(values)/n, start+1)
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	default:
		for i := range out {
			pos := float64(i) * float64(len(values)-1) / float64(n-1)
			idx := int(pos)
			if idx >= len(values)-1 {
				out[i] = values[len(values)-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
