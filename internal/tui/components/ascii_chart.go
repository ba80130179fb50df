package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/nestcast/internal/output"
	"github.com/rgehrsitz/nestcast/internal/tui/tuistyles"
)

// DataSeries is one line in a chart
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ASCIIChart draws line series on a character grid. Later series are drawn
// first so the first series stays on top where lines cross.
type ASCIIChart struct {
	Title  string
	Series []*DataSeries
	Labels []string // X-axis labels, one per point
	Width  int
	Height int
}

// NewASCIIChart creates a new ASCII chart
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:  title,
		Width:  60,
		Height: 12,
	}
}

// AddSeries adds a data series to the chart
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color})
	return c
}

// WithLabels sets the X-axis labels
func (c *ASCIIChart) WithLabels(labels []string) *ASCIIChart {
	c.Labels = labels
	return c
}

// WithSize sets the chart dimensions
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

const yAxisWidth = 9

type cell struct {
	char   rune
	series int
}

// Render returns the styled chart
func (c *ASCIIChart) Render() string {
	points := c.longestSeries()
	if points == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	height := max(c.Height, 2)
	width := max(c.Width-yAxisWidth-3, 2)
	lo, hi := c.bounds()

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
		for j := range grid[i] {
			grid[i][j] = cell{char: ' ', series: -1}
		}
	}

	xOf := func(i int) int {
		if points == 1 {
			return 0
		}
		return int(math.Round(float64(i) / float64(points-1) * float64(width-1)))
	}
	yOf := func(v float64) int {
		return height - 1 - int(math.Round((v-lo)/(hi-lo)*float64(height-1)))
	}

	for s := len(c.Series) - 1; s >= 0; s-- {
		series := c.Series[s]
		char := seriesChar(s)
		for i, v := range series.Points {
			x, y := xOf(i), yOf(v)
			if i > 0 {
				drawLine(grid, xOf(i-1), yOf(series.Points[i-1]), x, y, cell{char: '·', series: s})
			}
			plot(grid, x, y, cell{char: char, series: s})
		}
	}

	var sb strings.Builder
	if c.Title != "" {
		sb.WriteString(tuistyles.TitleStyle.Render(c.Title))
		sb.WriteString("\n")
	}

	axisStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)
	for i, row := range grid {
		label := ""
		if i == 0 || i == height-1 || i == height/2 {
			label = output.FormatCompact(hi - float64(i)/float64(height-1)*(hi-lo))
		}
		sb.WriteString(axisStyle.Render(label))
		sb.WriteString(" │")
		for _, cl := range row {
			if cl.series < 0 {
				sb.WriteRune(' ')
				continue
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(c.Series[cl.series].Color).Render(string(cl.char)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat(" ", yAxisWidth+1))
	sb.WriteString("└")
	sb.WriteString(strings.Repeat("─", width))

	if len(c.Labels) > 0 {
		sb.WriteString("\n")
		sb.WriteString(c.renderXAxisLabels(width, xOf))
	}
	if len(c.Series) > 1 {
		sb.WriteString("\n")
		sb.WriteString(c.renderLegend())
	}
	return sb.String()
}

func (c *ASCIIChart) longestSeries() int {
	n := 0
	for _, s := range c.Series {
		n = max(n, len(s.Points))
	}
	return n
}

// bounds returns the value range across all series, widened when flat.
func (c *ASCIIChart) bounds() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for _, v := range s.Points {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1 {
		lo, hi = lo-1, hi+1
	}
	if lo > 0 {
		lo = 0
	}
	return lo, hi
}

func seriesChar(index int) rune {
	chars := []rune{'●', '■', '▲', '♦', '◆', '○'}
	return chars[index%len(chars)]
}

func plot(grid [][]cell, x, y int, c cell) {
	if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
		grid[y][x] = c
	}
}

// drawLine connects two points with Bresenham's algorithm without
// overwriting plotted markers.
func drawLine(grid [][]cell, x0, y0, x1, y1 int, c cell) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for x, y := x0, y0; ; {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && grid[y][x].char == ' ' {
			grid[y][x] = c
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// renderXAxisLabels places up to five labels under their points.
func (c *ASCIIChart) renderXAxisLabels(width int, xOf func(int) int) string {
	line := []rune(strings.Repeat(" ", width))
	step := max(len(c.Labels)/4, 1)
	next := 0
	for i := 0; i < len(c.Labels); i += step {
		x := xOf(i)
		label := []rune(c.Labels[i])
		if x < next || x+len(label) > width {
			continue
		}
		copy(line[x:], label)
		next = x + len(label) + 1
	}
	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	return strings.Repeat(" ", yAxisWidth+2) + labelStyle.Render(string(line))
}

func (c *ASCIIChart) renderLegend() string {
	items := make([]string, 0, len(c.Series))
	for i, s := range c.Series {
		marker := lipgloss.NewStyle().Foreground(s.Color).Render(string(seriesChar(i)))
		items = append(items, fmt.Sprintf("%s %s", marker, s.Name))
	}
	return tuistyles.SubtitleStyle.Render(strings.Repeat(" ", yAxisWidth+2) + strings.Join(items, "  "))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
