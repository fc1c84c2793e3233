package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/paycycle/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	span := hi - lo

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := 0
		if span > 0 {
			idx = int((v - lo) / span * float64(len(sparkBlocks)-1))
		}
		idx = max(0, min(idx, len(sparkBlocks)-1))
		buf.WriteRune(sparkBlocks[idx])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// chartScale picks a rounded y-axis ceiling and tick layout for maxVal.
type chartScale struct {
	ceiling     float64
	step        float64
	ticks       int
	rowsPerTick int
}

func newChartScale(maxVal float64, height int) chartScale {
	if maxVal <= 0 {
		maxVal = 1
	}
	step := chartTickStep(maxVal)
	maxTicks := max(2, height/2)
	for int(math.Ceil(maxVal/step)) > maxTicks {
		step *= 2
	}
	ceiling := math.Ceil(maxVal/step) * step
	ticks := max(1, int(math.Round(ceiling/step)))
	return chartScale{
		ceiling:     ceiling,
		step:        step,
		ticks:       ticks,
		rowsPerTick: max(2, height/ticks),
	}
}

func (s chartScale) rows() int { return s.rowsPerTick * s.ticks }

// resample keeps at most n evenly spaced points of values and labels.
func resample(values []float64, labels []string, n int) ([]float64, []string) {
	if len(values) <= n || n < 2 {
		return values, labels
	}
	outV := make([]float64, n)
	var outL []string
	if len(labels) == len(values) {
		outL = make([]string, n)
	}
	for i := range outV {
		src := i * (len(values) - 1) / (n - 1)
		outV[i] = values[src]
		if outL != nil {
			outL[i] = labels[src]
		}
	}
	return outV, outL
}

// BarChart renders a vertical bar chart. Bars whose value exceeds limit are
// drawn in the theme's red; limit <= 0 disables the check. The limit itself
// is marked on the y-axis with a ┤ tick.
func BarChart(values []float64, labels []string, color lipgloss.Color, limit float64, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active

	peak := limit
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	scale := newChartScale(peak, height)
	chartH := scale.rows()

	yLabelW := max(4, len(FormatChartLabel(scale.ceiling))+1)
	chartW := max(5, width-yLabelW-1)

	n := len(values)
	gap := 1
	if n <= 1 {
		gap = 0
	}
	barW := chartW
	if n > 1 {
		barW = (chartW - (n - 1)) / n
	}
	if barW < 2 && n > 1 {
		values, labels = resample(values, labels, max(2, (chartW+1)/3))
		n = len(values)
		barW = 2
	}
	barW = min(barW, 6)
	axisLen := n*barW + max(0, n-1)*gap

	tickLabels := make(map[int]string, scale.ticks)
	for i := 1; i <= scale.ticks; i++ {
		tickLabels[i*scale.rowsPerTick] = FormatChartLabel(scale.step * float64(i))
	}
	limitRow := -1
	if limit > 0 {
		limitRow = int(math.Round(limit / scale.ceiling * float64(chartH)))
	}

	partial := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	limitStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	okStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	overStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	var b strings.Builder
	for row := chartH; row >= 1; row-- {
		top := scale.ceiling * float64(row) / float64(chartH)
		bottom := scale.ceiling * float64(row-1) / float64(chartH)

		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, tickLabels[row])))
		if row == limitRow {
			b.WriteString(limitStyle.Render("┤"))
		} else {
			b.WriteString(axisStyle.Render("│"))
		}

		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(" ", gap)))
			}
			style := okStyle
			if limit > 0 && v > limit {
				style = overStyle
			}
			switch {
			case v >= top:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				idx = max(1, min(idx, 8))
				b.WriteString(style.Render(strings.Repeat(string(partial[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("└" + strings.Repeat("─", axisLen)))

	if len(labels) == n && n > 0 {
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(placeLabels(labels, axisLen, barW+gap)))
	}

	return b.String()
}

// placeLabels spreads x-axis labels under their bars without overlaps.
// The last label is always placed when there is room for it.
func placeLabels(labels []string, axisLen, stride int) string {
	buf := []byte(strings.Repeat(" ", axisLen))
	n := len(labels)
	step := max(1, (n*8)/(axisLen+1))

	lastEnd := -1
	put := func(pos int, lbl string) {
		if pos <= lastEnd {
			return
		}
		end := pos + len(lbl)
		if end > axisLen {
			if axisLen-pos < 3 {
				return
			}
			end = axisLen
		}
		copy(buf[pos:end], lbl)
		lastEnd = end
	}
	for i := 0; i < n; i += step {
		put(i*stride, labels[i])
	}
	if n > 1 && (n-1)%step != 0 {
		pos := (n - 1) * stride
		if pos+len(labels[n-1]) > axisLen {
			pos = axisLen - len(labels[n-1])
		}
		if pos > lastEnd {
			put(pos, labels[n-1])
		}
	}
	return strings.TrimRight(string(buf), " ")
}

// HBar is one row of a horizontal bar list.
type HBar struct {
	Label string
	Value float64
	Text  string // right-hand annotation, e.g. the formatted amount
	Color lipgloss.Color
}

// HorizontalBars renders labelled bars scaled to the largest value.
func HorizontalBars(rows []HBar, labelW, width int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active

	peak := 0.0
	textW := 0
	for _, r := range rows {
		peak = math.Max(peak, r.Value)
		textW = max(textW, lipgloss.Width(r.Text))
	}
	if peak <= 0 {
		peak = 1
	}
	barMax := max(4, width-labelW-textW-2)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	textStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		color := r.Color
		if color == "" {
			color = t.Accent
		}
		filled := int(math.Round(r.Value / peak * float64(barMax)))
		filled = max(0, min(filled, barMax))
		if filled == 0 && r.Value > 0 {
			filled = 1
		}
		bar := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(strings.Repeat("█", filled))
		lines = append(lines,
			labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncLabel(r.Label, labelW)))+
				blank.Render(" ")+
				bar+
				blank.Render(strings.Repeat(" ", barMax-filled+1))+
				textStyle.Render(fmt.Sprintf("%*s", textW, r.Text)))
	}
	return strings.Join(lines, "\n")
}

func truncLabel(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// FormatChartLabel renders an axis amount compactly: 1500 -> "1.5k".
func FormatChartLabel(v float64) string {
	trim := func(x float64, suffix string) string {
		if x == math.Trunc(x) {
			return fmt.Sprintf("%.0f%s", x, suffix)
		}
		return fmt.Sprintf("%.1f%s", x, suffix)
	}
	switch {
	case v >= 1e6:
		return trim(v/1e6, "M")
	case v >= 1e3:
		return trim(v/1e3, "k")
	case v >= 1:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
