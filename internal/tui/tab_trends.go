package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/model"
	"github.com/theirongolddev/paycycle/internal/tui/components"
	"github.com/theirongolddev/paycycle/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderTrendsTab(cw int) string {
	t := theme.Active
	tr := a.trends
	var b strings.Builder

	confColor := t.Red
	switch tr.Confidence {
	case model.ConfidenceHigh:
		confColor = t.Green
	case model.ConfidenceMedium:
		confColor = t.Yellow
	}

	metrics := []components.Metric{
		{Label: "Confidence", Value: string(tr.Confidence),
			Note: fmt.Sprintf("%d months of history", tr.HistoryLen), Color: confColor},
	}
	for _, p := range tr.Predictions {
		color := t.Green
		if p.Balance.IsNegative() {
			color = t.Red
		}
		metrics = append(metrics, components.Metric{
			Label: fmt.Sprintf("%s %d", cli.FormatMonth(p.Month), p.Year),
			Value: cli.FormatMoney(p.Expenses),
			Note:  "balance " + cli.FormatMoney(p.Balance),
			Color: color,
		})
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	b.WriteString(components.ContentCard("Moving Averages (3 months)", trendLines(tr, inner), cw))
	b.WriteString("\n")

	vals := make([]float64, 12)
	labels := make([]string, 12)
	for i, v := range tr.Seasonality {
		vals[i] = v.InexactFloat64()
		labels[i] = cli.FormatMonth(i + 1)
	}
	chartH := 8
	if a.isCompactLayout() {
		chartH = 5
	}
	b.WriteString(components.ContentCard("Seasonality · average expense by month",
		components.BarChart(vals, labels, t.Magenta, 0, inner, chartH), cw))
	return b.String()
}

// trendLines renders one sparkline row per moving-average series.
func trendLines(tr model.TrendReport, width int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	series := []struct {
		name   string
		values []decimal.Decimal
		color  lipgloss.Color
	}{
		{"Expenses", tr.ExpenseTrend, t.Orange},
		{"Income", tr.IncomeTrend, t.Blue},
		{"Balance", tr.BalanceTrend, t.Green},
	}

	const labelW = 10
	const valueW = 14
	lines := make([]string, 0, len(series))
	for _, s := range series {
		if len(s.values) == 0 {
			continue
		}
		floats := make([]float64, len(s.values))
		for i, v := range s.values {
			floats[i] = v.InexactFloat64()
		}
		spark := components.Sparkline(floats, s.color)
		pad := max(1, width-labelW-valueW-lipgloss.Width(spark))
		last := s.values[len(s.values)-1]
		lines = append(lines,
			label.Render(fmt.Sprintf("%-*s", labelW, s.name))+
				spark+
				blank.Render(strings.Repeat(" ", pad))+
				value.Render(fmt.Sprintf("%*s", valueW-1, cli.FormatMoney(last))))
	}
	if len(lines) == 0 {
		return label.Render("Not enough history yet")
	}
	return strings.Join(lines, "\n")
}
