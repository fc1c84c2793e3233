package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/tui/components"
	"github.com/theirongolddev/paycycle/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// updateAnnualKeys steps through the years that have data.
func (a App) updateAnnualKeys(key string) (tea.Model, bool) {
	if len(a.years) == 0 {
		return a, false
	}
	idx := -1
	for i, y := range a.years {
		if y == a.year {
			idx = i
			break
		}
	}

	// years are newest first
	switch key {
	case "[":
		switch {
		case idx < 0:
			a.year = a.years[len(a.years)-1]
		case idx < len(a.years)-1:
			a.year = a.years[idx+1]
		}
	case "]":
		switch {
		case idx < 0:
			a.year = a.years[0]
		case idx > 0:
			a.year = a.years[idx-1]
		}
	default:
		return a, false
	}
	a.annual = pipeline.BuildAnnualReportAt(a.year, a.snap, a.now)
	return a, true
}

func (a App) renderAnnualTab(cw int) string {
	t := theme.Active
	r := a.annual
	var b strings.Builder

	balanceColor := t.Green
	if r.AnnualBalance.IsNegative() {
		balanceColor = t.Red
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Expenses", Value: cli.FormatMoney(r.AnnualExpense),
			Note: cli.FormatPercent(r.AnnualPercentOfSalary) + " of salary", Color: t.Tone(r.AnnualPercentOfSalary)},
		{Label: "Salary", Value: cli.FormatMoney(r.AnnualSalary)},
		{Label: "Balance", Value: cli.FormatMoney(r.AnnualBalance), Color: balanceColor},
		{Label: "Extra Income", Value: cli.FormatMoney(r.ExtraIncome)},
	}, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	vals := make([]float64, 12)
	labels := make([]string, 12)
	limit := 0.0
	for i, m := range r.Months {
		vals[i] = m.TotalExpense.InexactFloat64()
		labels[i] = cli.FormatMonth(m.Month)
		limit = max(limit, m.Salary.InexactFloat64())
	}
	chartH := 10
	if a.isCompactLayout() {
		chartH = 6
	}

	title := fmt.Sprintf("Year %d", r.Year)
	if len(a.years) > 1 {
		title += fmt.Sprintf(" · [ ] %d-%d", a.years[len(a.years)-1], a.years[0])
	}
	b.WriteString(components.ContentCard(title+" · monthly spend",
		components.BarChart(vals, labels, t.Blue, limit, inner, chartH), cw))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Months", a.monthTable(inner), cw))
	return b.String()
}

func (a App) monthTable(width int) string {
	t := theme.Active
	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	const colW = 13
	barW := max(6, width-5-colW*3-8-6)
	row := func(month, exp, sal, bal, pct string) string {
		return fmt.Sprintf("%-5s %*s %*s %*s %7s", month, colW, exp, colW, sal, colW, bal, pct)
	}

	lines := []string{header.Render(row("Month", "Expenses", "Salary", "Balance", "Used"))}
	current := a.year == a.now.Year()
	for _, m := range a.annual.Months {
		style := text
		if m.TotalExpense.IsZero() && m.Salary.IsZero() {
			style = muted
		}
		if current && m.Month == int(a.now.Month()) {
			style = style.Bold(true)
		}
		pct := "-"
		if m.Salary.IsPositive() {
			pct = cli.FormatPercent(m.PercentOfSalary)
		}
		bal := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
		if m.Balance.IsNegative() {
			bal = lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)
		}

		line := style.Render(fmt.Sprintf("%-5s %*s %*s ", cli.FormatMonth(m.Month),
			colW, cli.FormatMoney(m.TotalExpense), colW, cli.FormatMoney(m.Salary))) +
			bal.Render(fmt.Sprintf("%*s", colW, cli.FormatMoney(m.Balance))) +
			style.Render(fmt.Sprintf(" %7s", pct))
		if m.Salary.IsPositive() {
			line += blank.Render(" ") + components.ProgressBar(min(m.PercentOfSalary/100, 1), barW)
		}
		lines = append(lines, line)
	}

	totalPct := "-"
	if a.annual.AnnualSalary.IsPositive() {
		totalPct = cli.FormatPercent(a.annual.AnnualPercentOfSalary)
	}
	lines = append(lines, "", header.Render(row("Total",
		cli.FormatMoney(a.annual.AnnualExpense), cli.FormatMoney(a.annual.AnnualSalary),
		cli.FormatMoney(a.annual.AnnualBalance), totalPct)))

	if a.annual.ExtraIncome.GreaterThan(decimal.Zero) {
		lines = append(lines, muted.Render(fmt.Sprintf("Extra income %s (total income %s) is not counted in the balance",
			cli.FormatMoney(a.annual.ExtraIncome), cli.FormatMoney(a.annual.AnnualTotalIncome))))
	}
	return strings.Join(lines, "\n")
}
