package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/tui/components"
	"github.com/theirongolddev/paycycle/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	r := a.report
	p := r.Projection
	var b strings.Builder

	// Row 1: headline numbers
	netNote := "salary " + cli.FormatMoney(r.Salary)
	if !r.Deductions.IsZero() {
		netNote = "advances -" + cli.FormatMoney(r.Deductions)
	}
	projNote := "on track"
	projColor := t.Green
	if p.WillOverspend {
		projNote = "over by " + cli.FormatMoney(p.ProjectedTotal.Sub(r.NetSalary))
		projColor = t.Red
	}
	balanceColor := t.Green
	if p.FinalBalance.IsNegative() {
		balanceColor = t.Red
	}

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Spent", Value: cli.FormatMoney(r.Spend.Total),
			Note: fmt.Sprintf("%s of net · %d expenses", cli.FormatPercent(r.PercentSpent), r.Spend.Count),
			Color: t.Tone(r.PercentSpent)},
		{Label: "Net Salary", Value: cli.FormatMoney(r.NetSalary), Note: netNote},
		{Label: "Daily Average", Value: cli.FormatMoney(p.DailyAverage),
			Note: fmt.Sprintf("over %s", cli.FormatDays(r.Cycle.ElapsedDays))},
		{Label: "Projected", Value: cli.FormatMoney(p.ProjectedTotal), Note: projNote, Color: projColor},
		{Label: "Final Balance", Value: cli.FormatMoney(p.FinalBalance),
			Note: cli.FormatDays(r.Cycle.RemainingDays) + " left", Color: balanceColor},
	}, cw))
	b.WriteString("\n")

	// Row 2: salary consumption and cycle progress
	inner := components.CardInnerWidth(cw)
	barW := max(10, inner-22)
	var bars strings.Builder
	bars.WriteString(components.SpendBar("Salary used", r.PercentSpent, 12, barW))
	bars.WriteString("\n")
	projPct := 0.0
	if r.NetSalary.IsPositive() {
		projPct = p.ProjectedTotal.Div(r.NetSalary).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	bars.WriteString(components.SpendBar("Projected", projPct, 12, barW))
	bars.WriteString("\n")
	cycleFrac := 0.0
	if r.Cycle.TotalDays > 0 {
		cycleFrac = float64(r.Cycle.ElapsedDays) / float64(r.Cycle.TotalDays)
	}
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	bars.WriteString(labelStyle.Render(fmt.Sprintf("%-12s ", "Cycle")))
	bars.WriteString(components.ProgressBar(cycleFrac, barW))

	title := fmt.Sprintf("Cycle %s · day %d of %d",
		cli.FormatRange(r.Cycle.Start, r.Cycle.End), r.Cycle.ElapsedDays, r.Cycle.TotalDays)
	b.WriteString(components.ContentCard(title, bars.String(), cw))
	b.WriteString("\n")

	// Row 3: daily spend against the even daily allowance
	if len(a.days) > 0 {
		vals := make([]float64, len(a.days))
		for i, d := range a.days {
			vals[i] = d.Amount.InexactFloat64()
		}
		allowance := 0.0
		if r.Cycle.TotalDays > 0 {
			allowance = r.NetSalary.Div(decimal.NewFromInt(int64(r.Cycle.TotalDays))).InexactFloat64()
		}
		chartH := 10
		if a.isCompactLayout() {
			chartH = 6
		}
		b.WriteString(components.ContentCard(
			fmt.Sprintf("Daily Spend (allowance %s/day)", cli.FormatMoneyShort(decimal.NewFromFloat(allowance))),
			components.BarChart(vals, chartDateLabels(a.days), t.Blue, allowance, inner, chartH),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 4: top categories + alerts and goals
	halves := components.LayoutRow(cw, 2)
	catCard := components.ContentCard("Top Categories",
		a.categoryBars(5, components.CardInnerWidth(halves[0])), halves[0])
	alertCard := components.ContentCard("Alerts & Goals",
		a.alertsBody(components.CardInnerWidth(halves[1])), halves[1])

	if a.isCompactLayout() {
		b.WriteString(catCard)
		b.WriteString("\n")
		b.WriteString(alertCard)
	} else {
		b.WriteString(components.CardRow([]string{catCard, alertCard}))
	}

	return b.String()
}

// categoryBars renders the top n cycle categories as horizontal bars.
func (a App) categoryBars(n, width int) string {
	t := theme.Active
	if len(a.ranking) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No expenses this cycle")
	}
	return components.HorizontalBars(categoryHBars(a.ranking[:min(n, len(a.ranking))]), 12, width)
}

func (a App) alertsBody(width int) string {
	t := theme.Active
	bad := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	good := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var lines []string
	if a.report.Projection.WillOverspend {
		lines = append(lines, bad.Render("▲ Projected to overspend this cycle"))
	}
	if !a.report.NetSalary.IsPositive() {
		lines = append(lines, warn.Render("No salary for this cycle: run `paycycle salary set`"))
	}
	for _, adv := range a.snap.PendingAdvances() {
		lines = append(lines, warn.Render(fmt.Sprintf("Advance pending: %s expected %s",
			cli.FormatMoney(adv.Amount), adv.ExpectedDate)))
	}
	if len(lines) == 0 {
		lines = append(lines, good.Render("✓ Spending is on track"))
	}

	if len(a.goals) > 0 {
		lines = append(lines, "")
		nameW := max(8, width/3)
		barW := max(6, width-nameW-8)
		for _, g := range a.goals {
			status := fmt.Sprintf("%3.0f%%", g.Percent)
			switch {
			case g.Completed:
				status = good.Render(" done")
			case g.Overdue:
				status = bad.Render(" late")
			default:
				status = muted.Render(" " + status)
			}
			lines = append(lines,
				text.Render(fmt.Sprintf("%-*s ", nameW, truncStr(g.Goal.Title, nameW)))+
					components.GoalBar(g.Percent, barW)+status)
		}
	}
	return strings.Join(lines, "\n")
}
