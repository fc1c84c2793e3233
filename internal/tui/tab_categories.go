package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/config"
	"github.com/theirongolddev/paycycle/internal/model"
	"github.com/theirongolddev/paycycle/internal/tui/components"
	"github.com/theirongolddev/paycycle/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderCategoriesTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	cycleTitle := "This Cycle · " + cli.FormatRange(a.report.Cycle.Start, a.report.WindowEnd)
	yearTitle := fmt.Sprintf("Year %d", a.annual.Year)

	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	cycleBody := muted.Render("No expenses this cycle")
	if len(a.ranking) > 0 {
		cycleBody = categoryTable(a.ranking, a.report.Spend.Total, components.CardInnerWidth(halves[0]))
	}
	yearBody := muted.Render("No expenses this year")
	if len(a.annual.CategoryRanking) > 0 {
		yearBody = categoryTable(a.annual.CategoryRanking, a.annual.AnnualExpense, components.CardInnerWidth(halves[1]))
	}

	cycleCard := components.ContentCard(cycleTitle, cycleBody, halves[0])
	yearCard := components.ContentCard(yearTitle, yearBody, halves[1])

	var b strings.Builder
	if a.isCompactLayout() {
		b.WriteString(cycleCard)
		b.WriteString("\n")
		b.WriteString(yearCard)
	} else {
		b.WriteString(components.CardRow([]string{cycleCard, yearCard}))
	}
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Cycle Share", shareStrip(a.ranking, components.CardInnerWidth(cw)), cw))
	return b.String()
}

// categoryTable lists every category with its bar, amount and share.
func categoryTable(ranked []model.CategoryTotal, total decimal.Decimal, width int) string {
	t := theme.Active
	footer := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
		Render(fmt.Sprintf("%d categories · total %s", len(ranked), cli.FormatMoneyShort(total)))
	return components.HorizontalBars(categoryHBars(ranked), 12, width) + "\n\n" + footer
}

// categoryHBars maps ranked categories to bars in their display colors.
func categoryHBars(ranked []model.CategoryTotal) []components.HBar {
	rows := make([]components.HBar, 0, len(ranked))
	for _, c := range ranked {
		info := config.LookupCategory(c.Category)
		rows = append(rows, components.HBar{
			Label: info.Icon + " " + c.Category,
			Value: c.Amount.InexactFloat64(),
			Text:  fmt.Sprintf("%s %5.1f%%", cli.FormatMoney(c.Amount), c.SharePercent),
			Color: lipgloss.Color(info.Color),
		})
	}
	return rows
}

// shareStrip renders one full-width bar split by category share.
func shareStrip(ranked []model.CategoryTotal, width int) string {
	t := theme.Active
	if len(ranked) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("Nothing to show yet")
	}

	var bar, legend strings.Builder
	used := 0
	for i, c := range ranked {
		cells := int(c.SharePercent / 100 * float64(width))
		if i == len(ranked)-1 {
			cells = width - used
		}
		cells = max(0, min(cells, width-used))
		used += cells

		color := lipgloss.Color(config.LookupCategory(c.Category).Color)
		bar.WriteString(lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(strings.Repeat("█", cells)))

		if i > 0 {
			legend.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
		}
		legend.WriteString(lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render("■ "))
		legend.WriteString(lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
			Render(fmt.Sprintf("%s %.0f%%", c.Category, c.SharePercent)))
	}
	return bar.String() + "\n" + lipgloss.NewStyle().Width(width).Background(t.Surface).Render(legend.String())
}
