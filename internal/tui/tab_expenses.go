package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/config"
	"github.com/theirongolddev/paycycle/internal/model"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/tui/components"
	"github.com/theirongolddev/paycycle/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// expensesState holds the expenses tab state.
type expensesState struct {
	cursor int
	offset int // first visible row

	allDates bool   // false: current cycle window only
	category string // "" means every category

	searching   bool
	searchInput textinput.Model
	searchQuery string
}

func (s *expensesState) clamp(n int) {
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.offset > s.cursor {
		s.offset = s.cursor
	}
}

func (s *expensesState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
}

// nextCategory cycles the filter through every category and back to all.
func (s *expensesState) nextCategory() {
	if s.category == "" {
		s.category = model.Categories[0]
		return
	}
	for i, c := range model.Categories {
		if c == s.category {
			if i+1 < len(model.Categories) {
				s.category = model.Categories[i+1]
			} else {
				s.category = ""
			}
			return
		}
	}
	s.category = ""
}

func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "description or category"
	ti.CharLimit = 80
	ti.Width = 40
	ti.Prompt = "/ "
	return ti
}

// sortedExpenses returns a copy of expenses, newest date first.
func sortedExpenses(expenses []model.Expense) []model.Expense {
	out := make([]model.Expense, len(expenses))
	copy(out, expenses)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// visibleExpenses applies the window, category and search filters.
func (a App) visibleExpenses() []model.Expense {
	es := a.expState
	query := strings.ToLower(es.searchQuery)

	var out []model.Expense
	for _, e := range a.expenses {
		if !es.allDates {
			d, ok := pipeline.ParseDate(e.Date)
			if !ok || d.Before(a.report.Cycle.Start) || d.After(a.report.WindowEnd) {
				continue
			}
		}
		if es.category != "" && e.CategoryOrOther() != es.category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(e.Description), query) &&
			!strings.Contains(strings.ToLower(e.Category), query) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// updateExpensesKeys handles list navigation. ok is false when the key
// should fall through to the global bindings.
func (a App) updateExpensesKeys(key string) (tea.Model, tea.Cmd, bool) {
	n := len(a.visibleExpenses())
	halfPage := max((a.height-scrollOverhead)/2, 1)

	switch key {
	case "/":
		a.expState.searching = true
		a.expState.searchInput = newSearchInput()
		a.expState.searchInput.SetValue(a.expState.searchQuery)
		a.expState.searchInput.Focus()
		return a, a.expState.searchInput.Cursor.BlinkCmd(), true
	case "esc":
		if a.expState.searchQuery != "" || a.expState.category != "" {
			a.expState.searchQuery = ""
			a.expState.category = ""
			a.expState.cursor, a.expState.offset = 0, 0
		}
		return a, nil, true
	case "j", "down":
		a.expState.move(1, n)
	case "k", "up":
		a.expState.move(-1, n)
	case "ctrl+d":
		a.expState.move(halfPage, n)
	case "ctrl+u":
		a.expState.move(-halfPage, n)
	case "g":
		a.expState.cursor, a.expState.offset = 0, 0
	case "G":
		a.expState.move(n, n)
	case "f":
		a.expState.nextCategory()
		a.expState.cursor, a.expState.offset = 0, 0
	case "v":
		a.expState.allDates = !a.expState.allDates
		a.expState.cursor, a.expState.offset = 0, 0
	default:
		return a, nil, false
	}
	return a, nil, true
}

// updateExpensesSearch handles key events while in search mode.
func (a App) updateExpensesSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.expState.searchQuery = strings.TrimSpace(a.expState.searchInput.Value())
		a.expState.searching = false
		a.expState.cursor, a.expState.offset = 0, 0
		return a, nil
	case "esc":
		a.expState.searching = false
		return a, nil
	}

	var cmd tea.Cmd
	a.expState.searchInput, cmd = a.expState.searchInput.Update(msg)
	return a, cmd
}

func (a App) renderExpensesTab(cw, h int) string {
	t := theme.Active
	list := a.visibleExpenses()

	filters := []string{"cycle " + cli.FormatRange(a.report.Cycle.Start, a.report.WindowEnd)}
	if a.expState.allDates {
		filters[0] = "all dates"
	}
	if a.expState.category != "" {
		filters = append(filters, a.expState.category)
	}
	if a.expState.searchQuery != "" {
		filters = append(filters, fmt.Sprintf("%q", a.expState.searchQuery))
	}

	total := decimal.Zero
	for _, e := range list {
		total = total.Add(pipeline.NonNegative(e.Amount))
	}
	title := fmt.Sprintf("Expenses · %s · %d · %s", strings.Join(filters, " · "), len(list), cli.FormatMoney(total))

	leftW := cw
	if !a.isCompactLayout() {
		leftW = cw * 3 / 5
	}

	listBody := a.renderExpenseList(list, components.CardInnerWidth(leftW), h)
	left := components.ContentCard(title, listBody, leftW)
	if a.isCompactLayout() {
		return left
	}

	var detail string
	if a.expState.cursor < len(list) && len(list) > 0 {
		detail = renderExpenseDetail(list[a.expState.cursor])
	} else {
		detail = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("Nothing selected")
	}
	right := components.ContentCard("Detail", detail, cw-leftW)
	return components.CardRow([]string{left, right})
}

func (a App) renderExpenseList(list []model.Expense, innerW, h int) string {
	t := theme.Active
	es := a.expState

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	if es.searching {
		b.WriteString(es.searchInput.View())
		b.WriteString("\n")
	}

	if len(list) == 0 {
		b.WriteString(muted.Render("No expenses match"))
		return b.String()
	}

	amountW := 12
	catW := 11
	descW := max(10, innerW-10-catW-amountW-3)
	line := func(date, desc, cat, amount string) string {
		return fmt.Sprintf("%-10s %-*s %-*s %*s", date, descW, truncStr(desc, descW), catW, cat, amountW, amount)
	}
	b.WriteString(headerStyle.Render(line("Date", "Description", "Category", "Amount")))
	b.WriteString("\n")

	visible := max(h-6, 3) // card border, title, header, hint
	if es.searching {
		visible--
	}
	offset := es.offset
	if es.cursor < offset {
		offset = es.cursor
	}
	if es.cursor >= offset+visible {
		offset = es.cursor - visible + 1
	}

	end := min(offset+visible, len(list))
	for i := offset; i < end; i++ {
		e := list[i]
		row := line(e.Date, e.Description, e.CategoryOrOther(), cli.FormatMoney(e.Amount))
		if i == es.cursor {
			b.WriteString(selStyle.Render(fmt.Sprintf("%-*s", innerW, row)))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	b.WriteString(muted.Render(fmt.Sprintf("%d-%d of %d  [/]search [f]category [v]dates [esc]clear", offset+1, end, len(list))))
	return b.String()
}

func renderExpenseDetail(e model.Expense) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	amount := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	info := config.LookupCategory(e.CategoryOrOther())
	cat := lipgloss.NewStyle().Foreground(lipgloss.Color(info.Color)).Background(t.Surface).
		Render(info.Icon + " " + info.Name)

	day := e.Date
	if d, ok := pipeline.ParseDate(e.Date); ok {
		day = fmt.Sprintf("%s, %s", cli.FormatDayOfWeek(int(d.Weekday())), cli.FormatDate(d))
	}

	rows := []string{
		value.Render(e.Description),
		amount.Render(cli.FormatMoney(e.Amount)),
		"",
		label.Render("Date      ") + value.Render(day),
		label.Render("Category  ") + cat,
		label.Render("ID        ") + value.Render(e.ID),
	}
	if !e.CreatedAt.IsZero() {
		rows = append(rows, label.Render("Added     ")+value.Render(e.CreatedAt.Local().Format("2006-01-02 15:04")))
	}
	return strings.Join(rows, "\n")
}
