// Package tui provides the interactive Bubble Tea dashboard for paycycle.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/config"
	"github.com/theirongolddev/paycycle/internal/log"
	"github.com/theirongolddev/paycycle/internal/model"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/store"
	"github.com/theirongolddev/paycycle/internal/tui/components"
	"github.com/theirongolddev/paycycle/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Options configures the dashboard.
type Options struct {
	DBPath     string
	ConfigPath string
	Config     config.Config
	Today      func() time.Time
	NeedSetup  bool
	// RefreshInterval enables auto-refresh when positive.
	RefreshInterval time.Duration
	Logger          *log.Logger
}

// DataLoadedMsg is sent when a snapshot load finishes.
type DataLoadedMsg struct {
	Snap     pipeline.Snapshot
	LoadTime time.Duration
	Err      error
}

// RefreshDataMsg is sent when a background refresh completes.
type RefreshDataMsg DataLoadedMsg

// savedMsg reports the outcome of a write made from the dashboard.
type savedMsg struct {
	err error
}

// App is the root Bubble Tea model.
type App struct {
	opts   Options
	cfg    config.Config
	logger *log.Logger

	// Data
	snap     pipeline.Snapshot
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// Derived for the current day
	now      time.Time
	report   model.CycleReport
	days     []model.DailySpend
	ranking  []model.CategoryTotal
	expenses []model.Expense // newest first
	annual   model.AnnualReport
	years    []int
	year     int
	trends   model.TrendReport
	goals    []model.GoalProgress

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	expState expensesState
	settings settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	scrollOverhead   = 10 // approximate header + status bar height for half-page calc
	minContentHeight = 5

	defaultRefresh = 30 * time.Second
	minRefresh     = 5 * time.Second
)

const (
	tabOverview = iota
	tabCategories
	tabExpenses
	tabAnnual
	tabTrends
	tabSettings
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	if opts.Today == nil {
		opts.Today = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	interval := opts.RefreshInterval
	if interval > 0 && interval < minRefresh {
		interval = minRefresh
	}
	auto := interval > 0
	if !auto {
		interval = defaultRefresh
	}

	return App{
		opts:            opts,
		cfg:             opts.Config,
		logger:          logger,
		needSetup:       opts.NeedSetup,
		autoRefresh:     auto,
		refreshInterval: interval,
		spinner:         sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts.DBPath, a.logger, false),
		a.spinner.Tick,
		tickCmd(),
	)
}

// recompute derives every tab's data from the loaded snapshot.
func (a *App) recompute() {
	now := a.opts.Today()
	a.now = now
	snap := a.snap

	a.report = pipeline.BuildCycleReport(snap, now)
	a.days = pipeline.AggregateDays(snap.Expenses, a.report.Cycle.Start, a.report.WindowEnd)
	a.ranking = pipeline.RankCategories(a.report.Spend)
	a.expenses = sortedExpenses(snap.Expenses)

	a.years = pipeline.AvailableYears(snap.Expenses, snap.Config, now)
	if a.year == 0 {
		a.year = now.Year()
	}
	a.annual = pipeline.BuildAnnualReportAt(a.year, snap, now)
	a.trends = pipeline.AnalyzeTrends(snap.Expenses, snap.Config.BaseSalary, snap.Incomes, now)

	a.goals = make([]model.GoalProgress, 0, len(snap.Goals))
	for _, g := range snap.Goals {
		a.goals = append(a.goals, pipeline.GoalProgress(g, now))
	}

	a.expState.clamp(len(a.visibleExpenses()))
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		return a.updateKeys(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.loadErr = msg.Err
		a.loadTime = msg.LoadTime
		a.lastRefresh = time.Now()
		if msg.Err == nil {
			a.snap = msg.Snap
		}
		a.recompute()

		if a.needSetup {
			a.setupVals = SetupValuesFrom(a.cfg, a.snap.Config.BaseSalary, a.snap.Config.Payday)
			a.setupForm = NewSetupForm(&a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		a.loadErr = msg.Err
		if msg.Err == nil {
			a.snap = msg.Snap
			a.loadTime = msg.LoadTime
		}
		a.recompute()
		return a, nil

	case savedMsg:
		a.settings.saveErr = msg.err
		a.settings.saved = msg.err == nil
		if msg.err != nil {
			return a, nil
		}
		a.refreshing = true
		return a, loadDataCmd(a.opts.DBPath, a.logger, true)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, loadDataCmd(a.opts.DBPath, a.logger, true))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.settings.editing {
		var cmd tea.Cmd
		a.settings.input, cmd = a.settings.input.Update(msg)
		return a, cmd
	}
	if a.expState.searching {
		var cmd tea.Cmd
		a.expState.searchInput, cmd = a.expState.searchInput.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Text inputs own the keyboard while active.
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}
	if a.activeTab == tabExpenses && a.expState.searching {
		return a.updateExpensesSearch(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabExpenses:
		if m, cmd, ok := a.updateExpensesKeys(key); ok {
			return m, cmd
		}
	case tabAnnual:
		if m, ok := a.updateAnnualKeys(key); ok {
			return m, nil
		}
	case tabSettings:
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		case "S":
			return a.startSetup()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, loadDataCmd(a.opts.DBPath, a.logger, true)
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		return a, nil
	case "left", "h":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "l", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabExpenses && !a.expState.searching {
			a.expState.move(-1, len(a.visibleExpenses()))
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabExpenses && !a.expState.searching {
			a.expState.move(1, len(a.visibleExpenses()))
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// startSetup reopens the setup wizard from the settings tab.
func (a App) startSetup() (tea.Model, tea.Cmd) {
	a.needSetup = true
	a.setupVals = SetupValuesFrom(a.cfg, a.snap.Config.BaseSalary, a.snap.Config.Payday)
	a.setupForm = NewSetupForm(&a.setupVals)
	if a.width > 0 {
		a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
	}
	return a, a.setupForm.Init()
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.needSetup = false
		a.setupForm = nil
		cfg := a.cfg
		if err := a.setupVals.Apply(&cfg); err != nil {
			a.settings.saveErr = err
			return a, nil
		}
		a.applyConfig(cfg)
		vals := a.setupVals
		return a, a.saveCmd(cfg, func(ctx context.Context, st *store.Store) error {
			return vals.SaveSalary(ctx, st, time.Now())
		})
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

// applyConfig makes cfg live for the running dashboard.
func (a *App) applyConfig(cfg config.Config) {
	a.cfg = cfg
	theme.SetActive(cfg.Appearance.Theme)
	if cfg.General.Currency != "" {
		cli.Currency = cfg.General.Currency
	}
}

// saveCmd writes cfg to disk and, when write is non-nil, runs it against
// the store. The result comes back as a savedMsg.
func (a App) saveCmd(cfg config.Config, write func(ctx context.Context, st *store.Store) error) tea.Cmd {
	path, dbPath, logger := a.opts.ConfigPath, a.opts.DBPath, a.logger
	return func() tea.Msg {
		var err error
		if path != "" {
			err = config.SaveTo(path, cfg)
		} else {
			err = config.Save(cfg)
		}
		if err != nil {
			return savedMsg{err: fmt.Errorf("saving config: %w", err)}
		}
		if write == nil {
			return savedMsg{}
		}

		st, err := store.Open(dbPath)
		if err != nil {
			return savedMsg{err: err}
		}
		defer func() { _ = st.Close() }()
		if err := write(context.Background(), st); err != nil {
			logger.Error("dashboard write failed", log.FieldPath, dbPath, log.FieldError, err)
			return savedMsg{err: err}
		}
		return savedMsg{}
	}
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  paycycle needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ paycycle"))
	b.WriteString(subtitleStyle.Render(" · payday to payday"))
	b.WriteString("\n\n")
	b.WriteString(spinnerStyle.Render(a.spinner.View()))
	b.WriteString(subtitleStyle.Render(" Loading " + a.opts.DBPath))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o c e a t x", "Jump to tab"},
			{"← → / h l", "Previous / Next tab"},
			{"j k", "Move in lists"},
			{"g G", "First / Last expense"},
			{"^d ^u", "Half-page scroll"},
			{"[ ]", "Previous / Next year (Annual)"},
		}},
		{"Actions", [][2]string{
			{"/", "Search expenses"},
			{"Enter", "Edit setting / Confirm"},
			{"Esc", "Cancel / Clear search"},
			{"S", "Rerun setup (Settings)"},
			{"r", "Refresh data"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-12s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	info := components.StatusInfo{
		Cycle:       cli.FormatRange(a.report.Cycle.Start, a.report.Cycle.End),
		DataAge:     fmt.Sprintf("%dms", a.loadTime.Milliseconds()),
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
	}
	if a.loadErr != nil {
		info.Err = truncStr(a.loadErr.Error(), w/2)
	}
	statusBar := components.RenderStatusBar(w, info)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabCategories:
		content = a.renderCategoriesTab(cw)
	case tabExpenses:
		content = a.renderExpensesTab(cw, contentH)
	case tabAnnual:
		content = a.renderAnnualTab(cw)
	case tabTrends:
		content = a.renderTrendsTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Loading ────────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadDataCmd opens the store and reads a snapshot. refresh selects the
// message type so the first load can drive the loading screen.
func loadDataCmd(dbPath string, logger *log.Logger, refresh bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		msg := DataLoadedMsg{}

		st, err := store.Open(dbPath)
		if err == nil {
			msg.Snap, err = pipeline.LoadSnapshot(context.Background(), st)
			_ = st.Close()
		}
		msg.Err = err
		msg.LoadTime = time.Since(start)

		if err != nil {
			logger.Error("snapshot load failed", log.FieldPath, dbPath, log.FieldError, err)
		} else {
			logger.Debug("snapshot loaded", log.FieldPath, dbPath,
				log.FieldCount, len(msg.Snap.Expenses), log.FieldDuration, msg.LoadTime.Milliseconds())
		}

		if refresh {
			return RefreshDataMsg(msg)
		}
		return msg
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// chartDateLabels builds compact x-axis labels for consecutive days, oldest
// first: the month name on the first day and at month boundaries, the day
// number elsewhere.
func chartDateLabels(days []model.DailySpend) []string {
	labels := make([]string, len(days))
	var prev time.Month
	for i, d := range days {
		m := d.Date.Month()
		switch {
		case i == 0, m != prev && i != len(days)-1:
			labels[i] = d.Date.Format("Jan")
		default:
			labels[i] = strconv.Itoa(d.Date.Day())
		}
		prev = m
	}
	return labels
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow RenderTabBar: tabs separated by one column.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1
	}
	return -1
}
