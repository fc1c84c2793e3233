package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/config"
	"github.com/theirongolddev/paycycle/internal/store"
	"github.com/theirongolddev/paycycle/internal/tui/components"
	"github.com/theirongolddev/paycycle/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	settingsFieldPayday = iota
	settingsFieldSalary
	settingsFieldCurrency
	settingsFieldTheme
	settingsFieldAutoRefresh
	settingsFieldRefreshInterval
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldPayday:
		ti.Placeholder = "1-31"
		ti.SetValue(strconv.Itoa(a.snap.Config.Payday))
	case settingsFieldSalary:
		ti.Placeholder = "monthly net salary"
		ti.SetValue(a.snap.Config.BaseSalary.String())
	case settingsFieldCurrency:
		ti.Placeholder = "$"
		ti.SetValue(a.cfg.General.Currency)
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(theme.Active.Name)
	case settingsFieldAutoRefresh:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.autoRefresh))
	case settingsFieldRefreshInterval:
		ti.Placeholder = "30s"
		ti.SetValue(a.refreshInterval.String())
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settings.editing = false
		cmd, err := a.settingsSave(strings.TrimSpace(a.settings.input.Value()))
		a.settings.saveErr = err
		return a, cmd
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates val for the selected field. Store and config
// writes run as a command; dashboard-only settings apply immediately.
func (a *App) settingsSave(val string) (tea.Cmd, error) {
	cfg := a.cfg

	switch a.settings.cursor {
	case settingsFieldPayday:
		if err := validatePayday(val); err != nil {
			return nil, err
		}
		payday, _ := strconv.Atoi(val)
		return a.saveCmd(cfg, func(ctx context.Context, st *store.Store) error {
			return saveSalary(ctx, st, &payday, nil, time.Now())
		}), nil

	case settingsFieldSalary:
		if val == "" {
			return nil, errors.New("salary is required")
		}
		if err := validateSalary(val); err != nil {
			return nil, err
		}
		salary, _ := decimal.NewFromString(val)
		return a.saveCmd(cfg, func(ctx context.Context, st *store.Store) error {
			return saveSalary(ctx, st, nil, &salary, time.Now())
		}), nil

	case settingsFieldCurrency:
		if val == "" {
			return nil, errors.New("currency symbol is required")
		}
		cfg.General.Currency = val

	case settingsFieldTheme:
		if !theme.Valid(val) {
			return nil, fmt.Errorf("unknown theme %q", val)
		}
		cfg.Appearance.Theme = val

	case settingsFieldAutoRefresh:
		on, err := strconv.ParseBool(val)
		if err != nil {
			return nil, errors.New("enter true or false")
		}
		a.autoRefresh = on
		a.settings.saved = true
		return nil, nil

	case settingsFieldRefreshInterval:
		d, err := time.ParseDuration(val)
		if err != nil {
			return nil, errors.New("enter a duration like 30s or 2m")
		}
		if d < minRefresh {
			return nil, fmt.Errorf("interval must be at least %s", minRefresh)
		}
		a.refreshInterval = d
		a.settings.saved = true
		return nil, nil
	}

	a.applyConfig(cfg)
	return a.saveCmd(cfg, nil), nil
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	salary := "(not set)"
	if a.snap.Config.BaseSalary.IsPositive() {
		salary = cli.FormatMoney(a.snap.Config.BaseSalary)
	}
	refresh := "off"
	if a.autoRefresh {
		refresh = "on"
	}

	fields := []field{
		{"Payday", fmt.Sprintf("day %d", a.snap.Config.Payday)},
		{"Base Salary", salary},
		{"Currency", a.cfg.General.Currency},
		{"Theme", t.Name},
		{"Auto Refresh", refresh},
		{"Refresh Interval", a.refreshInterval.String()},
	}

	innerW := components.CardInnerWidth(cw)
	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			used := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if pad := innerW - used; pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel  [S] setup wizard"))

	cfgPath := a.opts.ConfigPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}
	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Database:        ") + valueStyle.Render(a.opts.DBPath) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(cfgPath) + "\n")
	infoBody.WriteString(labelStyle.Render("Expenses stored: ") + valueStyle.Render(cli.FormatNumber(int64(len(a.snap.Expenses)))) + "\n")
	infoBody.WriteString(labelStyle.Render("History entries: ") + valueStyle.Render(cli.FormatNumber(int64(len(a.snap.History)))) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:       ") + valueStyle.Render(fmt.Sprintf("%dms", a.loadTime.Milliseconds())))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
