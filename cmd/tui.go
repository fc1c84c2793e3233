package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/paycycle/internal/config"
	"github.com/theirongolddev/paycycle/internal/log"
	"github.com/theirongolddev/paycycle/internal/store"
	"github.com/theirongolddev/paycycle/internal/tui"
	"github.com/theirongolddev/paycycle/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagRefresh time.Duration

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().DurationVar(&flagRefresh, "refresh", 0, "Auto-refresh interval, e.g. 30s (0 disables)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	if !isInteractive() {
		return errors.New("the dashboard needs an interactive terminal; try `paycycle summary`")
	}

	// Migrate and seed before the dashboard opens its own connections.
	if err := withStore(func(context.Context, *store.Store) error { return nil }); err != nil {
		return err
	}

	// Logs would corrupt the alt screen, so they go to a file.
	logger := log.Nop()
	logPath := filepath.Join(config.DataDir(), "tui.log")
	if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600); err == nil {
		defer func() { _ = f.Close() }()
		logger = log.New(log.Config{
			Level:     log.ParseLevel(appCfg.Log.Level),
			Format:    appCfg.Log.Format,
			Component: log.ComponentTUI,
			Output:    f,
		})
		log.SetDefault(logger)
	}

	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	now := time.Now
	if flagToday != "" {
		fixed, err := today()
		if err != nil {
			return err
		}
		now = func() time.Time { return fixed }
	}

	app := tui.NewApp(tui.Options{
		DBPath:          dbPath(),
		ConfigPath:      flagConfig,
		Config:          appCfg,
		Today:           now,
		NeedSetup:       flagConfig == "" && !config.Exists(),
		RefreshInterval: flagRefresh,
		Logger:          logger,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
