package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/paycycle/internal/config"
	"github.com/theirongolddev/paycycle/internal/store"
	"github.com/theirongolddev/paycycle/internal/tui"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	if !isInteractive() {
		return errors.New("setup needs an interactive terminal; edit " + config.ConfigPath() + " instead")
	}

	cfg := appCfg
	return withStore(func(ctx context.Context, st *store.Store) error {
		current, err := st.SalaryConfig(ctx)
		if err != nil {
			return err
		}

		vals := tui.SetupValuesFrom(cfg, current.BaseSalary, current.Payday)
		if err := tui.NewSetupForm(&vals).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("  Setup cancelled, nothing saved.")
				return nil
			}
			return err
		}

		if err := vals.Apply(&cfg); err != nil {
			return err
		}
		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		if err := vals.SaveSalary(ctx, st, time.Now()); err != nil {
			return err
		}

		fmt.Println()
		fmt.Printf("  Saved to %s\n", configPath())
		fmt.Println("  Run `paycycle setup` anytime to reconfigure.")
		fmt.Println()
		return nil
	})
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.ConfigPath()
}

func saveConfig(cfg config.Config) error {
	if flagConfig != "" {
		return config.SaveTo(flagConfig, cfg)
	}
	return config.Save(cfg)
}

// isInteractive reports whether both stdin and stdout are terminals.
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // fd fits in int
}
