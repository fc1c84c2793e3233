package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/theirongolddev/paycycle/internal/cli"
	"github.com/theirongolddev/paycycle/internal/config"
	"github.com/theirongolddev/paycycle/internal/log"
	"github.com/theirongolddev/paycycle/internal/pipeline"
	"github.com/theirongolddev/paycycle/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagDB       string
	flagToday    string
	flagConfig   string
	flagLogLevel string
	flagQuiet    bool
)

// appCfg is the loaded configuration, set by the root pre-run hook.
var appCfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:   "paycycle",
	Short: "Salary cycle spend tracker",
	Long:  "Track spending against your salary cycle: payday to payday, with an end-of-cycle projection.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfig()
	},
	SilenceUsage: true,
	RunE:         runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagToday, "today", "", "Evaluate as of this date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

func loadConfig() error {
	config.LoadDotEnv()

	var (
		cfg config.Config
		err error
	)
	if flagConfig != "" {
		cfg, err = config.LoadFrom(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	appCfg = cfg
	if cfg.General.Currency != "" {
		cli.Currency = cfg.General.Currency
	}
	log.SetDefault(newLogger(log.ComponentApp))
	return nil
}

func newLogger(component string) *log.Logger {
	return log.New(log.Config{
		Level:     log.ParseLevel(appCfg.Log.Level),
		Format:    appCfg.Log.Format,
		Component: component,
		Output:    os.Stderr,
	})
}

func dbPath() string {
	if flagDB != "" {
		return flagDB
	}
	return appCfg.DBPath()
}

// openStore opens the database. A store that has never saved salary
// settings is seeded from the config defaults.
func openStore(ctx context.Context) (*store.Store, error) {
	path := dbPath()
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}

	logger := newLogger(log.ComponentStore)
	if v, dirty, err := store.SchemaVersion(path); err == nil {
		logger.Debug("store opened", log.FieldPath, path, log.FieldVersion, v, "dirty", dirty)
	}

	has, err := st.HasSalaryConfig(ctx)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	if !has {
		if err := seedSalary(ctx, st); err != nil {
			_ = st.Close()
			return nil, err
		}
	}
	return st, nil
}

func seedSalary(ctx context.Context, st *store.Store) error {
	if s := strings.TrimSpace(appCfg.General.DefaultSalary); s != "" {
		amount, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("default salary: %w", err)
		}
		if err := st.SetBaseSalary(ctx, amount); err != nil {
			return err
		}
	}
	if p := appCfg.General.DefaultPayday; p >= 1 && p <= 31 {
		return st.SetPayday(ctx, p)
	}
	return nil
}

// withSnapshot opens the store, loads every table and hands both to fn.
func withSnapshot(fn func(ctx context.Context, st *store.Store, snap pipeline.Snapshot) error) error {
	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	snap, err := pipeline.LoadSnapshot(ctx, st)
	if err != nil {
		return err
	}
	return fn(ctx, st, snap)
}

// withStore opens the store for a write command.
func withStore(fn func(ctx context.Context, st *store.Store) error) error {
	ctx := context.Background()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return fn(ctx, st)
}

// today returns the evaluation date: --today when set, otherwise now.
func today() (time.Time, error) {
	if flagToday == "" {
		return time.Now(), nil
	}
	d, ok := pipeline.ParseDate(flagToday)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --today %q: want YYYY-MM-DD", flagToday)
	}
	return d, nil
}

// todayString returns today() as a civil date string.
func todayString() (string, error) {
	t, err := today()
	if err != nil {
		return "", err
	}
	return pipeline.DateOf(t).Format("2006-01-02"), nil
}

func parseMoney(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %s must not be negative", s)
	}
	return d, nil
}

func parseDateArg(s string) (string, error) {
	d, ok := pipeline.ParseDate(s)
	if !ok {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return d.Format("2006-01-02"), nil
}

// progress writes a transient status line to stderr unless --quiet.
func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
