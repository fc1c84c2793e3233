// Package cmd implements the paycycle CLI commands.
package cmd

import (
	"fmt"
	"net/url"

	"github.com/theirongolddev/paycycle/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg
	fmt.Printf("  Config file: %s\n", configPath())
	if config.Exists() || flagConfig != "" {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default payday:  %d\n", cfg.General.DefaultPayday)
	if cfg.General.DefaultSalary != "" {
		fmt.Printf("    Default salary:  %s\n", cfg.General.DefaultSalary)
	}
	fmt.Printf("    Currency:        %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Store]")
	fmt.Printf("    Database: %s\n", dbPath())
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Interval:      %s\n", cfg.Daemon.Interval.Duration)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Notify]")
	if cfg.Notify.AMQPURL != "" {
		fmt.Printf("    AMQP:  %s  exchange=%s key=%s\n",
			maskURL(cfg.Notify.AMQPURL), cfg.Notify.Exchange, cfg.Notify.RoutingKey)
	} else {
		fmt.Println("    AMQP:  not configured")
	}
	if cfg.Notify.RedisAddr != "" {
		fmt.Printf("    Redis: %s  channel=%s\n", cfg.Notify.RedisAddr, cfg.Notify.RedisChannel)
	} else {
		fmt.Println("    Redis: not configured")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	fmt.Println()

	fmt.Println("  Run `paycycle setup` to reconfigure.")
	return nil
}

// maskURL hides the password of a broker URL.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
