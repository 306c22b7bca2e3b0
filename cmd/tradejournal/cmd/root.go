package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tradejournal",
	Short: "A personal trade journal with position and P/L reconstruction",
	Long: `Tradejournal records manual buy and sell entries and derives positions,
average cost, realized P/L and win rate from them.

It provides tools for:
  - Adding, editing and deleting journal entries
  - Portfolio summaries over WEEK, MONTH, QUARTER, HALFYEAR, YEAR or ALL
  - CSV import and export
  - An HTTP API for dashboards

Configuration is read from --config (YAML or JSON) and TRADEJOURNAL_*
environment variables, which may also live in a .env file.`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	dbPath   string
	userFlag string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite journal DB (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "journal owner (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

// app is what every journal command runs against.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	journal *journal.Journal
	user    string
}

func (a *app) Close() {
	if err := a.journal.Close(); err != nil {
		a.log.Warn("close journal", zap.Error(err))
	}
	_ = a.log.Sync()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = dbPath
	}
	if userFlag != "" {
		cfg.Journal.User = userFlag
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	st, err := journal.Open(ctx, cfg.Journal, log)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	j := journal.New(st, cfg.LedgerOptions(),
		journal.WithLogger(log),
		journal.WithLocation(loc),
	)
	return &app{cfg: cfg, log: log, journal: j, user: cfg.Journal.User}, nil
}
