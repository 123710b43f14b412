package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"RationalPrice/internal/analysis"
	"RationalPrice/internal/collector"
	"RationalPrice/internal/config"
	"RationalPrice/internal/notifier"
	"RationalPrice/internal/scheduler"
	"RationalPrice/internal/store"

	"github.com/spf13/cobra"
)

var version = "dev"

// flags holds command-line overrides; zero values leave the config untouched.
var flags struct {
	config   string
	symbol   string
	start    string
	end      string
	provider string
	csv      string
	rows     int
	rate     float64
	yield    float64
	noCache  bool
	notify   bool
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:           "rationalprice",
	Short:         "Compare an index's volatility with its ex-post rational price.",
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runAnalysis,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch prices, compute the ex-post rational price and print the comparison.",
	RunE:  runAnalysis,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the analysis on the configured cron schedule.",
	RunE:  runWatch,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "config file (default $CONFIG_PATH or configs/config.yaml)")
	pf.StringVar(&flags.symbol, "symbol", "", "instrument identifier, e.g. ^GSPC")
	pf.StringVar(&flags.start, "start", "", "first date, YYYY-MM-DD")
	pf.StringVar(&flags.end, "end", "", "end date (exclusive), YYYY-MM-DD")
	pf.StringVar(&flags.provider, "provider", "", "data source: yahoo, financego or mock")
	pf.StringVar(&flags.csv, "csv", "", "write the aligned series to this CSV file")
	pf.IntVar(&flags.rows, "rows", 0, "number of trailing periods to print (negative for none)")
	pf.Float64Var(&flags.rate, "rate", 0, "annual discount rate")
	pf.Float64Var(&flags.yield, "yield", 0, "dividend yield")
	pf.BoolVar(&flags.noCache, "no-cache", false, "bypass the SQLite price cache")
	pf.BoolVar(&flags.notify, "notify", false, "send the report to Telegram when configured")

	rootCmd.AddCommand(runCmd, watchCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := flags.config
	if path == "" {
		path = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if flags.symbol != "" {
		cfg.DataSource.Symbol = flags.symbol
	}
	if flags.start != "" {
		cfg.DataSource.Start = flags.start
	}
	if flags.end != "" {
		cfg.DataSource.End = flags.end
	}
	if flags.provider != "" {
		cfg.DataSource.Provider = flags.provider
	}
	if flags.csv != "" {
		cfg.Report.CSVPath = flags.csv
	}
	if flags.rows != 0 {
		cfg.Report.Rows = flags.rows
	}
	if cmd.Flags().Changed("rate") {
		cfg.SetDiscountRate(flags.rate)
	}
	if cmd.Flags().Changed("yield") {
		cfg.SetDividendYield(flags.yield)
	}
	if flags.noCache {
		cfg.Cache.Disabled = true
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case "financego":
		return collector.NewFinanceGoFetcher()
	case "mock":
		return &collector.MockFetcher{Price: 100, Growth: 0.007}
	default:
		return collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
}

func newStore(cfg *config.Config) store.Store {
	if cfg.Cache.Disabled || cfg.Cache.SQLitePath == "" {
		return store.NewNoopStore()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Cache.SQLitePath), 0o755); err != nil {
		log.Printf("[WARN] create cache dir failed, using noop: %v", err)
		return store.NewNoopStore()
	}
	st, err := store.NewSQLiteStore(cfg.Cache.SQLitePath, cfg.Cache.TTL)
	if err != nil {
		log.Printf("[WARN] init sqlite cache failed, using noop: %v", err)
		return store.NewNoopStore()
	}
	return st
}

// newScheduler wires the pipeline. The returned store must be closed by the caller.
func newScheduler(ctx context.Context, cfg *config.Config, notify bool) (*scheduler.Scheduler, store.Store, error) {
	start, err := cfg.StartDate()
	if err != nil {
		return nil, nil, err
	}
	end, err := cfg.EndDate()
	if err != nil {
		return nil, nil, err
	}

	fetcher := newFetcher(cfg)
	log.Printf("[INFO] data source: %s", fetcher.Name())
	st := newStore(cfg)
	col := collector.NewCollector(fetcher, st, cfg.DataSource.Symbol, cfg.DataSource.Interval, start, end)

	var sender scheduler.Sender
	if notify && cfg.TelegramEnabled() {
		sender = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	params := analysis.Params{
		AnnualDiscountRate: cfg.Model.AnnualDiscountRate,
		DividendYield:      cfg.Model.DividendYield,
		PeriodsPerYear:     cfg.Model.PeriodsPerYear,
	}
	sched := scheduler.NewScheduler(ctx, col, params, sender, scheduler.Options{
		Out:       os.Stdout,
		Rows:      cfg.Report.Rows,
		Precision: cfg.Report.Precision,
		CSVPath:   cfg.Report.CSVPath,
	})
	return sched, st, nil
}

func runAnalysis(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sched, st, err := newScheduler(ctx, cfg, flags.notify)
	if err != nil {
		return err
	}
	defer st.Close()

	_, err = sched.RunOnce(ctx)
	return err
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched, st, err := newScheduler(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing analysis now")
		go sched.RunNow()
	}

	log.Printf("[INFO] watching %s on %q. Press Ctrl+C to stop.", cfg.DataSource.Symbol, cfg.Schedule.Cron)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	return nil
}
