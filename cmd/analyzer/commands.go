package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/console"
	"StockAnalyzer/internal/notifier"
	"StockAnalyzer/internal/scheduler"
	"StockAnalyzer/internal/session"
	"StockAnalyzer/internal/strategy"
)

var version = "dev"

type options struct {
	configPath string
	provider   string
	runOnStart bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "analyzer",
		Short: "Interactive stock moving-average analyzer",
		Long: `analyzer fetches daily prices for one ticker, adds 20/50-day moving averages,
lets you browse, filter and export the table, and charts custom averages and
crossover Buy/Sell signals.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), opts)
		},
	}

	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", defaultConfig, "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&opts.provider, "provider", "", "Data provider (yahoo, financego, mock)")

	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newWatchCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the crossover analysis on a schedule and send alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.runOnStart, "run-now", false, "Run the watch task once at startup")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "analyzer %s\n", version)
		},
	}
}

// loadConfig loads and validates configuration, applying the --provider flag last.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.provider != "" {
		cfg.DataSource.Provider = opts.provider
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// setupLogging sends the log to cfg.Log.File when set. Interactive runs
// without a log file keep stderr so logs never mix with the table output.
func setupLogging(cfg *config.Config) (func(), error) {
	if cfg.Log.File == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

// newFetcher builds the configured provider, wrapped by the SQLite cache when a path is set.
func newFetcher(cfg *config.Config) (collector.Fetcher, func()) {
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderFinanceGo:
		fetcher = collector.NewFinanceGoFetcher()
	case config.ProviderMock:
		fetcher = &collector.MockFetcher{Price: 100}
	default:
		fetcher = collector.NewYahooFetcher(cfg.DataSource.Proxy, cfg.DataSource.Timeout)
	}

	if cfg.Cache.SQLitePath == "" {
		return fetcher, func() {}
	}
	cached, err := collector.NewCachedFetcher(fetcher, cfg.Cache.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init price cache failed, fetching uncached: %v", err)
		return fetcher, func() {}
	}
	return cached, func() { cached.Close() }
}

// prepare loads config, sets up logging and builds the fetcher. The returned
// cleanup closes the cache and the log file.
func prepare(opts *options, validate func(*config.Config) error) (*config.Config, collector.Fetcher, func(), error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, nil, err
	}
	if validate != nil {
		if err := validate(cfg); err != nil {
			return nil, nil, nil, fmt.Errorf("config validation: %w", err)
		}
	}
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	fetcher, closeFetcher := newFetcher(cfg)
	log.Printf("[INFO] data source: %s", fetcher.Name())
	cleanup := func() {
		closeFetcher()
		closeLog()
	}
	return cfg, fetcher, cleanup, nil
}

func runInteractive(ctx context.Context, opts *options) error {
	cfg, fetcher, cleanup, err := prepare(opts, nil)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	defer cleanup()

	s := session.New(
		console.NewPrompter(os.Stdin, os.Stdout),
		console.NewOutput(os.Stdout),
		collector.NewCollector(fetcher),
		cfg.Output.ChartsDir,
	)
	s.Crossover = strategy.CrossoverConfig{Short: cfg.Analysis.ShortWindow, Long: cfg.Analysis.LongWindow}
	return s.Run(ctx)
}

func runWatch(ctx context.Context, opts *options) error {
	cfg, fetcher, cleanup, err := prepare(opts, (*config.Config).ValidateWatch)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	defer cleanup()

	var n notifier.Notifier = notifier.LogNotifier{}
	if cfg.Telegram.BotToken != "" {
		n = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.DataSource.Proxy)
	}

	sched := scheduler.NewScheduler(ctx, collector.NewCollector(fetcher), n, cfg.Watch.Symbol, cfg.Watch.LookbackDays,
		strategy.CrossoverConfig{Short: cfg.Analysis.ShortWindow, Long: cfg.Analysis.LongWindow})
	if err := sched.Register(cfg.Watch.Cron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if opts.runOnStart {
		log.Println("[INFO] --run-now enabled, executing watch task now")
		go sched.RunNow()
	}

	log.Println("[INFO] watching. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
	return nil
}

