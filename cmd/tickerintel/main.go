// Command tickerintel serves the ticker intelligence dashboard.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/seenimoa/tickerintel/api"
	"github.com/seenimoa/tickerintel/internal/config"
	"github.com/seenimoa/tickerintel/internal/logging"
	"github.com/seenimoa/tickerintel/internal/providers/sec"
	"github.com/seenimoa/tickerintel/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger
var (
	cfg    *config.Config
	logger *logging.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tickerintel",
	Short: "tickerintel — news, SEC filings and AI filing summaries for a ticker",
	Long: `tickerintel
A single-page dashboard that shows recent news headlines and the latest SEC
EDGAR filings for a stock ticker, with an on-demand language-model summary
of any filing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		logger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(filingsCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tickerintel %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (dashboard server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("host") {
			cfg.Server.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}

		api.Version = version
		srv, err := api.NewServer(cfg, logger)
		if err != nil {
			return err
		}
		fmt.Printf("🌐 Starting tickerintel on http://%s\n", cfg.Server.Addr())
		return srv.ListenAndServe(cfg.Server.Addr())
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (default from config)")
	serveCmd.Flags().Int("port", 0, "listen port (default from config)")
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [ticker]",
	Short: "Print the latest headlines for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := api.NewServer(cfg, logger)
		if err != nil {
			return err
		}
		ctx, cancel := cfg.Server.WithTimeout(cmd.Context())
		defer cancel()

		ticker := utils.NormalizeTicker(args[0])
		news, err := srv.Service().News(ctx, ticker)
		if err != nil {
			return err
		}

		fmt.Printf("📰 Latest Market News: %s\n", ticker)
		if news.Empty() {
			fmt.Println("   No news found for this ticker.")
			return nil
		}
		if news.Fallback {
			fmt.Printf("   (headlines from %s)\n", news.Source)
		}
		for _, item := range news.Items {
			fmt.Printf("\n • %s\n   Source: %s\n   %s\n", item.Title, item.Source, item.Link)
		}
		return nil
	},
}

// --- Filings Command ---

var filingsCmd = &cobra.Command{
	Use:   "filings [ticker]",
	Short: "Print the most recent SEC filings for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := api.NewServer(cfg, logger)
		if err != nil {
			return err
		}
		ctx, cancel := cfg.Server.WithTimeout(cmd.Context())
		defer cancel()

		ticker := utils.NormalizeTicker(args[0])
		filings, err := srv.Service().Filings(ctx, ticker)
		if errors.Is(err, sec.ErrTickerNotFound) {
			fmt.Println("Ticker not found.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("📄 SEC Filings: %s\n\n", ticker)
		for _, f := range filings {
			fmt.Printf("  %s | %-8s %s  %s\n", f.Date, f.Form, f.AccessionNumber, f.URL)
		}
		return nil
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  tickerintel — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    LLM Backend:   %s (model: %s)\n", cfg.LLM.Backend, cfg.LLM.Model)
		fmt.Printf("    Server:        %s\n", cfg.Server.Addr())
		fmt.Printf("    Default:       %s\n", cfg.Server.DefaultTicker)
		fmt.Printf("    SEC Agent:     %s\n", cfg.SEC.UserAgent)
		fmt.Println()

		// Upstream reachability
		ctx, cancel := context.WithTimeout(cmd.Context(), 20*time.Second)
		defer cancel()

		edgar := sec.New(cfg.SEC, cfg.HTTP, logger, nil)
		fmt.Println("  Upstreams:")
		if err := edgar.Ping(ctx); err != nil {
			fmt.Printf("    %-25s ❌ %v\n", "SEC submissions:", err)
		} else {
			fmt.Printf("    %-25s ✅ reachable\n", "SEC submissions:")
		}
		if err := edgar.Tickers().Load(ctx); err != nil {
			fmt.Printf("    %-25s ❌ %v\n", "SEC ticker registry:", err)
		} else {
			fmt.Printf("    %-25s ✅ %d tickers\n", "SEC ticker registry:", edgar.Tickers().Len())
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
