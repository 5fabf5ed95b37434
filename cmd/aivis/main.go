package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amosWeiskopf/aivis/internal/api"
	"github.com/amosWeiskopf/aivis/internal/config"
	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/analyzer"
	"github.com/amosWeiskopf/aivis/pkg/fetcher"
	"github.com/amosWeiskopf/aivis/pkg/logger"
	"github.com/amosWeiskopf/aivis/pkg/metrics"
	"github.com/amosWeiskopf/aivis/pkg/prober"
	"github.com/amosWeiskopf/aivis/pkg/prober/serpapi"
	"github.com/amosWeiskopf/aivis/pkg/progress"
	"github.com/amosWeiskopf/aivis/pkg/prompts"
	"github.com/amosWeiskopf/aivis/pkg/reporter"
	"github.com/amosWeiskopf/aivis/pkg/scanner"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const shutdownTimeout = 30 * time.Second

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "aivis",
		Short: "AI visibility scanner",
		Long: `aivis measures how visible a website is to AI answer engines: structured
data coverage, crawler access and technical readiness, and brand mentions
for industry prompts, benchmarked against competitors.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	rootCmd.AddCommand(newScanCmd(models.ModeFull))
	rootCmd.AddCommand(newScanCmd(models.ModeQuick))
	rootCmd.AddCommand(newPromptsCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// loadConfig reads configuration and installs the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logger.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildScanner wires the fetcher, audits and prober into a Scanner.
func buildScanner(cfg *config.Config, collector *metrics.Collector, sink progress.Sink) *scanner.Scanner {
	f := fetcher.New(
		fetcher.WithUserAgent(cfg.Scan.UserAgent),
		fetcher.WithTimeout(cfg.Scan.Timeout),
		fetcher.WithMetrics(collector),
	)
	audits := analyzer.New(f, analyzer.Config{MaxPages: cfg.Scan.MaxPages, Progress: sink})

	probeConfig := prober.Config{Auditor: audits, Progress: sink}
	if key, ok := cfg.SerpAPI.Credential(); ok {
		client := serpapi.New(&http.Client{Timeout: cfg.Scan.Timeout}, key,
			serpapi.WithEndpoint(cfg.SerpAPI.Endpoint),
			serpapi.WithLocale(cfg.SerpAPI.GL, cfg.SerpAPI.HL),
		)
		probeConfig.Search = prober.NewLiveSearch(client,
			prober.WithPacer(prober.NewPacer(cfg.SerpAPI.QueryInterval)),
			prober.WithMaxQueries(cfg.SerpAPI.MaxQueries),
			prober.WithSearchMetrics(collector),
			prober.WithSearchProgress(sink),
		)
	}

	return scanner.New(audits, prober.New(probeConfig),
		scanner.WithMetrics(collector),
		scanner.WithProgress(sink),
	)
}

func newScanCmd(mode string) *cobra.Command {
	use, short := "scan [DOMAIN]", "Run a full AI visibility scan"
	if mode == models.ModeQuick {
		use, short = "quick-scan [DOMAIN]", "Run the schema and technical audits only"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			brand, _ := cmd.Flags().GetString("brand")
			industry, _ := cmd.Flags().GetString("industry")
			competitors, _ := cmd.Flags().GetStringSlice("competitor")
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			if industry == "" {
				industry = cfg.Scan.Industry
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := buildScanner(cfg, nil, progress.Log{})
			req := scanner.Request{Domain: args[0], Brand: brand, Industry: industry, Competitors: competitors}

			run := s.Scan
			if mode == models.ModeQuick {
				run = s.QuickScan
			}
			result, err := run(ctx, req)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			return writeReport(cmd.OutOrStdout(), result, format, output)
		},
	}

	cmd.Flags().String("brand", "", "Brand name (derived from the domain when empty)")
	cmd.Flags().String("industry", "", "Industry template set ("+strings.Join(prompts.Industries(), ", ")+")")
	if mode == models.ModeFull {
		cmd.Flags().StringSlice("competitor", nil, "Competitor domain, repeatable or comma separated")
	}
	cmd.Flags().String("format", reporter.FormatJSON, "Report format (json, markdown)")
	cmd.Flags().String("output", "", "Output file; a directory gets a generated file name")

	return cmd
}

// writeReport renders result and writes it to output, or to w when output is
// empty.
func writeReport(w io.Writer, result models.ScanResult, format, output string) error {
	report, err := reporter.New().Render(result, format)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = fmt.Fprintln(w, report)
		return err
	}

	if info, statErr := os.Stat(output); statErr == nil && info.IsDir() {
		output = filepath.Join(output, reporter.Filename(result, format))
	}
	if err := os.WriteFile(output, []byte(report), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	_, err = fmt.Fprintf(w, "Report saved to %s\n", output)

	return err
}

func newPromptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts [BRAND]",
		Short: "List the probe prompts for a brand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			industry, _ := cmd.Flags().GetString("industry")
			competitors, _ := cmd.Flags().GetStringSlice("competitor")

			for i, p := range prompts.Generate(industry, args[0], competitors) {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, p); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().String("industry", prompts.GenericIndustry, "Industry template set ("+strings.Join(prompts.Industries(), ", ")+")")
	cmd.Flags().StringSlice("competitor", nil, "Competitor domain, repeatable or comma separated")

	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scan API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if port, _ := cmd.Flags().GetInt("port"); port > 0 {
				cfg.Server.Port = port
			}

			collector := metrics.New(prometheus.DefaultRegisterer)
			s := buildScanner(cfg, collector, progress.Log{})

			opts := api.NewOptions(cfg)
			opts.Gatherer = prometheus.DefaultGatherer
			srv := api.NewServer(s, opts)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, srv)
		},
	}

	cmd.Flags().Int("port", 0, "Listen port (overrides server.port)")

	return cmd
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
