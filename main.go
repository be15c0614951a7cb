package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tournevent/rastro/internal/server"
	"github.com/tournevent/rastro/pkg/tracking/correios"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "rastro",
	Short:   "Rastro - Correios parcel tracking service",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the GraphQL server",
	RunE:  runServe,
}

var trackCmd = &cobra.Command{
	Use:   "track CODE...",
	Short: "Look up tracking codes and print the events as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTrack,

	// Failed lookups are reported in the JSON output
	SilenceUsage: true,
}

var trackFlags struct {
	list     bool
	scope    string
	language string
	endpoint string
}

func init() {
	trackCmd.Flags().BoolVar(&trackFlags.list, "list", false, "send all codes in a single buscaEventosLista call")
	trackCmd.Flags().StringVar(&trackFlags.scope, "scope", "", "result scope: all, last or first (default CORREIOS_RESULT_SCOPE)")
	trackCmd.Flags().StringVar(&trackFlags.language, "language", "", "event language: pt, en or es (default CORREIOS_LANGUAGE)")
	trackCmd.Flags().StringVar(&trackFlags.endpoint, "endpoint", "", "service URL (default CORREIOS_ENDPOINT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(trackCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(context.Background())
	}

	// Initialize tracker registry with all carriers
	registry, err := initTrackerRegistry(cfg, logger, tracer)
	if err != nil {
		return err
	}

	logger.Info("Starting Rastro",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.Strings("carriers", registry.Names()),
	)

	// Start HTTP server
	srv := server.New(server.Config{Port: cfg.Port}, registry, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// trackResult is one line of the track command output.
type trackResult struct {
	Code     string                     `json:"code"`
	Response *correios.TrackingResponse `json:"response,omitempty"`
	Error    string                     `json:"error,omitempty"`
}

func runTrack(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if trackFlags.scope != "" {
		cfg.CorreiosResultScope = trackFlags.scope
	}
	if trackFlags.language != "" {
		cfg.CorreiosLanguage = trackFlags.language
	}
	if trackFlags.endpoint != "" {
		cfg.CorreiosEndpoint = trackFlags.endpoint
	}

	// stdout carries the results
	logger, err := initLogger(cfg.LogLevel, "stderr")
	if err != nil {
		return err
	}
	defer logger.Sync()

	client, err := newSOAPClient(cfg, logger)
	if err != nil {
		return err
	}

	for _, code := range args {
		if !correios.ValidCode(code) {
			logger.Warn("Tracking code has an invalid format", zap.String("code", code))
		}
	}

	var results []trackResult
	if trackFlags.list {
		code := correios.JoinCodes(args...)
		resp, err := client.FetchEventsList(ctx, code)
		results = append(results, newTrackResult(code, resp, err))
	} else {
		futures := make([]*correios.Future, len(args))
		for i, code := range args {
			futures[i] = client.FetchEventsAsync(ctx, correios.NormalizeCode(code))
		}
		for i, f := range futures {
			resp, err := f.Wait()
			results = append(results, newTrackResult(correios.NormalizeCode(args[i]), resp, err))
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(results))
	}
	return nil
}

func newTrackResult(code string, resp *correios.TrackingResponse, err error) trackResult {
	if err != nil {
		return trackResult{Code: code, Error: err.Error()}
	}
	return trackResult{Code: code, Response: resp}
}
