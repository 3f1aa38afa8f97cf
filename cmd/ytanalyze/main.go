package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Raman0101/YT-ANALYSIS/internal/config"
	"github.com/Raman0101/YT-ANALYSIS/internal/middleware"
	"github.com/Raman0101/YT-ANALYSIS/internal/model"
	"github.com/Raman0101/YT-ANALYSIS/internal/repository"
	"github.com/Raman0101/YT-ANALYSIS/internal/service"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd creates the one-shot analysis command.
func newRootCmd() *cobra.Command {
	var (
		envFile      string
		uploadsLimit int
		concurrency  int
		timeout      time.Duration
		compact      bool
	)

	cmd := &cobra.Command{
		Use:   "ytanalyze <channel name>",
		Short: "Analyze a YouTube channel and print the result as JSON",
		Long: `Resolve a channel by legacy username or search, load its statistics and
uploads, and print the same JSON document served by GET /api/analyze.

The API key is read from YT_API_KEY (optionally via a .env file).`,
		Example: `  # Analyze by name
  ytanalyze GoogleDevelopers

  # Only look at the 200 most recent uploads
  ytanalyze "Linus Tech Tips" --uploads-limit 200`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			cfg := config.Load()
			if cmd.Flags().Changed("uploads-limit") {
				cfg.UploadsLimit = uploadsLimit
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.VideoBatchConcurrency = concurrency
			}
			// stdout carries the JSON result, so logs always go to stderr.
			middleware.InitLogger(cfg.LogLevel, "ytanalyze", true)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return runAnalyze(ctx, cmd, cfg, args[0], !compact)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to a .env file")
	cmd.Flags().IntVar(&uploadsLimit, "uploads-limit", repository.DefaultUploadsLimit, "Maximum uploads to enumerate")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Concurrent videos.list batches")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall deadline for the analysis")
	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on a single line")

	return cmd
}

// runAnalyze executes one analysis and writes the result to stdout.
func runAnalyze(ctx context.Context, cmd *cobra.Command, cfg *config.Config, channelName string, indent bool) error {
	name, errMsg := middleware.ValidateChannelName(channelName)
	if errMsg != "" {
		return errors.New(errMsg)
	}
	if cfg.YouTubeKey == "" {
		return errors.New("YT_API_KEY is not set")
	}

	client, err := repository.NewClient(ctx, repository.ClientConfig{
		APIKey:            cfg.YouTubeKey,
		Timeout:           cfg.UpstreamTimeout,
		RequestsPerSecond: cfg.UpstreamRPS,
	})
	if err != nil {
		return fmt.Errorf("failed to create youtube client: %w", err)
	}

	svc := service.NewChannelService(
		repository.NewChannelRepo(client),
		repository.NewVideoRepo(client, cfg.VideoBatchConcurrency),
		service.NewCacheService[model.AnalysisResult](1, cfg.CacheTTL, service.CacheHooks{}),
		service.ChannelServiceOptions{UploadsLimit: cfg.UploadsLimit},
	)

	result, err := svc.AnalyzeChannel(ctx, name)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}
