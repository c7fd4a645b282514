package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"feedbackhub/internal/analytics"
	"feedbackhub/internal/app"
	"feedbackhub/internal/config"
	"feedbackhub/internal/logging"
	"feedbackhub/internal/model"
)

var (
	// Global flags
	configPath string
	port       string

	// Analyze flags
	formFile      string
	responsesFile string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "feedbackhub",
	Short: "FeedbackHub API server",
	Long: `FeedbackHub serves form building, public submissions, event feedback
and owner analytics over HTTP and WebSocket.

Run without a subcommand to start the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if port != "" {
			cfg.Port = port
		}

		logger, err = logging.New(cfg.Env, cfg.LogLevel)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute an analytics snapshot from exported JSON files",
	Long: `Reads a form and its responses from JSON files and prints the analytics
snapshot the server would return for them.

Example:
  feedbackhub analyze --form form.json --responses responses.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return analyzeFiles(formFile, responsesFile, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&port, "port", "p", "", "HTTP port (overrides config and PORT)")

	analyzeCmd.Flags().StringVar(&formFile, "form", "", "form JSON file")
	analyzeCmd.Flags().StringVar(&responsesFile, "responses", "", "responses JSON array file")
	analyzeCmd.MarkFlagRequired("form")
	analyzeCmd.MarkFlagRequired("responses")

	rootCmd.AddCommand(serveCmd, analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting feedbackhub",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.Bool("demoToken", cfg.DemoTokenEnabled()))

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	if err := a.Run(ctx, ":"+cfg.Port); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	logger.Info("server exited")
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func analyzeFiles(formPath, responsesPath string, w io.Writer) error {
	var form model.Form
	if err := readJSON(formPath, &form); err != nil {
		return err
	}
	var responses []*model.Response
	if err := readJSON(responsesPath, &responses); err != nil {
		return err
	}

	snapshot, err := analytics.Compute(&form, analytics.StampUndated(responses, time.Now().UTC()))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snapshot)
}
