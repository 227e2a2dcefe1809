package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dotcommander/scorecard/internal/analytics"
	"github.com/dotcommander/scorecard/internal/config"
	"github.com/dotcommander/scorecard/internal/delivery"
	"github.com/dotcommander/scorecard/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API used by the quiz front end:

  GET  /api/questions   question catalog
  GET  /api/bands       score bands
  POST /api/leads       capture a lead, forwarded to Notion and the webhook
  POST /api/results     score answers and return the report
  GET  /healthz         liveness
  GET  /metrics         Prometheus metrics

Notion delivery is enabled by SCORECARD_NOTION_TOKEN and SCORECARD_NOTION_DATABASEID,
the webhook by SCORECARD_WEBHOOK_URL and analytics by SCORECARD_ANALYTICS_POSTHOGKEY.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
			return
		}

		srv, err := newServer(cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
			return
		}
		if err := srv.Run(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitFunc(1)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	rootCmd.AddCommand(serveCmd)
}

// newServer wires the engine, delivery sinks, analytics and metrics into the
// HTTP server described by cfg.
func newServer(cfg *config.Config, logger *slog.Logger) (*server.Server, error) {
	engine, err := newEngine(cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := server.NewMetrics(registry)

	dispatcher, err := newDispatcher(cfg, logger, metrics.RecordDelivery)
	if err != nil {
		return nil, err
	}

	client, err := analytics.New(cfg.Analytics.PostHogKey, cfg.Analytics.PostHogHost)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}

	return server.New(server.Config{
		Addr: cfg.Server.Addr,
		CORS: cfg.Server.CORS,
		RateLimit: server.RateLimitConfig{
			RequestsPerMinute: cfg.Server.RateLimit.RequestsPerMinute,
			Burst:             cfg.Server.RateLimit.Burst,
		},
	}, server.Deps{
		Engine:     engine,
		Dispatcher: dispatcher,
		Analytics:  client,
		Logger:     logger,
		Registry:   registry,
		Metrics:    metrics,
	})
}

// newDispatcher returns nil when neither Notion nor the webhook is configured.
func newDispatcher(cfg *config.Config, logger *slog.Logger, observer delivery.Observer) (*delivery.Dispatcher, error) {
	var notion *delivery.NotionClient
	if cfg.Notion.Enabled() {
		notion = delivery.NewNotionClient(cfg.Notion.Token, cfg.Notion.DatabaseID, cfg.Notion.LeadSource)
	}
	var webhook *delivery.WebhookClient
	if cfg.Webhook.URL != "" {
		webhook = delivery.NewWebhookClient(cfg.Webhook.URL, nil)
	}
	if notion == nil && webhook == nil {
		logger.Info("lead delivery disabled: no Notion database or webhook configured")
		return nil, nil
	}

	retry := delivery.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Delivery.MaxAttempts
	retry.BaseDelay = cfg.Delivery.BaseDelay

	return delivery.NewDispatcher(delivery.Config{
		Notion:    notion,
		Webhook:   webhook,
		Retry:     retry,
		Workers:   cfg.Delivery.Workers,
		QueueSize: cfg.Delivery.QueueSize,
		Logger:    logger,
		Observer:  observer,
	})
}
