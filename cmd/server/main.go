// Package main provides the entry point for the results API server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/splitsight/internal/api"
	"github.com/yourusername/splitsight/internal/config"
	"github.com/yourusername/splitsight/internal/database"
	"github.com/yourusername/splitsight/internal/datasource"
	"github.com/yourusername/splitsight/internal/health"
	applogger "github.com/yourusername/splitsight/internal/logger"
	"github.com/yourusername/splitsight/internal/metrics"
	"github.com/yourusername/splitsight/internal/repository"
	"github.com/yourusername/splitsight/internal/scheduler"
	"github.com/yourusername/splitsight/internal/service"
	"github.com/yourusername/splitsight/internal/tracing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "splitsight-server",
	Short: "Serve orienteering split-time results over HTTP",
	Long: `Runs the results API: event storage, split and cumulative rankings,
chart data for the graph views, and live-update notifications over websockets.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("splitsight-server %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	return nil
}

func runServer() error {
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Splitsight results server starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	resultsSvc := service.NewResultsService(
		repos.Event,
		repos.Competitor,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		cfg.Chart.FastestTimePercentage,
		cfg.Chart.DefaultType,
		appLog,
	)

	subscribeSvc := api.NewSubscribeService()
	defer subscribeSvc.Close()

	sources := buildSources(cfg, appLog)
	ingestionSvc := service.NewIngestionService(sources, repos.Event, repos.Competitor, resultsSvc, appLog, subscribeSvc)

	handler := api.NewHandler(resultsSvc, ingestionSvc, repos.Event, subscribeSvc, appLog)
	router := api.NewRouter(handler)

	if os.Getenv("XRAY_ENABLED") == "true" {
		daemonAddr := os.Getenv("XRAY_DAEMON_ADDR")
		if daemonAddr == "" {
			daemonAddr = "localhost:2000"
		}
		if err := tracing.Initialize(tracing.Config{
			ServiceName: cfg.App.Name,
			Enabled:     true,
			DaemonAddr:  daemonAddr,
		}, appLog); err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		router = tracing.Middleware(cfg.App.Name, router)
	}

	apiServer := api.NewServer(&cfg.Server, router, appLog)
	apiServer.Start(ctx)

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Port:        cfg.Server.HealthPort,
		Logger:      appLog,
		DB:          db,
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	if cfg.Metrics.Enabled {
		startMetricsServer(ctx, cfg, appLog)
	}

	var sched *scheduler.Scheduler
	if len(sources) > 0 {
		sched = scheduler.NewScheduler(ingestionSvc, appLog)
		if cfg.Ingestion.Schedule.LivePollIntervalSec > 0 {
			if err := sched.ScheduleLiveRefresh(cfg.Ingestion.Schedule.LivePollIntervalSec); err != nil {
				return fmt.Errorf("failed to schedule live refresh: %w", err)
			}
		}
		if cfg.Ingestion.Schedule.RefreshCron != "" {
			if err := sched.ScheduleFullRefresh(cfg.Ingestion.Schedule.RefreshCron); err != nil {
				return fmt.Errorf("failed to schedule full refresh: %w", err)
			}
		}
		if err := sched.Start(); err != nil {
			appLog.WithError(err).Warn("Scheduler not started")
			sched = nil
		}
	} else {
		appLog.Info("No results sources configured; scheduler disabled")
	}

	healthServer.SetReady(true)
	appLog.Info("Splitsight results server ready")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")

	healthServer.SetReady(false)
	if sched != nil {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Error("Failed to stop scheduler")
		}
	}
	if err := apiServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Failed to shut down API server")
	}

	appLog.Info("Splitsight results server stopped")
	return nil
}

// buildSources constructs a rate-limited client per configured results source
func buildSources(cfg *config.Config, logger *logrus.Logger) map[string]datasource.ResultsSource {
	sources := make(map[string]datasource.ResultsSource)
	for _, sc := range cfg.Ingestion.Sources {
		clientCfg := datasource.DefaultHTTPClientConfig()
		if sc.RateLimit > 0 {
			clientCfg.RateLimit = sc.RateLimit
		}

		httpLogger := log.New(os.Stdout, fmt.Sprintf("source-%s: ", sc.Name), log.LstdFlags)
		httpClient := datasource.NewRateLimitedHTTPClient(clientCfg, httpLogger)
		sources[sc.Name] = datasource.NewRemoteResultsSource(httpClient, sc.Name, sc.URL, sc.APIKey, sc.Enabled, httpLogger)

		logger.WithFields(logrus.Fields{
			"source":  sc.Name,
			"enabled": sc.Enabled,
		}).Info("Configured results source")
	}
	return sources
}

func startMetricsServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}

	go func() {
		logger.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()
}
