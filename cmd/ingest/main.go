// Package main provides a CLI for one-off results ingestion.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/splitsight/internal/config"
	"github.com/yourusername/splitsight/internal/database"
	"github.com/yourusername/splitsight/internal/datasource"
	applogger "github.com/yourusername/splitsight/internal/logger"
	"github.com/yourusername/splitsight/internal/repository"
	"github.com/yourusername/splitsight/internal/service"
)

var (
	configFile string
	sourceName string
	eventRef   string

	cfg          *config.Config
	appLog       *logrus.Logger
	db           *database.DB
	repos        *repository.Repositories
	ingestionSvc *service.IngestionService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	fetchCmd.Flags().StringVarP(&sourceName, "source", "s", "", "Name of the configured results source")
	fetchCmd.Flags().StringVarP(&eventRef, "ref", "r", "", "Event reference at the source")
	fetchCmd.MarkFlagRequired("source")
	fetchCmd.MarkFlagRequired("ref")
}

var rootCmd = &cobra.Command{
	Use:   "splitsight-ingest",
	Short: "Ingest orienteering results into the store",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch one event from a source and store it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		event, err := ingestionSvc.IngestEvent(ctx, sourceName, eventRef)
		if err != nil {
			return err
		}
		fmt.Printf("Ingested event %q as %s\n", event.Name, event.ID)
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load a results document from a local JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		doc, err := datasource.DecodeEventDocument(f)
		if err != nil {
			return fmt.Errorf("invalid results document: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		event, err := ingestionSvc.IngestDocument(ctx, doc, "file", args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Loaded event %q as %s\n", event.Name, event.ID)
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [event-id]",
	Short: "Re-fetch stored events from their sources",
	Long:  `With an event id, refreshes that event. Without arguments, refreshes every live or provisional event.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
		defer cancel()

		if len(args) == 0 {
			return ingestionSvc.RefreshLiveEvents(ctx)
		}

		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q: %w", args[0], err)
		}
		event, err := repos.Event.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return ingestionSvc.RefreshEvent(ctx, event)
	},
}

func main() {
	rootCmd.AddCommand(fetchCmd, loadCmd, refreshCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	appLog = applogger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	return nil
}

func setupDependencies(ctx context.Context) error {
	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	sources := make(map[string]datasource.ResultsSource)
	for _, sc := range cfg.Ingestion.Sources {
		clientCfg := datasource.DefaultHTTPClientConfig()
		if sc.RateLimit > 0 {
			clientCfg.RateLimit = sc.RateLimit
		}
		httpLogger := log.New(os.Stdout, fmt.Sprintf("source-%s: ", sc.Name), log.LstdFlags)
		httpClient := datasource.NewRateLimitedHTTPClient(clientCfg, httpLogger)
		sources[sc.Name] = datasource.NewRemoteResultsSource(httpClient, sc.Name, sc.URL, sc.APIKey, sc.Enabled, httpLogger)
	}

	resultsSvc := service.NewResultsService(
		repos.Event,
		repos.Competitor,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		cfg.Chart.FastestTimePercentage,
		cfg.Chart.DefaultType,
		appLog,
	)
	ingestionSvc = service.NewIngestionService(sources, repos.Event, repos.Competitor, resultsSvc, appLog, nil)
	return nil
}
