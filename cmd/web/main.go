package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/de-tools/churn-scope/pkg/server"
	"github.com/de-tools/churn-scope/pkg/services/compare"
	"github.com/de-tools/churn-scope/pkg/services/config"
	"github.com/de-tools/churn-scope/pkg/services/history"
	"github.com/de-tools/churn-scope/pkg/services/ingest"
	"github.com/de-tools/churn-scope/pkg/services/retention"
	"github.com/de-tools/churn-scope/pkg/services/scoring"
	"github.com/de-tools/churn-scope/pkg/store/duckdb"
	duckdbsnapshot "github.com/de-tools/churn-scope/pkg/store/duckdb/snapshot"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Churn Scope",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "churn-scope.yaml",
		"Path to the churn-scope config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: cfg.Store.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}

	snapshotStore, err := duckdbsnapshot.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create snapshot store: %w", err)
	}
	historyService, err := history.NewService(snapshotStore)
	if err != nil {
		return fmt.Errorf("failed to create history service: %w", err)
	}

	scorer, err := scoring.NewOracleClient(scoring.OracleConfig{
		BaseURL: cfg.Oracle.BaseURL,
		Timeout: cfg.Oracle.Timeout(),
	})
	if err != nil {
		return fmt.Errorf("failed to create oracle client: %w", err)
	}

	pipeline, err := ingest.NewPipeline(scorer, historyService)
	if err != nil {
		return fmt.Errorf("failed to create ingest pipeline: %w", err)
	}

	engine := compare.NewEngine(historyService, compare.Settings{
		MinSampleSize: cfg.Compare.MinSampleSize,
	})

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	logger.Info().
		Str("oracle", cfg.Oracle.BaseURL).
		Str("store", cfg.Store.Path).
		Msgf("configuration loaded from `%s`", cfgPath)

	api := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Ingestor: pipeline,
			History:  historyService,
			Comparer: engine,
			Policy:   retention.DefaultPolicy(),
			Logger:   logger,
		},
	})

	return api.Start()
}
