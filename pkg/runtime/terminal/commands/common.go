package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/de-tools/churn-scope/pkg/services/dataset"
	"github.com/de-tools/churn-scope/pkg/services/history"
	"github.com/de-tools/churn-scope/pkg/services/scoring"
	"github.com/de-tools/churn-scope/pkg/store/duckdb"
	duckdbsnapshot "github.com/de-tools/churn-scope/pkg/store/duckdb/snapshot"
	"github.com/spf13/cobra"
)

type storeFlags struct {
	dbPath string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dbPath, "db", "churn-scope.db", "Path to the snapshot database")
}

func (f *storeFlags) openHistory() (history.Service, func() error, error) {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: f.dbPath})
	if err != nil {
		return nil, nil, fmt.Errorf("open database %q: %w", f.dbPath, err)
	}
	store, err := duckdbsnapshot.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	svc, err := history.NewService(store)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return svc, db.Close, nil
}

type scorerFlags struct {
	scorer         string
	oracleURL      string
	timeoutSeconds int
}

func (f *scorerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scorer, "scorer", "heuristic", "Scorer to use: heuristic or oracle")
	cmd.Flags().StringVar(&f.oracleURL, "oracle-url", "http://localhost:8000", "Base URL of the prediction service")
	cmd.Flags().IntVar(&f.timeoutSeconds, "timeout", 10, "Oracle request timeout in seconds")
}

func (f *scorerFlags) build() (scoring.Scorer, error) {
	switch f.scorer {
	case "heuristic":
		return scoring.NewHeuristicScorer(), nil
	case "oracle":
		return scoring.NewOracleClient(scoring.OracleConfig{
			BaseURL: f.oracleURL,
			Timeout: time.Duration(f.timeoutSeconds) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown scorer %q, expected heuristic or oracle", f.scorer)
	}
}

func readDatasetFile(path string) ([]dataset.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	rows, err := dataset.ReadRows(file)
	if err != nil {
		return nil, fmt.Errorf("read dataset %q: %w", path, err)
	}
	return rows, nil
}
