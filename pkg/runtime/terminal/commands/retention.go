package commands

import (
	"fmt"
	"os"

	"github.com/de-tools/churn-scope/pkg/models/domain"
	"github.com/de-tools/churn-scope/pkg/runtime/terminal/export"
	"github.com/de-tools/churn-scope/pkg/services/history"
	"github.com/de-tools/churn-scope/pkg/services/ingest"
	"github.com/de-tools/churn-scope/pkg/services/retention"
	"github.com/spf13/cobra"
)

type RetentionCmd struct {
	store      storeFlags
	scorer     scorerFlags
	file       string
	snapshotID string
	exportPath string
	reporter   *export.Reporter
}

func NewRetentionCmd(reporter *export.Reporter) *cobra.Command {
	rc := &RetentionCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "retention",
		Short: "Rank at-risk customers with recommended actions",
		Long: "Rank at-risk customers from a raw CSV (--file, scored on the fly) " +
			"or from a stored snapshot (--snapshot).",
		RunE: rc.run,
	}

	rc.store.register(cmd)
	rc.scorer.register(cmd)
	cmd.Flags().StringVar(&rc.file, "file", "", "Path to a customer CSV file to score and rank")
	cmd.Flags().StringVar(&rc.snapshotID, "snapshot", "", "Id of a stored snapshot to rank")
	cmd.Flags().StringVar(&rc.exportPath, "export", "", "Write the plan as CSV to this path")
	cmd.MarkFlagsMutuallyExclusive("file", "snapshot")
	cmd.MarkFlagsOneRequired("file", "snapshot")

	return cmd
}

func (rc *RetentionCmd) run(cmd *cobra.Command, _ []string) error {
	var customers []domain.ScoredCustomer
	var err error

	if rc.file != "" {
		customers, err = rc.scoreFile(cmd)
	} else {
		customers, err = rc.loadSnapshot(cmd)
	}
	if err != nil {
		return err
	}

	plan := retention.Rank(customers, retention.DefaultPolicy())

	if rc.exportPath != "" {
		file, err := os.Create(rc.exportPath)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer file.Close()
		if err := export.WriteRetentionCSV(file, plan); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "retention plan written to %s\n", rc.exportPath)
	}

	return rc.reporter.HandleRetention(plan)
}

func (rc *RetentionCmd) scoreFile(cmd *cobra.Command) ([]domain.ScoredCustomer, error) {
	rows, err := readDatasetFile(rc.file)
	if err != nil {
		return nil, err
	}

	scorer, err := rc.scorer.build()
	if err != nil {
		return nil, err
	}

	historyService, closeDB, err := rc.store.openHistory()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = closeDB()
	}()

	pipeline, err := ingest.NewPipeline(scorer, historyService)
	if err != nil {
		return nil, err
	}

	customers, skipped, err := pipeline.ScoreDataset(cmd.Context(), rows, ingest.Options{
		Policy: ingest.PolicySkip,
	})
	if err != nil {
		return nil, err
	}
	for _, s := range skipped {
		fmt.Fprintf(cmd.OutOrStdout(), "skipped %v\n", s)
	}
	return customers, nil
}

func (rc *RetentionCmd) loadSnapshot(cmd *cobra.Command) ([]domain.ScoredCustomer, error) {
	historyService, closeDB, err := rc.store.openHistory()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = closeDB()
	}()

	return historyService.GetCustomers(cmd.Context(), rc.snapshotID, history.CustomerFilter{})
}
