package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/churn-scope/pkg/models/domain"
	"github.com/de-tools/churn-scope/pkg/runtime/terminal/export"
	"github.com/de-tools/churn-scope/pkg/services/ingest"
	"github.com/de-tools/churn-scope/pkg/services/scoring"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type IngestCmd struct {
	store    storeFlags
	scorer   scorerFlags
	owner    string
	file     string
	policy   string
	reporter *export.Reporter
}

func NewIngestCmd(reporter *export.Reporter) *cobra.Command {
	ic := &IngestCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Score a customer CSV and persist it as a snapshot",
		RunE:  ic.run,
	}

	ic.store.register(cmd)
	ic.scorer.register(cmd)
	cmd.Flags().StringVar(&ic.owner, "owner", "", "Owner the snapshot belongs to")
	cmd.Flags().StringVar(&ic.file, "file", "", "Path to the customer CSV file")
	cmd.Flags().StringVar(&ic.policy, "policy", "abort", "Bad-row policy: abort or skip")

	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (ic *IngestCmd) run(cmd *cobra.Command, _ []string) error {
	rows, err := readDatasetFile(ic.file)
	if err != nil {
		return err
	}

	scorer, err := ic.scorer.build()
	if err != nil {
		return err
	}

	historyService, closeDB, err := ic.store.openHistory()
	if err != nil {
		return err
	}
	defer func() {
		_ = closeDB()
	}()

	bar := progressbar.Default(int64(len(rows)), "scoring")
	pipeline, err := ingest.NewPipeline(&progressScorer{inner: scorer, bar: bar}, historyService)
	if err != nil {
		return err
	}

	result, err := pipeline.IngestDataset(cmd.Context(), ic.owner, rows, ingest.Options{
		Policy: ingest.Policy(ic.policy),
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	for _, skipped := range result.SkippedRows {
		fmt.Fprintf(cmd.OutOrStdout(), "skipped %v\n", skipped)
	}
	return ic.reporter.HandleSnapshot(result.Snapshot)
}

// progressScorer feeds records to the wrapped scorer one at a time so the
// progress bar advances per customer. Any failure still fails the batch.
type progressScorer struct {
	inner scoring.Scorer
	bar   *progressbar.ProgressBar
}

func (s *progressScorer) ScoreBatch(
	ctx context.Context,
	records []domain.CustomerRecord,
) ([]domain.ScoredCustomer, error) {
	result := make([]domain.ScoredCustomer, 0, len(records))
	for _, rec := range records {
		scored, err := s.inner.ScoreBatch(ctx, []domain.CustomerRecord{rec})
		if err != nil {
			return nil, err
		}
		result = append(result, scored...)
		_ = s.bar.Add(1)
	}
	return result, nil
}
