// Package ingest runs the upload pipeline: validate rows, score them against
// the oracle, aggregate into a snapshot and persist it.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/churn-scope/pkg/models/domain"
	"github.com/de-tools/churn-scope/pkg/services/dataset"
	"github.com/de-tools/churn-scope/pkg/services/history"
	"github.com/de-tools/churn-scope/pkg/services/scoring"
	"github.com/de-tools/churn-scope/pkg/services/snapshot"
	"github.com/rs/zerolog"
)

// Policy decides what a bad row does to the upload. There is no default:
// callers must choose explicitly.
type Policy string

const (
	// PolicyAbort fails the whole upload on the first invalid row.
	PolicyAbort Policy = "abort"
	// PolicySkip drops invalid rows and reports them in the result.
	PolicySkip Policy = "skip"
)

type Options struct {
	Policy Policy
}

// Result is the outcome of one successful ingestion. SkippedRows is empty
// unless the upload ran under PolicySkip.
type Result struct {
	Snapshot    domain.Snapshot
	SkippedRows []*domain.ValidationError
}

type Pipeline struct {
	scorer  scoring.Scorer
	history history.Service
	clock   func() time.Time
}

func NewPipeline(scorer scoring.Scorer, hist history.Service) (*Pipeline, error) {
	if scorer == nil {
		return nil, fmt.Errorf("scorer is nil")
	}
	if hist == nil {
		return nil, fmt.Errorf("history service is nil")
	}
	return &Pipeline{
		scorer:  scorer,
		history: hist,
		clock:   time.Now,
	}, nil
}

// IngestDataset validates and scores the uploaded rows and persists the
// resulting snapshot. Scoring failures fail the whole upload with
// ErrScoringUnavailable; nothing is persisted in that case.
func (p *Pipeline) IngestDataset(
	ctx context.Context,
	owner string,
	rows []dataset.Row,
	opts Options,
) (*Result, error) {
	if owner == "" {
		return nil, fmt.Errorf("owner is required")
	}
	if opts.Policy != PolicyAbort && opts.Policy != PolicySkip {
		return nil, fmt.Errorf("unknown ingest policy %q", opts.Policy)
	}
	logger := zerolog.Ctx(ctx)

	records, skipped, err := p.validate(rows, opts.Policy)
	if err != nil {
		return nil, err
	}

	scoredCustomers, err := p.scorer.ScoreBatch(ctx, records)
	if err != nil {
		// No partial snapshot: a batch that cannot be fully scored is
		// discarded as a whole.
		return nil, err
	}

	snap, customers := snapshot.Build(owner, p.clock().UTC(), scoredCustomers)
	saved, err := p.history.Save(ctx, snap, customers)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("owner", owner).
		Str("snapshot_id", saved.ID).
		Int("customers", saved.TotalCustomers).
		Int("skipped_rows", len(skipped)).
		Float64("churn_rate", saved.ChurnRate).
		Msg("dataset ingested")

	return &Result{Snapshot: saved, SkippedRows: skipped}, nil
}

// ScoreDataset validates and scores rows without persisting anything. It is
// the entry point for retention ranking over raw uploads.
func (p *Pipeline) ScoreDataset(
	ctx context.Context,
	rows []dataset.Row,
	opts Options,
) ([]domain.ScoredCustomer, []*domain.ValidationError, error) {
	if opts.Policy != PolicyAbort && opts.Policy != PolicySkip {
		return nil, nil, fmt.Errorf("unknown ingest policy %q", opts.Policy)
	}

	records, skipped, err := p.validate(rows, opts.Policy)
	if err != nil {
		return nil, nil, err
	}

	scoredCustomers, err := p.scorer.ScoreBatch(ctx, records)
	if err != nil {
		return nil, nil, err
	}
	return scoredCustomers, skipped, nil
}

func (p *Pipeline) validate(
	rows []dataset.Row,
	policy Policy,
) ([]domain.CustomerRecord, []*domain.ValidationError, error) {
	records := make([]domain.CustomerRecord, 0, len(rows))
	var skipped []*domain.ValidationError
	seen := make(map[string]int, len(rows))

	for i, row := range rows {
		index := i + 1
		rec, vErr := dataset.ValidateRow(index, row)
		if vErr == nil {
			if _, dup := seen[rec.ID]; dup {
				vErr = &domain.ValidationError{
					Row:    index,
					Column: "CustomerID",
					Reason: fmt.Sprintf("duplicate identifier %q", rec.ID),
				}
			}
		}
		if vErr != nil {
			if policy == PolicyAbort {
				return nil, nil, vErr
			}
			skipped = append(skipped, vErr)
			continue
		}
		seen[rec.ID] = index
		records = append(records, rec)
	}

	return records, skipped, nil
}
