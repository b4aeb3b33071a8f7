package churn

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/de-tools/churn-scope/pkg/adapters"
	"github.com/de-tools/churn-scope/pkg/models/api"
	"github.com/de-tools/churn-scope/pkg/models/domain"
	"github.com/de-tools/churn-scope/pkg/services/dataset"
	"github.com/de-tools/churn-scope/pkg/services/history"
	"github.com/de-tools/churn-scope/pkg/services/ingest"
	"github.com/de-tools/churn-scope/pkg/services/retention"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Ingestor is the slice of the ingest pipeline the handler needs.
type Ingestor interface {
	IngestDataset(ctx context.Context, owner string, rows []dataset.Row, opts ingest.Options) (*ingest.Result, error)
	ScoreDataset(ctx context.Context, rows []dataset.Row, opts ingest.Options) ([]domain.ScoredCustomer, []*domain.ValidationError, error)
}

// Comparer is the slice of the comparison engine the handler needs.
type Comparer interface {
	Compare(ctx context.Context, baselineID, targetID string) (domain.ComparisonReport, error)
}

type Handler struct {
	ingestor Ingestor
	history  history.Service
	comparer Comparer
	policy   retention.ActionPolicy
}

func NewHandler(ingestor Ingestor, hist history.Service, comparer Comparer, policy retention.ActionPolicy) *Handler {
	return &Handler{
		ingestor: ingestor,
		history:  hist,
		comparer: comparer,
		policy:   policy,
	}
}

func (h *Handler) IngestSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := chi.URLParam(r, "owner")

	rows, ok := h.readRows(w, r)
	if !ok {
		return
	}
	opts, ok := readPolicy(w, r)
	if !ok {
		return
	}

	result, err := h.ingestor.IngestDataset(ctx, owner, rows, opts)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	response := api.IngestResult{
		Snapshot:    adapters.MapSnapshotDomainToApi(result.Snapshot),
		SkippedRows: mapRowErrors(result.SkippedRows),
	}
	writeJSON(ctx, w, http.StatusCreated, response)
}

func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	owner := chi.URLParam(r, "owner")

	snapshots, err := h.history.ListByOwner(ctx, owner)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	response := make([]api.SnapshotSummary, 0, len(snapshots))
	for _, s := range snapshots {
		response = append(response, adapters.MapSnapshotDomainToApi(s))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	snap, err := h.history.Get(ctx, id)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapSnapshotDomainToApi(snap))
}

func (h *Handler) GetSnapshotCustomers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	filter := history.CustomerFilter{
		Tier:       domain.RiskTier(strings.ToLower(r.URL.Query().Get("tier"))),
		Contract:   domain.Contract(r.URL.Query().Get("contract")),
		IDContains: r.URL.Query().Get("q"),
	}

	customers, err := h.history.GetCustomers(ctx, id, filter)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	response := make([]api.Customer, 0, len(customers))
	for _, c := range customers {
		response = append(response, adapters.MapCustomerDomainToApi(c))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

func (h *Handler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if err := h.history.Delete(ctx, id); err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CompareSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	baseline := r.URL.Query().Get("baseline")
	target := r.URL.Query().Get("target")
	if baseline == "" || target == "" {
		writeError(ctx, w, http.StatusBadRequest, "both 'baseline' and 'target' snapshot ids are required", nil)
		return
	}

	report, err := h.comparer.Compare(ctx, baseline, target)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapComparisonDomainToApi(report))
}

// RankUpload scores raw uploaded rows and returns the retention plan without
// persisting a snapshot.
func (h *Handler) RankUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rows, ok := h.readRows(w, r)
	if !ok {
		return
	}
	opts, ok := readPolicy(w, r)
	if !ok {
		return
	}

	customers, skipped, err := h.ingestor.ScoreDataset(ctx, rows, opts)
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	plan := retention.Rank(customers, h.policy)
	response := adapters.MapRetentionPlanDomainToApi(plan)
	response.SkippedRows = mapRowErrors(skipped)
	writeJSON(ctx, w, http.StatusOK, response)
}

// RankSnapshot builds the retention plan from a stored snapshot's customers.
func (h *Handler) RankSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	customers, err := h.history.GetCustomers(ctx, id, history.CustomerFilter{})
	if err != nil {
		writeDomainError(ctx, w, err)
		return
	}

	plan := retention.Rank(customers, h.policy)
	writeJSON(ctx, w, http.StatusOK, adapters.MapRetentionPlanDomainToApi(plan))
}

// readRows decodes the request body: CSV for text/csv uploads, otherwise a
// JSON array of column-to-value objects.
func (h *Handler) readRows(w http.ResponseWriter, r *http.Request) ([]dataset.Row, bool) {
	ctx := r.Context()
	defer r.Body.Close()

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "text/csv") {
		rows, err := dataset.ReadRows(r.Body)
		if err != nil {
			writeError(ctx, w, http.StatusBadRequest, err.Error(), nil)
			return nil, false
		}
		return rows, true
	}

	var rows []dataset.Row
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		writeError(ctx, w, http.StatusBadRequest, "request body must be text/csv or a JSON array of rows", nil)
		return nil, false
	}
	return rows, true
}

func readPolicy(w http.ResponseWriter, r *http.Request) (ingest.Options, bool) {
	raw := r.URL.Query().Get("policy")
	if raw == "" {
		raw = string(ingest.PolicyAbort)
	}
	policy := ingest.Policy(raw)
	if policy != ingest.PolicyAbort && policy != ingest.PolicySkip {
		writeError(r.Context(), w, http.StatusBadRequest, "policy must be 'abort' or 'skip'", nil)
		return ingest.Options{}, false
	}
	return ingest.Options{Policy: policy}, true
}

func writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	var sErr *domain.StorageError
	switch {
	case errors.As(err, &vErr):
		writeError(ctx, w, http.StatusBadRequest, "dataset validation failed",
			[]api.RowError{{Row: vErr.Row, Column: vErr.Column, Reason: vErr.Reason}})
	case errors.Is(err, domain.ErrScoringUnavailable):
		writeError(ctx, w, http.StatusServiceUnavailable, err.Error(), nil)
	case errors.Is(err, domain.ErrSnapshotNotFound):
		writeError(ctx, w, http.StatusNotFound, err.Error(), nil)
	case errors.As(err, &sErr):
		writeError(ctx, w, http.StatusInternalServerError, "snapshot storage failed", nil)
	default:
		writeError(ctx, w, http.StatusInternalServerError, err.Error(), nil)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, message string, rows []api.RowError) {
	writeJSON(ctx, w, status, api.Error{Error: message, Rows: rows})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload interface{}) {
	logger := zerolog.Ctx(ctx)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}

func mapRowErrors(errs []*domain.ValidationError) []api.RowError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]api.RowError, 0, len(errs))
	for _, e := range errs {
		out = append(out, api.RowError{Row: e.Row, Column: e.Column, Reason: e.Reason})
	}
	return out
}
