package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/churn-scope/pkg/models/api"
	"github.com/de-tools/churn-scope/pkg/models/domain"
	"github.com/de-tools/churn-scope/pkg/services/dataset"
	"github.com/de-tools/churn-scope/pkg/services/history"
	"github.com/de-tools/churn-scope/pkg/services/ingest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIngestor struct {
	mock.Mock
}

func (m *MockIngestor) IngestDataset(
	ctx context.Context,
	owner string,
	rows []dataset.Row,
	opts ingest.Options,
) (*ingest.Result, error) {
	args := m.Called(ctx, owner, rows, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ingest.Result), args.Error(1)
}

func (m *MockIngestor) ScoreDataset(
	ctx context.Context,
	rows []dataset.Row,
	opts ingest.Options,
) ([]domain.ScoredCustomer, []*domain.ValidationError, error) {
	args := m.Called(ctx, rows, opts)
	var skipped []*domain.ValidationError
	if args.Get(1) != nil {
		skipped = args.Get(1).([]*domain.ValidationError)
	}
	if args.Get(0) == nil {
		return nil, skipped, args.Error(2)
	}
	return args.Get(0).([]domain.ScoredCustomer), skipped, args.Error(2)
}

type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Save(
	ctx context.Context,
	snap domain.Snapshot,
	customers []domain.ScoredCustomer,
) (domain.Snapshot, error) {
	args := m.Called(ctx, snap, customers)
	return args.Get(0).(domain.Snapshot), args.Error(1)
}

func (m *MockHistory) Get(ctx context.Context, id string) (domain.Snapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Snapshot), args.Error(1)
}

func (m *MockHistory) GetCustomers(
	ctx context.Context,
	id string,
	filter history.CustomerFilter,
) ([]domain.ScoredCustomer, error) {
	args := m.Called(ctx, id, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScoredCustomer), args.Error(1)
}

func (m *MockHistory) ListByOwner(ctx context.Context, owner string) ([]domain.Snapshot, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]domain.Snapshot), args.Error(1)
}

func (m *MockHistory) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockComparer struct {
	mock.Mock
}

func (m *MockComparer) Compare(ctx context.Context, baselineID, targetID string) (domain.ComparisonReport, error) {
	args := m.Called(ctx, baselineID, targetID)
	return args.Get(0).(domain.ComparisonReport), args.Error(1)
}

type testDeps struct {
	ingestor *MockIngestor
	history  *MockHistory
	comparer *MockComparer
	router   http.Handler
}

func setupRouter(t *testing.T) testDeps {
	t.Helper()

	deps := testDeps{
		ingestor: new(MockIngestor),
		history:  new(MockHistory),
		comparer: new(MockComparer),
	}
	deps.router = ConfigureRouter(Config{
		Dependencies: Dependencies{
			Ingestor: deps.ingestor,
			History:  deps.history,
			Comparer: deps.comparer,
		},
	})
	return deps
}

func doRequest(t *testing.T, router http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestIngestSnapshot(t *testing.T) {
	t.Run("json rows create a snapshot", func(t *testing.T) {
		deps := setupRouter(t)
		deps.ingestor.On("IngestDataset", mock.Anything, "acme", mock.Anything, ingest.Options{Policy: ingest.PolicyAbort}).
			Return(&ingest.Result{
				Snapshot: domain.Snapshot{ID: "snap-1", Owner: "acme", TotalCustomers: 1, CreatedAt: time.Now().UTC()},
			}, nil)

		body := `[{"CustomerID":"A-1","Tenure":"12"}]`
		recorder := doRequest(t, deps.router, http.MethodPost, "/api/v1/owners/acme/snapshots", "application/json", body)

		require.Equal(t, http.StatusCreated, recorder.Code)

		var result api.IngestResult
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
		assert.Equal(t, "snap-1", result.Snapshot.Id)
		assert.Empty(t, result.SkippedRows)
	})

	t.Run("csv body is parsed by header", func(t *testing.T) {
		deps := setupRouter(t)
		deps.ingestor.On("IngestDataset", mock.Anything, "acme",
			mock.MatchedBy(func(rows []dataset.Row) bool {
				return len(rows) == 1 && rows[0]["CustomerID"] == "A-1"
			}),
			mock.Anything,
		).Return(&ingest.Result{Snapshot: domain.Snapshot{ID: "snap-1"}}, nil)

		body := "CustomerID,Tenure\nA-1,12\n"
		recorder := doRequest(t, deps.router, http.MethodPost, "/api/v1/owners/acme/snapshots", "text/csv", body)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		deps.ingestor.AssertExpectations(t)
	})

	t.Run("skip policy is passed through and skipped rows returned", func(t *testing.T) {
		deps := setupRouter(t)
		deps.ingestor.On("IngestDataset", mock.Anything, "acme", mock.Anything, ingest.Options{Policy: ingest.PolicySkip}).
			Return(&ingest.Result{
				Snapshot:    domain.Snapshot{ID: "snap-1"},
				SkippedRows: []*domain.ValidationError{{Row: 2, Column: "Tenure", Reason: "not a number"}},
			}, nil)

		recorder := doRequest(t, deps.router, http.MethodPost, "/api/v1/owners/acme/snapshots?policy=skip", "application/json", `[]`)

		require.Equal(t, http.StatusCreated, recorder.Code)

		var result api.IngestResult
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
		require.Len(t, result.SkippedRows, 1)
		assert.Equal(t, 2, result.SkippedRows[0].Row)
	})

	t.Run("unknown policy is rejected", func(t *testing.T) {
		deps := setupRouter(t)

		recorder := doRequest(t, deps.router, http.MethodPost, "/api/v1/owners/acme/snapshots?policy=maybe", "application/json", `[]`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		deps.ingestor.AssertNotCalled(t, "IngestDataset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("validation failure returns offending rows", func(t *testing.T) {
		deps := setupRouter(t)
		deps.ingestor.On("IngestDataset", mock.Anything, "acme", mock.Anything, mock.Anything).
			Return(nil, &domain.ValidationError{Row: 3, Column: "MonthlyCharges", Reason: "negative"})

		recorder := doRequest(t, deps.router, http.MethodPost, "/api/v1/owners/acme/snapshots", "application/json", `[]`)

		require.Equal(t, http.StatusBadRequest, recorder.Code)

		var apiErr api.Error
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiErr))
		require.Len(t, apiErr.Rows, 1)
		assert.Equal(t, 3, apiErr.Rows[0].Row)
		assert.Equal(t, "MonthlyCharges", apiErr.Rows[0].Column)
	})

	t.Run("scoring outage maps to 503", func(t *testing.T) {
		deps := setupRouter(t)
		deps.ingestor.On("IngestDataset", mock.Anything, "acme", mock.Anything, mock.Anything).
			Return(nil, domain.ErrScoringUnavailable)

		recorder := doRequest(t, deps.router, http.MethodPost, "/api/v1/owners/acme/snapshots", "application/json", `[]`)

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	})
}

func TestSnapshotEndpoints(t *testing.T) {
	t.Run("list returns owner history", func(t *testing.T) {
		deps := setupRouter(t)
		deps.history.On("ListByOwner", mock.Anything, "acme").Return([]domain.Snapshot{
			{ID: "snap-2", Owner: "acme"},
			{ID: "snap-1", Owner: "acme"},
		}, nil)

		recorder := doRequest(t, deps.router, http.MethodGet, "/api/v1/owners/acme/snapshots", "", "")

		require.Equal(t, http.StatusOK, recorder.Code)

		var summaries []api.SnapshotSummary
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &summaries))
		require.Len(t, summaries, 2)
		assert.Equal(t, "snap-2", summaries[0].Id)
	})

	t.Run("get unknown snapshot is 404", func(t *testing.T) {
		deps := setupRouter(t)
		deps.history.On("Get", mock.Anything, "missing").Return(domain.Snapshot{}, domain.ErrSnapshotNotFound)

		recorder := doRequest(t, deps.router, http.MethodGet, "/api/v1/snapshots/missing", "", "")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("customer query parameters become filters", func(t *testing.T) {
		deps := setupRouter(t)
		expected := history.CustomerFilter{
			Tier:       domain.TierCritical,
			Contract:   domain.ContractMonthToMonth,
			IDContains: "A-",
		}
		deps.history.On("GetCustomers", mock.Anything, "snap-1", expected).
			Return([]domain.ScoredCustomer{}, nil)

		target := "/api/v1/snapshots/snap-1/customers?tier=Critical&contract=Month-to-month&q=A-"
		recorder := doRequest(t, deps.router, http.MethodGet, target, "", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
		deps.history.AssertExpectations(t)
	})

	t.Run("delete responds no content", func(t *testing.T) {
		deps := setupRouter(t)
		deps.history.On("Delete", mock.Anything, "snap-1").Return(nil)

		recorder := doRequest(t, deps.router, http.MethodDelete, "/api/v1/snapshots/snap-1", "", "")

		assert.Equal(t, http.StatusNoContent, recorder.Code)
	})
}

func TestCompareSnapshots(t *testing.T) {
	t.Run("compares baseline against target", func(t *testing.T) {
		deps := setupRouter(t)
		deps.comparer.On("Compare", mock.Anything, "snap-1", "snap-2").Return(domain.ComparisonReport{
			Baseline: domain.Snapshot{ID: "snap-1"},
			Target:   domain.Snapshot{ID: "snap-2"},
			Status:   domain.StatusImproved,
		}, nil)

		recorder := doRequest(t, deps.router, http.MethodGet, "/api/v1/compare?baseline=snap-1&target=snap-2", "", "")

		require.Equal(t, http.StatusOK, recorder.Code)

		var report api.ComparisonReport
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &report))
		assert.Equal(t, "improved", report.Status)
	})

	t.Run("both ids are required", func(t *testing.T) {
		deps := setupRouter(t)

		recorder := doRequest(t, deps.router, http.MethodGet, "/api/v1/compare?baseline=snap-1", "", "")

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		deps.comparer.AssertNotCalled(t, "Compare", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNewWebAPI_ShutdownTimeout(t *testing.T) {
	logger := zerolog.Nop()

	api := NewWebAPI(logger, Config{Addr: ":0", ShutdownTimeout: 2 * time.Second})
	assert.Equal(t, 2*time.Second, api.shutdownTimeout)

	api = NewWebAPI(logger, Config{Addr: ":0"})
	assert.Equal(t, defaultShutdownTimeout, api.shutdownTimeout)
}

func TestRetentionEndpoints(t *testing.T) {
	scored := []domain.ScoredCustomer{
		{
			CustomerRecord: domain.CustomerRecord{
				ID:       "A-1",
				Contract: domain.ContractMonthToMonth,
			},
			ChurnProbability: 0.9,
			Tier:             domain.TierCritical,
		},
		{
			CustomerRecord:   domain.CustomerRecord{ID: "A-2"},
			ChurnProbability: 0.1,
			Tier:             domain.TierLow,
		},
	}

	t.Run("ranks a stored snapshot", func(t *testing.T) {
		deps := setupRouter(t)
		deps.history.On("GetCustomers", mock.Anything, "snap-1", history.CustomerFilter{}).
			Return(scored, nil)

		recorder := doRequest(t, deps.router, http.MethodGet, "/api/v1/snapshots/snap-1/retention", "", "")

		require.Equal(t, http.StatusOK, recorder.Code)

		var plan api.RetentionPlan
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &plan))
		require.Len(t, plan.Actions, 1)
		assert.Equal(t, "A-1", plan.Actions[0].CustomerId)
		assert.Equal(t, 1, plan.Counts.Critical)
	})

	t.Run("ranks a raw upload without persisting", func(t *testing.T) {
		deps := setupRouter(t)
		deps.ingestor.On("ScoreDataset", mock.Anything, mock.Anything, ingest.Options{Policy: ingest.PolicyAbort}).
			Return(scored, nil, nil)

		recorder := doRequest(t, deps.router, http.MethodPost, "/api/v1/owners/acme/retention", "application/json", `[]`)

		require.Equal(t, http.StatusOK, recorder.Code)

		var plan api.RetentionPlan
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &plan))
		require.Len(t, plan.Actions, 1)
		assert.NotEmpty(t, plan.Actions[0].Action)
	})

	t.Run("skip policy reports dropped rows in the plan", func(t *testing.T) {
		deps := setupRouter(t)
		deps.ingestor.On("ScoreDataset", mock.Anything, mock.Anything, ingest.Options{Policy: ingest.PolicySkip}).
			Return(scored, []*domain.ValidationError{{Row: 2, Column: "Tenure", Reason: "not a number"}}, nil)

		recorder := doRequest(t, deps.router, http.MethodPost, "/api/v1/owners/acme/retention?policy=skip", "application/json", `[]`)

		require.Equal(t, http.StatusOK, recorder.Code)

		var plan api.RetentionPlan
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &plan))
		require.Len(t, plan.Actions, 1)
		require.Len(t, plan.SkippedRows, 1)
		assert.Equal(t, 2, plan.SkippedRows[0].Row)
		assert.Equal(t, "Tenure", plan.SkippedRows[0].Column)
	})
}
