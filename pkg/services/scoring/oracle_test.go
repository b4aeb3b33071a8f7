package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/de-tools/churn-scope/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []domain.CustomerRecord {
	return []domain.CustomerRecord{
		{ID: "A-1", Contract: domain.ContractMonthToMonth, MonthlyCharges: 70},
		{ID: "A-2", Contract: domain.ContractTwoYear, MonthlyCharges: 20},
	}
}

func TestOracleClient_ScoreBatch(t *testing.T) {
	t.Run("scores every record and derives tiers locally", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/predict", r.URL.Path)

			var req map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

			// Month-to-month customers score higher in this fake model.
			prob := 0.1
			if req["Contract"] == "Month-to-month" {
				prob = 0.85
			}

			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"churn_probability": prob,
				"risk_level":        "ignored",
			})
		}))
		defer server.Close()

		client, err := NewOracleClient(OracleConfig{BaseURL: server.URL})
		require.NoError(t, err)

		scored, err := client.ScoreBatch(context.Background(), testRecords())
		require.NoError(t, err)
		require.Len(t, scored, 2)

		assert.Equal(t, 0.85, scored[0].ChurnProbability)
		assert.Equal(t, domain.TierCritical, scored[0].Tier)
		assert.Equal(t, 0.1, scored[1].ChurnProbability)
		assert.Equal(t, domain.TierLow, scored[1].Tier)
	})

	t.Run("server error fails the whole batch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
		}))
		defer server.Close()

		client, err := NewOracleClient(OracleConfig{BaseURL: server.URL})
		require.NoError(t, err)

		scored, err := client.ScoreBatch(context.Background(), testRecords())
		assert.Nil(t, scored)
		assert.True(t, errors.Is(err, domain.ErrScoringUnavailable))
	})

	t.Run("timeout surfaces as unavailability", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"churn_probability": 0.5})
		}))
		defer server.Close()

		client, err := NewOracleClient(OracleConfig{
			BaseURL: server.URL,
			Timeout: 20 * time.Millisecond,
		})
		require.NoError(t, err)

		_, err = client.ScoreBatch(context.Background(), testRecords())
		assert.True(t, errors.Is(err, domain.ErrScoringUnavailable))
	})

	t.Run("out-of-range probability is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"churn_probability": 1.7})
		}))
		defer server.Close()

		client, err := NewOracleClient(OracleConfig{BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.ScoreBatch(context.Background(), testRecords())
		assert.True(t, errors.Is(err, domain.ErrScoringUnavailable))
	})

	t.Run("base URL is required", func(t *testing.T) {
		_, err := NewOracleClient(OracleConfig{})
		assert.Error(t, err)
	})
}
