package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/de-tools/churn-scope/pkg/models/domain"
	"github.com/rs/zerolog"
)

const defaultOracleTimeout = 10 * time.Second

type OracleConfig struct {
	// BaseURL of the prediction service, e.g. http://localhost:8000.
	BaseURL string
	// Timeout bounds every prediction request. Zero means the default (10s).
	Timeout time.Duration
}

// OracleClient scores customers against the external prediction service.
// Any transport failure, timeout or non-200 response surfaces as
// ErrScoringUnavailable and fails the whole batch.
type OracleClient struct {
	baseURL string
	client  *http.Client
}

func NewOracleClient(cfg OracleConfig) (*OracleClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("oracle base URL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultOracleTimeout
	}
	return &OracleClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// predictRequest mirrors the prediction service's input schema.
type predictRequest struct {
	Gender           string  `json:"Gender"`
	SeniorCitizen    int     `json:"SeniorCitizen"`
	Partner          string  `json:"Partner"`
	Dependents       string  `json:"Dependents"`
	Tenure           int     `json:"Tenure"`
	PhoneService     string  `json:"PhoneService"`
	InternetService  string  `json:"InternetService"`
	TechSupport      string  `json:"TechSupport"`
	Contract         string  `json:"Contract"`
	PaperlessBilling string  `json:"PaperlessBilling"`
	PaymentMethod    string  `json:"PaymentMethod"`
	MonthlyCharges   float64 `json:"MonthlyCharges"`
	TotalCharges     float64 `json:"TotalCharges"`
}

type predictResponse struct {
	ChurnProbability float64 `json:"churn_probability"`
	RiskLevel        string  `json:"risk_level"`
}

func (c *OracleClient) ScoreBatch(
	ctx context.Context,
	records []domain.CustomerRecord,
) ([]domain.ScoredCustomer, error) {
	logger := zerolog.Ctx(ctx)

	result := make([]domain.ScoredCustomer, 0, len(records))
	for _, rec := range records {
		prob, err := c.predict(ctx, rec)
		if err != nil {
			logger.Error().
				Err(err).
				Str("customer_id", rec.ID).
				Msg("oracle call failed, failing the batch")
			return nil, fmt.Errorf("score customer %s: %w", rec.ID, domain.ErrScoringUnavailable)
		}
		result = append(result, scored(rec, prob))
	}
	return result, nil
}

func (c *OracleClient) predict(ctx context.Context, rec domain.CustomerRecord) (float64, error) {
	body, err := json.Marshal(predictRequest{
		Gender:           rec.Gender,
		SeniorCitizen:    boolToInt(rec.SeniorCitizen),
		Partner:          yesNo(rec.Partner),
		Dependents:       yesNo(rec.Dependents),
		Tenure:           rec.TenureMonths,
		PhoneService:     yesNo(rec.PhoneService),
		InternetService:  rec.InternetService,
		TechSupport:      yesNo(rec.TechSupport),
		Contract:         string(rec.Contract),
		PaperlessBilling: yesNo(rec.PaperlessBilling),
		PaymentMethod:    rec.PaymentMethod,
		MonthlyCharges:   rec.MonthlyCharges,
		TotalCharges:     rec.TotalCharges,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call prediction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("prediction service returned status %d", resp.StatusCode)
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	if parsed.ChurnProbability < 0 || parsed.ChurnProbability > 1 {
		return 0, fmt.Errorf("probability %f out of range", parsed.ChurnProbability)
	}
	// The service also reports a risk_level, but the tier partition is owned
	// by TierFor so stored tiers stay consistent across scorers.
	return parsed.ChurnProbability, nil
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
