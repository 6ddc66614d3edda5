package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Gthulhu/fleetsim/config"
	"github.com/Gthulhu/fleetsim/pkg/logger"
	"github.com/Gthulhu/fleetsim/simulator/domain"
	"github.com/pkg/errors"
)

const defaultAdvisorTimeout = 10 * time.Second

func NewAdvisorClient(cfg config.AdvisorConfig) domain.Advisor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAdvisorTimeout
	}
	return &AdvisorClient{
		Client:  http.DefaultClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey.Value(),
		timeout: timeout,
	}
}

// AdvisorClient talks JSON over HTTP to the external recommendation service.
type AdvisorClient struct {
	*http.Client

	baseURL string
	apiKey  string
	timeout time.Duration
}

type RecommendationRequest struct {
	Metrics      domain.SystemMetrics `json:"metrics"`
	Pods         []domain.Pod         `json:"pods"`
	TopPods      []domain.Pod         `json:"topPods"`
	RecentErrors []domain.LogEntry    `json:"recentErrors"`
}

type RecommendationResponse struct {
	Recommendations []*domain.Recommendation `json:"recommendations"`
}

type LogAnalysisRequest struct {
	Logs []domain.LogEntry `json:"logs"`
}

type LogAnalysisResponse struct {
	Analysis string `json:"analysis"`
}

func (c *AdvisorClient) Recommend(ctx context.Context, snapshot *domain.TelemetrySnapshot) ([]*domain.Recommendation, error) {
	reqPayload := RecommendationRequest{
		Metrics:      snapshot.Metrics,
		Pods:         snapshot.Pods,
		TopPods:      snapshot.TopPods,
		RecentErrors: snapshot.RecentErrors,
	}
	var respPayload RecommendationResponse
	if err := c.post(ctx, "/v1/recommendations", reqPayload, &respPayload); err != nil {
		return nil, err
	}

	recs := make([]*domain.Recommendation, 0, len(respPayload.Recommendations))
	for _, rec := range respPayload.Recommendations {
		if err := rec.Validate(); err != nil {
			logger.Logger(ctx).Warn().Err(err).Msg("advisor returned an invalid recommendation, dropped")
			continue
		}
		recs = append(recs, rec)
	}
	logger.Logger(ctx).Debug().Msgf("advisor returned %d recommendations (%d accepted)", len(respPayload.Recommendations), len(recs))
	return recs, nil
}

func (c *AdvisorClient) AnalyzeLogs(ctx context.Context, logs []domain.LogEntry) (string, error) {
	if logs == nil {
		logs = []domain.LogEntry{}
	}
	var respPayload LogAnalysisResponse
	if err := c.post(ctx, "/v1/log-analysis", LogAnalysisRequest{Logs: logs}, &respPayload); err != nil {
		return "", err
	}
	return strings.TrimSpace(respPayload.Analysis), nil
}

func (c *AdvisorClient) post(ctx context.Context, path string, reqPayload any, respPayload any) error {
	if c.baseURL == "" {
		return domain.ErrNoAdvisor
	}
	jsonBody, err := json.Marshal(reqPayload)
	if err != nil {
		return errors.WithStack(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return errors.Wrapf(domain.ErrExternalService, "advisor %s: %v", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(domain.ErrExternalService, "advisor %s returned non-OK status: %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(respPayload); err != nil {
		return errors.Wrapf(domain.ErrExternalService, "advisor %s returned malformed body: %v", path, err)
	}
	return nil
}
