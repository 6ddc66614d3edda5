package domain

import (
	"context"
)

// TelemetrySnapshot is what the advisor sees of the fleet.
type TelemetrySnapshot struct {
	Metrics SystemMetrics `json:"metrics"`
	Pods    []Pod         `json:"pods"`
	// TopPods is Pods ordered by CPU usage, highest first, capped at five.
	TopPods      []Pod      `json:"topPods"`
	RecentErrors []LogEntry `json:"recentErrors"`
}

// Advisor is the external reasoning service.
type Advisor interface {
	Recommend(ctx context.Context, snapshot *TelemetrySnapshot) ([]*Recommendation, error)
	AnalyzeLogs(ctx context.Context, logs []LogEntry) (string, error)
}

type Service interface {
	ListPods(ctx context.Context) ([]Pod, error)
	GetPod(ctx context.Context, podID string) (Pod, error)
	CurrentMetrics(ctx context.Context) (SystemMetrics, error)
	MetricsHistory(ctx context.Context) ([]SystemMetrics, error)
	ListLogs(ctx context.Context, opt *QueryLogsOptions) error

	Migrate(ctx context.Context, podID string, target Environment) error
	Scale(ctx context.Context, podID string, direction ScaleDirection) (Pod, error)
	ApplyRecommendation(ctx context.Context, rec *Recommendation) (RecommendationOutcome, error)

	AnalyzeSystem(ctx context.Context) ([]*Recommendation, error)
	LatestRecommendations(ctx context.Context) ([]*Recommendation, error)
	FindRecommendation(ctx context.Context, recID string) (*Recommendation, error)
	AnalyzeLogs(ctx context.Context) (string, error)
}
