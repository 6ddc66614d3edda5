package service

import (
	"slices"
	"time"

	"github.com/Gthulhu/fleetsim/simulator/domain"
)

const (
	DefaultHistorySize = 20
	DefaultErrorWindow = 10
)

// Aggregate derives the fleet-wide snapshot. recentLogs must be the tail of the
// journal; only its last window entries are considered for the error rate, and
// the rate is always relative to the full window size.
func Aggregate(pods []domain.Pod, recentLogs []domain.LogEntry, window int, ts time.Time) domain.SystemMetrics {
	metrics := domain.SystemMetrics{
		Timestamp:  ts,
		ActivePods: len(pods),
	}

	var cpuSum, latencySum float64
	var onPremSum, cloudSum float64
	var onPremCount, cloudCount int
	for _, pod := range pods {
		cpuSum += float64(pod.CPUUsage)
		latencySum += pod.Latency
		metrics.TotalMemory += pod.MemoryUsage
		switch pod.Environment {
		case domain.EnvironmentOnPrem:
			onPremSum += float64(pod.CPUUsage)
			onPremCount++
		case domain.EnvironmentCloud:
			cloudSum += float64(pod.CPUUsage)
			cloudCount++
		}
	}
	metrics.TotalCPU = mean(cpuSum, len(pods))
	metrics.AvgLatency = mean(latencySum, len(pods))
	metrics.OnPremLoad = mean(onPremSum, onPremCount)
	metrics.CloudLoad = mean(cloudSum, cloudCount)
	metrics.ErrorRate = errorRate(recentLogs, window)
	return metrics
}

func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func errorRate(logs []domain.LogEntry, window int) float64 {
	if window <= 0 {
		return 0
	}
	if len(logs) > window {
		logs = logs[len(logs)-window:]
	}
	errCount := 0
	for _, entry := range logs {
		if entry.Level == domain.LogLevelError {
			errCount++
		}
	}
	return float64(errCount) / float64(window) * 100
}

// History is a FIFO buffer of snapshots bounded to limit entries.
type History struct {
	limit int
	items []domain.SystemMetrics
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &History{limit: limit, items: make([]domain.SystemMetrics, 0, limit)}
}

func (h *History) Push(m domain.SystemMetrics) {
	if len(h.items) == h.limit {
		copy(h.items, h.items[1:])
		h.items = h.items[:h.limit-1]
	}
	h.items = append(h.items, m)
}

// Items returns the snapshots oldest first.
func (h *History) Items() []domain.SystemMetrics {
	return slices.Clone(h.items)
}

func (h *History) Latest() (domain.SystemMetrics, bool) {
	if len(h.items) == 0 {
		return domain.SystemMetrics{}, false
	}
	return h.items[len(h.items)-1], true
}

func (h *History) Len() int {
	return len(h.items)
}
