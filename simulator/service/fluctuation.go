package service

import (
	"math/rand/v2"
	"time"

	"github.com/Gthulhu/fleetsim/simulator/domain"
)

const (
	spikeProbability  = 0.05
	spikeCPU          = 30
	congestionCPU     = 80
	congestionPenalty = 100.0
	thrashingCPU      = 95
	thrashingChance   = 0.10
	minMemoryMB       = 50
	onPremBaseLatency = 30.0
	cloudBaseLatency  = 15.0
	latencyJitter     = 10.0

	thrashingMessage = "CPU Thrashing detected. Thread starvation."
)

// LogEvent is a log record before it receives an id and a timestamp.
type LogEvent struct {
	Level   domain.LogLevel
	Service string
	Message string
}

// FluctuationModel computes the next state of a pod after one tick.
type FluctuationModel struct {
	// UptimeStep is added to the uptime of every running pod, in seconds.
	UptimeStep int64
}

func NewFluctuationModel(tick time.Duration) FluctuationModel {
	step := int64(tick.Round(time.Second) / time.Second)
	if step < 1 {
		step = 1
	}
	return FluctuationModel{UptimeStep: step}
}

// Next returns the pod after one tick and, rarely, a thrashing alert for it.
// Pods that are not RUNNING are returned unchanged.
func (m FluctuationModel) Next(rnd *rand.Rand, pod domain.Pod) (domain.Pod, *LogEvent) {
	if pod.Status != domain.PodStatusRunning {
		return pod, nil
	}

	cpuDelta := rnd.IntN(10) - 4
	memDelta := rnd.IntN(20) - 5
	if rnd.Float64() < spikeProbability {
		cpuDelta += spikeCPU
	}

	next := pod
	next.CPUUsage = clampInt(pod.CPUUsage+cpuDelta, 0, 100)
	next.MemoryUsage = max(minMemoryMB, pod.MemoryUsage+memDelta)

	latency := cloudBaseLatency
	if pod.Environment == domain.EnvironmentOnPrem {
		latency = onPremBaseLatency
	}
	if next.CPUUsage > congestionCPU {
		latency += congestionPenalty
	}

	var alert *LogEvent
	if next.CPUUsage > thrashingCPU && rnd.Float64() < thrashingChance {
		alert = &LogEvent{
			Level:   domain.LogLevelError,
			Service: pod.Name,
			Message: thrashingMessage,
		}
	}

	next.Latency = latency + rnd.Float64()*latencyJitter
	next.Uptime = pod.Uptime + m.UptimeStep
	return next, alert
}

func clampInt(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
