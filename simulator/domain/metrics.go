package domain

import "time"

// SystemMetrics is one fleet-wide snapshot.
type SystemMetrics struct {
	Timestamp   time.Time `json:"timestamp"`
	TotalCPU    float64   `json:"totalCpu"`
	TotalMemory int       `json:"totalMemory"`
	AvgLatency  float64   `json:"avgLatency"`
	ActivePods  int       `json:"activePods"`
	ErrorRate   float64   `json:"errorRate"`
	OnPremLoad  float64   `json:"onPremLoad"`
	CloudLoad   float64   `json:"cloudLoad"`
}
