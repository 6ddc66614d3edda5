package domain

type Environment string

const (
	EnvironmentOnPrem Environment = "ON_PREM"
	EnvironmentCloud  Environment = "CLOUD"
)

func (e Environment) Valid() bool {
	return e == EnvironmentOnPrem || e == EnvironmentCloud
}

// Opposite returns the other environment of the hybrid pair.
func (e Environment) Opposite() Environment {
	if e == EnvironmentOnPrem {
		return EnvironmentCloud
	}
	return EnvironmentOnPrem
}

// PodStatus is the full status alphabet. Only RUNNING and MIGRATING are reachable
// through simulator operations, PENDING and ERROR are kept for consumers.
type PodStatus string

const (
	PodStatusRunning   PodStatus = "RUNNING"
	PodStatusPending   PodStatus = "PENDING"
	PodStatusMigrating PodStatus = "MIGRATING"
	PodStatusError     PodStatus = "ERROR"
)

type ScaleDirection string

const (
	ScaleUp   ScaleDirection = "UP"
	ScaleDown ScaleDirection = "DOWN"
)

func (d ScaleDirection) Valid() bool {
	return d == ScaleUp || d == ScaleDown
}

// Pod is a simulated workload unit.
type Pod struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Environment Environment `json:"environment"`
	Status      PodStatus   `json:"status"`
	CPUUsage    int         `json:"cpuUsage"`    // percent, 0-100
	MemoryUsage int         `json:"memoryUsage"` // MB, >= 50
	Latency     float64     `json:"latency"`     // ms
	Uptime      int64       `json:"uptime"`      // seconds
	Replicas    int         `json:"replicas"`
}
