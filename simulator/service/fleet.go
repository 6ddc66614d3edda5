package service

import (
	"fmt"
	"math"

	"github.com/Gthulhu/fleetsim/simulator/domain"
)

const (
	orchestratorService = "orchestrator"
	autoscalerService   = "autoscaler"

	migrationCPURelief  = 10
	migrationCPUFloor   = 10
	scaleUpLoadFactor   = 0.7
	scaleDownLoadFactor = 1.3
)

// Fleet is the insertion-ordered pod collection. It is not safe for concurrent
// use; Engine serializes every access.
type Fleet struct {
	order []string
	pods  map[string]domain.Pod
}

func NewFleet() *Fleet {
	return &Fleet{pods: make(map[string]domain.Pod)}
}

// Add inserts a pod, ids must be unique.
func (f *Fleet) Add(pod domain.Pod) error {
	if _, exists := f.pods[pod.ID]; exists {
		return fmt.Errorf("pod %s already exists", pod.ID)
	}
	f.order = append(f.order, pod.ID)
	f.pods[pod.ID] = pod
	return nil
}

func (f *Fleet) Get(podID string) (domain.Pod, bool) {
	pod, ok := f.pods[podID]
	return pod, ok
}

func (f *Fleet) Len() int {
	return len(f.order)
}

// All returns a copy of the pods in insertion order.
func (f *Fleet) All() []domain.Pod {
	pods := make([]domain.Pod, 0, len(f.order))
	for _, id := range f.order {
		pods = append(pods, f.pods[id])
	}
	return pods
}

// StepFunc computes the next state of a single pod.
type StepFunc func(pod domain.Pod) (domain.Pod, *LogEvent)

// Tick applies step to every pod and swaps the result in as a whole. A pod whose
// step panics keeps its previous state and is reported in faults.
func (f *Fleet) Tick(step StepFunc) (events []LogEvent, faults []error) {
	next := make(map[string]domain.Pod, len(f.pods))
	for _, id := range f.order {
		pod := f.pods[id]
		updated, event, err := safeStep(step, pod)
		if err != nil {
			faults = append(faults, err)
			next[id] = pod
			continue
		}
		updated.ID = pod.ID
		updated.Name = pod.Name
		next[id] = updated
		if event != nil {
			events = append(events, *event)
		}
	}
	f.pods = next
	return events, faults
}

func safeStep(step StepFunc, pod domain.Pod) (updated domain.Pod, event *LogEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pod %s transform panicked: %v", pod.ID, r)
		}
	}()
	updated, event = step(pod)
	return updated, event, nil
}

// ApplyMigrationStart moves a RUNNING pod into MIGRATING.
func (f *Fleet) ApplyMigrationStart(podID string, target domain.Environment) (LogEvent, error) {
	pod, ok := f.pods[podID]
	if !ok {
		return LogEvent{}, fmt.Errorf("pod %s: %w", podID, domain.ErrNotFound)
	}
	if pod.Status != domain.PodStatusRunning {
		return LogEvent{}, fmt.Errorf("pod %s is %s, migration requires %s: %w", podID, pod.Status, domain.PodStatusRunning, domain.ErrInvalidState)
	}
	pod.Status = domain.PodStatusMigrating
	f.pods[podID] = pod
	return LogEvent{
		Level:   domain.LogLevelInfo,
		Service: orchestratorService,
		Message: fmt.Sprintf("Initiating migration of %s to %s", pod.Name, target),
	}, nil
}

// ApplyMigrationComplete finishes a migration. It reports false when the pod is gone
// or no longer MIGRATING, which callers treat as a stale completion.
func (f *Fleet) ApplyMigrationComplete(podID string, target domain.Environment) (LogEvent, bool) {
	pod, ok := f.pods[podID]
	if !ok || pod.Status != domain.PodStatusMigrating {
		return LogEvent{}, false
	}
	pod.Status = domain.PodStatusRunning
	pod.Environment = target
	pod.CPUUsage = max(migrationCPUFloor, pod.CPUUsage-migrationCPURelief)
	f.pods[podID] = pod
	return LogEvent{
		Level:   domain.LogLevelInfo,
		Service: orchestratorService,
		Message: fmt.Sprintf("Migration of %s to %s completed successfully.", pod.Name, target),
	}, true
}

// ApplyScale changes the replica count of a RUNNING pod and rebalances its CPU load.
func (f *Fleet) ApplyScale(podID string, direction domain.ScaleDirection) (domain.Pod, LogEvent, error) {
	pod, ok := f.pods[podID]
	if !ok {
		return domain.Pod{}, LogEvent{}, fmt.Errorf("pod %s: %w", podID, domain.ErrNotFound)
	}
	if pod.Status != domain.PodStatusRunning {
		return domain.Pod{}, LogEvent{}, fmt.Errorf("pod %s is %s, scaling requires %s: %w", podID, pod.Status, domain.PodStatusRunning, domain.ErrInvalidState)
	}

	factor := scaleUpLoadFactor
	replicas := pod.Replicas + 1
	if direction == domain.ScaleDown {
		factor = scaleDownLoadFactor
		replicas = max(1, pod.Replicas-1)
	}
	pod.Replicas = replicas
	pod.CPUUsage = clampInt(int(math.Round(float64(pod.CPUUsage)*factor)), 0, 100)
	f.pods[podID] = pod
	return pod, LogEvent{
		Level:   domain.LogLevelInfo,
		Service: autoscalerService,
		Message: fmt.Sprintf("Scaling %s %s to %d replicas.", pod.Name, direction, replicas),
	}, nil
}
