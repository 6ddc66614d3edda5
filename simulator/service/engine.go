package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Gthulhu/fleetsim/pkg/logger"
	"github.com/Gthulhu/fleetsim/simulator/domain"
	"github.com/rs/xid"
	"k8s.io/utils/clock"
)

const (
	DefaultTickInterval   = 2 * time.Second
	DefaultMigrationDelay = 3 * time.Second
)

var ErrEngineRunning = errors.New("simulation engine is already running")

// CommandObserver is notified of every command outcome.
type CommandObserver interface {
	ObserveCommand(command string, result string)
}

type EngineOptions struct {
	Clock          clock.WithTickerAndDelayedExecution
	Rand           *rand.Rand
	TickInterval   time.Duration
	MigrationDelay time.Duration
	HistorySize    int
	ErrorWindow    int
	// HonorTargetEnvironment lets MIGRATE recommendations pick their own environment.
	HonorTargetEnvironment bool
	Observer               CommandObserver
}

// Engine owns the simulated fleet, the log journal and the metrics history. All
// mutations go through its lock, so readers never see a partially applied tick.
type Engine struct {
	mu      sync.RWMutex
	fleet   *Fleet
	journal *Journal
	history *History
	rnd     *rand.Rand
	model   FluctuationModel

	clock     clock.WithTickerAndDelayedExecution
	scheduler *Scheduler
	observer  CommandObserver

	tickInterval   time.Duration
	migrationDelay time.Duration
	errorWindow    int
	honorTarget    bool

	runLock sync.Mutex
	running bool
}

func NewEngine(opts EngineOptions) *Engine {
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.MigrationDelay <= 0 {
		opts.MigrationDelay = DefaultMigrationDelay
	}
	if opts.ErrorWindow <= 0 {
		opts.ErrorWindow = DefaultErrorWindow
	}
	return &Engine{
		fleet:          NewFleet(),
		journal:        NewJournal(),
		history:        NewHistory(opts.HistorySize),
		rnd:            opts.Rand,
		model:          NewFluctuationModel(opts.TickInterval),
		clock:          opts.Clock,
		scheduler:      NewScheduler(opts.Clock),
		observer:       opts.Observer,
		tickInterval:   opts.TickInterval,
		migrationDelay: opts.MigrationDelay,
		errorWindow:    opts.ErrorWindow,
		honorTarget:    opts.HonorTargetEnvironment,
	}
}

// AddPod registers a pod; an empty id gets a generated one.
func (e *Engine) AddPod(pod domain.Pod) (domain.Pod, error) {
	if pod.ID == "" {
		pod.ID = xid.New().String()
	}
	if pod.Replicas < 1 {
		pod.Replicas = 1
	}
	if pod.Status == "" {
		pod.Status = domain.PodStatusRunning
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.fleet.Add(pod); err != nil {
		return domain.Pod{}, err
	}
	return pod, nil
}

// PopulateInitialFleet creates count RUNNING pods, the first onPrem of them ON_PREM.
func (e *Engine) PopulateInitialFleet(count, onPrem int) error {
	for i := 0; i < count; i++ {
		env := domain.EnvironmentCloud
		if i < onPrem {
			env = domain.EnvironmentOnPrem
		}
		e.mu.Lock()
		pod := domain.Pod{
			Name:        fmt.Sprintf("%s-%d", ServiceRegistry[i%len(ServiceRegistry)], i),
			Environment: env,
			Status:      domain.PodStatusRunning,
			CPUUsage:    e.rnd.IntN(40) + 10,
			MemoryUsage: e.rnd.IntN(500) + 128,
			Latency:     float64(e.rnd.IntN(50) + 10),
			Replicas:    1,
		}
		e.mu.Unlock()
		if _, err := e.AddPod(pod); err != nil {
			return err
		}
	}
	return nil
}

// Tick advances the simulation by one step and returns the new snapshot.
func (e *Engine) Tick(ctx context.Context) domain.SystemMetrics {
	e.mu.Lock()
	defer e.mu.Unlock()

	events, faults := e.fleet.Tick(func(pod domain.Pod) (domain.Pod, *LogEvent) {
		return e.model.Next(e.rnd, pod)
	})
	for _, fault := range faults {
		logger.Logger(ctx).Warn().Err(fault).Msg("pod transform failed, previous state kept")
	}
	if event := EmitLog(e.rnd); event != nil {
		events = append(events, *event)
	}
	e.recordLocked(events...)
	metrics := e.aggregateLocked()
	logger.Logger(ctx).Debug().
		Int("pods", metrics.ActivePods).
		Float64("total_cpu", metrics.TotalCPU).
		Float64("error_rate", metrics.ErrorRate).
		Msg("simulation tick")
	return metrics
}

// Run ticks until ctx is cancelled. Ticks are handled by a single goroutine, a
// tick that arrives while the previous one is still applied is dropped.
func (e *Engine) Run(ctx context.Context) error {
	e.runLock.Lock()
	if e.running {
		e.runLock.Unlock()
		return ErrEngineRunning
	}
	e.running = true
	e.runLock.Unlock()

	defer func() {
		e.runLock.Lock()
		e.running = false
		e.runLock.Unlock()
	}()

	ticker := e.clock.NewTicker(e.tickInterval)
	defer ticker.Stop()
	logger.Logger(ctx).Info().Msgf("simulation started, tick interval %s", e.tickInterval)
	for {
		select {
		case <-ctx.Done():
			logger.Logger(ctx).Info().Msg("simulation stopped")
			return nil
		case <-ticker.C():
			e.Tick(ctx)
		}
	}
}

// Stop cancels pending migration completions and waits for running ones.
func (e *Engine) Stop() {
	e.scheduler.Stop()
}

// waitPending blocks until every scheduled completion has fired. Callers must not
// issue migrations while waiting.
func (e *Engine) waitPending() {
	e.scheduler.wait()
}

func (e *Engine) PendingCompletions() int {
	return e.scheduler.Pending()
}

func (e *Engine) Pods() []domain.Pod {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fleet.All()
}

func (e *Engine) Pod(podID string) (domain.Pod, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	pod, ok := e.fleet.Get(podID)
	if !ok {
		return domain.Pod{}, fmt.Errorf("pod %s: %w", podID, domain.ErrNotFound)
	}
	return pod, nil
}

func (e *Engine) History() []domain.SystemMetrics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.Items()
}

// CurrentMetrics returns the latest snapshot, computing one if nothing was recorded yet.
func (e *Engine) CurrentMetrics() domain.SystemMetrics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if latest, ok := e.history.Latest(); ok {
		return latest
	}
	return Aggregate(e.fleet.All(), e.journal.Tail(e.errorWindow), e.errorWindow, e.clock.Now())
}

func (e *Engine) QueryLogs(opt *domain.QueryLogsOptions) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	e.journal.Query(opt)
}

func (e *Engine) TailLogs(n int) []domain.LogEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.journal.Tail(n)
}

// Snapshot returns pods and the current metrics under a single read lock.
func (e *Engine) Snapshot() ([]domain.Pod, domain.SystemMetrics) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotLocked()
}

// SnapshotWithErrors is Snapshot plus up to limit recent ERROR/CRITICAL entries,
// all read from the same fleet state.
func (e *Engine) SnapshotWithErrors(limit int) ([]domain.Pod, domain.SystemMetrics, []domain.LogEntry) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	pods, metrics := e.snapshotLocked()
	return pods, metrics, e.journal.RecentErrors(limit)
}

func (e *Engine) snapshotLocked() ([]domain.Pod, domain.SystemMetrics) {
	pods := e.fleet.All()
	if latest, ok := e.history.Latest(); ok {
		return pods, latest
	}
	return pods, Aggregate(pods, e.journal.Tail(e.errorWindow), e.errorWindow, e.clock.Now())
}

func (e *Engine) recordLocked(events ...LogEvent) {
	now := e.clock.Now()
	for _, event := range events {
		e.journal.Append(domain.LogEntry{
			ID:        xid.New().String(),
			Timestamp: now,
			Level:     event.Level,
			Service:   event.Service,
			Message:   event.Message,
		})
	}
}

func (e *Engine) aggregateLocked() domain.SystemMetrics {
	metrics := Aggregate(e.fleet.All(), e.journal.Tail(e.errorWindow), e.errorWindow, e.clock.Now())
	e.history.Push(metrics)
	return metrics
}

func (e *Engine) observe(command string, err error) {
	if e.observer == nil {
		return
	}
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		result = "not_found"
	case errors.Is(err, domain.ErrInvalidState):
		result = "invalid_state"
	default:
		result = "error"
	}
	e.observer.ObserveCommand(command, result)
}
