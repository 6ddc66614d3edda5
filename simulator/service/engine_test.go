package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Gthulhu/fleetsim/simulator/domain"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

var testEpoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

type recordingObserver struct {
	calls []string
}

func (o *recordingObserver) ObserveCommand(command string, result string) {
	o.calls = append(o.calls, command+":"+result)
}

func newTestEngine(t *testing.T, opts EngineOptions) (*Engine, *testingclock.FakeClock) {
	fakeClock := testingclock.NewFakeClock(testEpoch)
	opts.Clock = fakeClock
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(42, 7))
	}
	engine := NewEngine(opts)
	t.Cleanup(engine.Stop)
	return engine, fakeClock
}

func addTestPod(t *testing.T, engine *Engine, env domain.Environment, cpu int) domain.Pod {
	pod, err := engine.AddPod(domain.Pod{
		Name:        "payment-gateway-0",
		Environment: env,
		CPUUsage:    cpu,
		MemoryUsage: 256,
		Latency:     30,
	})
	require.NoError(t, err)
	return pod
}

func logCount(engine *Engine) int {
	opt := &domain.QueryLogsOptions{}
	engine.QueryLogs(opt)
	return len(opt.Result)
}

func TestPopulateInitialFleet(t *testing.T) {
	engine, _ := newTestEngine(t, EngineOptions{})
	require.NoError(t, engine.PopulateInitialFleet(8, 5))

	pods := engine.Pods()
	require.Len(t, pods, 8)
	for i, pod := range pods {
		assert.NotEmpty(t, pod.ID)
		assert.Equal(t, fmt.Sprintf("%s-%d", ServiceRegistry[i%len(ServiceRegistry)], i), pod.Name)
		assert.Equal(t, domain.PodStatusRunning, pod.Status)
		assert.Equal(t, 1, pod.Replicas)
		assert.Zero(t, pod.Uptime)
		assert.GreaterOrEqual(t, pod.CPUUsage, 10)
		assert.Less(t, pod.CPUUsage, 50)
		assert.GreaterOrEqual(t, pod.MemoryUsage, 128)
		assert.Less(t, pod.MemoryUsage, 628)
		if i < 5 {
			assert.Equal(t, domain.EnvironmentOnPrem, pod.Environment)
		} else {
			assert.Equal(t, domain.EnvironmentCloud, pod.Environment)
		}
	}
}

func TestTickKeepsPodInvariants(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t, EngineOptions{})
	require.NoError(t, engine.PopulateInitialFleet(8, 5))

	for range 200 {
		engine.Tick(ctx)
		for _, pod := range engine.Pods() {
			require.GreaterOrEqual(t, pod.CPUUsage, 0)
			require.LessOrEqual(t, pod.CPUUsage, 100)
			require.GreaterOrEqual(t, pod.MemoryUsage, 50)
		}
	}
	assert.Equal(t, int64(400), engine.Pods()[0].Uptime)
}

func TestTickSkipsMigratingPod(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t, EngineOptions{})
	pod := addTestPod(t, engine, domain.EnvironmentOnPrem, 40)
	require.NoError(t, engine.Migrate(ctx, pod.ID, domain.EnvironmentCloud))

	before, err := engine.Pod(pod.ID)
	require.NoError(t, err)
	for range 10 {
		engine.Tick(ctx)
	}
	after, err := engine.Pod(pod.ID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestHistoryHoldsLastTwentyTicks(t *testing.T) {
	ctx := context.Background()
	engine, fakeClock := newTestEngine(t, EngineOptions{})
	require.NoError(t, engine.PopulateInitialFleet(4, 2))

	computed := make([]domain.SystemMetrics, 0, 25)
	for range 25 {
		fakeClock.Step(2 * time.Second)
		computed = append(computed, engine.Tick(ctx))
	}

	history := engine.History()
	require.Len(t, history, DefaultHistorySize)
	assert.Equal(t, computed[5:], history)
	assert.Equal(t, computed[24], engine.CurrentMetrics())
}

func TestCurrentMetricsWithoutHistory(t *testing.T) {
	engine, _ := newTestEngine(t, EngineOptions{})
	addTestPod(t, engine, domain.EnvironmentOnPrem, 90)
	addTestPod(t, engine, domain.EnvironmentCloud, 10)

	metrics := engine.CurrentMetrics()
	assert.Equal(t, 50.0, metrics.TotalCPU)
	assert.Equal(t, 90.0, metrics.OnPremLoad)
	assert.Equal(t, 10.0, metrics.CloudLoad)
	assert.Empty(t, engine.History())
}

func TestMigrateTwoPhase(t *testing.T) {
	ctx := context.Background()
	observer := &recordingObserver{}
	engine, fakeClock := newTestEngine(t, EngineOptions{Observer: observer})
	pod := addTestPod(t, engine, domain.EnvironmentOnPrem, 40)

	require.NoError(t, engine.Migrate(ctx, pod.ID, domain.EnvironmentCloud))
	migrating, err := engine.Pod(pod.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PodStatusMigrating, migrating.Status)
	assert.Equal(t, domain.EnvironmentOnPrem, migrating.Environment)
	assert.Equal(t, 1, engine.PendingCompletions())
	assert.Len(t, engine.History(), 1)
	logsAfterStart := logCount(engine)

	err = engine.Migrate(ctx, pod.ID, domain.EnvironmentCloud)
	require.ErrorIs(t, err, domain.ErrInvalidState)
	unchanged, _ := engine.Pod(pod.ID)
	assert.Equal(t, migrating, unchanged)
	assert.Equal(t, logsAfterStart, logCount(engine))

	fakeClock.Step(DefaultMigrationDelay - time.Millisecond)
	still, _ := engine.Pod(pod.ID)
	assert.Equal(t, domain.PodStatusMigrating, still.Status)

	fakeClock.Step(time.Millisecond)
	engine.waitPending()

	done, err := engine.Pod(pod.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PodStatusRunning, done.Status)
	assert.Equal(t, domain.EnvironmentCloud, done.Environment)
	assert.Equal(t, 30, done.CPUUsage)
	assert.Len(t, engine.History(), 2)

	opt := &domain.QueryLogsOptions{Limit: 1}
	engine.QueryLogs(opt)
	require.Len(t, opt.Result, 1)
	assert.Equal(t, "Migration of payment-gateway-0 to CLOUD completed successfully.", opt.Result[0].Message)
	assert.Equal(t, testEpoch.Add(DefaultMigrationDelay), opt.Result[0].Timestamp)

	assert.Equal(t, []string{"migrate:ok", "migrate:invalid_state", "migrate_complete:ok"}, observer.calls)
}

func TestMigrationsInFlightCompleteIndependently(t *testing.T) {
	ctx := context.Background()
	engine, fakeClock := newTestEngine(t, EngineOptions{})
	podA, err := engine.AddPod(domain.Pod{Name: "auth-service-0", Environment: domain.EnvironmentOnPrem, CPUUsage: 40, MemoryUsage: 256})
	require.NoError(t, err)
	podB, err := engine.AddPod(domain.Pod{Name: "inventory-db-1", Environment: domain.EnvironmentCloud, CPUUsage: 60, MemoryUsage: 512})
	require.NoError(t, err)

	statusOf := func(podID string) domain.PodStatus {
		pod, err := engine.Pod(podID)
		require.NoError(t, err)
		return pod.Status
	}

	require.NoError(t, engine.Migrate(ctx, podA.ID, domain.EnvironmentCloud))
	fakeClock.Step(time.Second)
	engine.Tick(ctx)
	require.NoError(t, engine.Migrate(ctx, podB.ID, domain.EnvironmentOnPrem))
	assert.Equal(t, 2, engine.PendingCompletions())

	fakeClock.Step(time.Second)
	engine.Tick(ctx)
	assert.Equal(t, domain.PodStatusMigrating, statusOf(podA.ID))
	assert.Equal(t, domain.PodStatusMigrating, statusOf(podB.ID))

	historyBefore, logsBefore := len(engine.History()), logCount(engine)
	fakeClock.Step(time.Second)
	require.Eventually(t, func() bool {
		return statusOf(podA.ID) == domain.PodStatusRunning
	}, time.Second, time.Millisecond)

	doneA, _ := engine.Pod(podA.ID)
	assert.Equal(t, domain.EnvironmentCloud, doneA.Environment)
	assert.Equal(t, domain.PodStatusMigrating, statusOf(podB.ID))
	assert.Equal(t, historyBefore+1, len(engine.History()))
	assert.Equal(t, logsBefore+1, logCount(engine))
	assert.Equal(t, testEpoch.Add(3*time.Second), engine.CurrentMetrics().Timestamp)

	fakeClock.Step(time.Second)
	engine.waitPending()

	doneB, _ := engine.Pod(podB.ID)
	assert.Equal(t, domain.PodStatusRunning, doneB.Status)
	assert.Equal(t, domain.EnvironmentOnPrem, doneB.Environment)
	assert.Equal(t, 50, doneB.CPUUsage)
	assert.Equal(t, historyBefore+2, len(engine.History()))
	assert.Equal(t, logsBefore+2, logCount(engine))
	assert.Equal(t, testEpoch.Add(4*time.Second), engine.CurrentMetrics().Timestamp)
	assert.Zero(t, engine.PendingCompletions())

	opt := &domain.QueryLogsOptions{Limit: 2}
	engine.QueryLogs(opt)
	require.Len(t, opt.Result, 2)
	assert.Equal(t, "Migration of auth-service-0 to CLOUD completed successfully.", opt.Result[0].Message)
	assert.Equal(t, "Migration of inventory-db-1 to ON_PREM completed successfully.", opt.Result[1].Message)
}

func TestSnapshotWithErrorsReadsOneState(t *testing.T) {
	ctx := context.Background()
	engine, fakeClock := newTestEngine(t, EngineOptions{})
	for i := range 8 {
		_, err := engine.AddPod(domain.Pod{
			Name:        fmt.Sprintf("analytics-worker-%d", i),
			Environment: domain.EnvironmentCloud,
			CPUUsage:    100,
			MemoryUsage: 256,
		})
		require.NoError(t, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 200 {
			fakeClock.Step(2 * time.Second)
			engine.Tick(ctx)
		}
	}()

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		pods, metrics, recent := engine.SnapshotWithErrors(3)
		require.Len(t, pods, 8)
		require.LessOrEqual(t, len(recent), 3)
		for _, entry := range recent {
			require.False(t, entry.Timestamp.After(metrics.Timestamp),
				"error logged at %s after metrics of %s", entry.Timestamp, metrics.Timestamp)
		}
	}

	_, metrics, recent := engine.SnapshotWithErrors(3)
	require.Len(t, recent, 3)
	assert.Equal(t, testEpoch.Add(400*time.Second), metrics.Timestamp)
	for i := 1; i < len(recent); i++ {
		assert.False(t, recent[i].Timestamp.After(recent[i-1].Timestamp))
	}
}

func TestMigrateFloorsCPU(t *testing.T) {
	ctx := context.Background()
	engine, fakeClock := newTestEngine(t, EngineOptions{MigrationDelay: time.Second})
	pod := addTestPod(t, engine, domain.EnvironmentCloud, 12)

	require.NoError(t, engine.Migrate(ctx, pod.ID, domain.EnvironmentOnPrem))
	fakeClock.Step(time.Second)
	engine.waitPending()

	done, _ := engine.Pod(pod.ID)
	assert.Equal(t, 10, done.CPUUsage)
	assert.Equal(t, domain.EnvironmentOnPrem, done.Environment)
}

func TestMigrateRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t, EngineOptions{})
	pod := addTestPod(t, engine, domain.EnvironmentCloud, 12)

	assert.ErrorIs(t, engine.Migrate(ctx, "missing", domain.EnvironmentCloud), domain.ErrNotFound)
	err := engine.Migrate(ctx, pod.ID, domain.Environment("EDGE"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, domain.ErrInvalidArgument, errors.Cause(err))
	assert.Contains(t, err.Error(), `target environment "EDGE"`)
	assert.Zero(t, logCount(engine))
	assert.Zero(t, engine.PendingCompletions())
}

func TestScaleRoundTrip(t *testing.T) {
	ctx := context.Background()
	engine, _ := newTestEngine(t, EngineOptions{})
	pod := addTestPod(t, engine, domain.EnvironmentCloud, 80)

	up, err := engine.Scale(ctx, pod.ID, domain.ScaleUp)
	require.NoError(t, err)
	assert.Equal(t, 2, up.Replicas)

	down, err := engine.Scale(ctx, pod.ID, domain.ScaleDown)
	require.NoError(t, err)
	assert.Equal(t, pod.Replicas, down.Replicas)
	assert.GreaterOrEqual(t, down.CPUUsage, 0)
	assert.LessOrEqual(t, down.CPUUsage, 100)
	assert.Equal(t, 2, logCount(engine))
	assert.Len(t, engine.History(), 2)

	_, err = engine.Scale(ctx, pod.ID, domain.ScaleDirection("SIDEWAYS"))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, domain.ErrInvalidArgument, errors.Cause(err))
}

func TestApplyRecommendation(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown target is a no-op", func(t *testing.T) {
		engine, _ := newTestEngine(t, EngineOptions{})
		pod := addTestPod(t, engine, domain.EnvironmentOnPrem, 40)

		outcome, err := engine.ApplyRecommendation(ctx, &domain.Recommendation{
			ID: "r1", Type: domain.RecommendationMigrate, Confidence: 0.9, TargetPodID: "missing",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeIgnored, outcome)
		got, _ := engine.Pod(pod.ID)
		assert.Equal(t, pod, got)
		assert.Zero(t, logCount(engine))
		assert.Empty(t, engine.History())
	})

	t.Run("optimize and missing target are ignored", func(t *testing.T) {
		engine, _ := newTestEngine(t, EngineOptions{})
		pod := addTestPod(t, engine, domain.EnvironmentOnPrem, 40)

		outcome, err := engine.ApplyRecommendation(ctx, &domain.Recommendation{Type: domain.RecommendationOptimize, TargetPodID: pod.ID})
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeIgnored, outcome)

		outcome, err = engine.ApplyRecommendation(ctx, &domain.Recommendation{Type: domain.RecommendationScale})
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeIgnored, outcome)
		assert.Zero(t, logCount(engine))
	})

	t.Run("migrate toggles environment", func(t *testing.T) {
		engine, fakeClock := newTestEngine(t, EngineOptions{})
		pod := addTestPod(t, engine, domain.EnvironmentOnPrem, 40)

		outcome, err := engine.ApplyRecommendation(ctx, &domain.Recommendation{
			Type: domain.RecommendationMigrate, TargetPodID: pod.ID, TargetEnvironment: domain.EnvironmentOnPrem,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeApplied, outcome)

		fakeClock.Step(DefaultMigrationDelay)
		engine.waitPending()
		got, _ := engine.Pod(pod.ID)
		assert.Equal(t, domain.EnvironmentCloud, got.Environment)
	})

	t.Run("honored target equal to current is ignored", func(t *testing.T) {
		engine, _ := newTestEngine(t, EngineOptions{HonorTargetEnvironment: true})
		pod := addTestPod(t, engine, domain.EnvironmentOnPrem, 40)

		outcome, err := engine.ApplyRecommendation(ctx, &domain.Recommendation{
			Type: domain.RecommendationMigrate, TargetPodID: pod.ID, TargetEnvironment: domain.EnvironmentOnPrem,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeIgnored, outcome)
		got, _ := engine.Pod(pod.ID)
		assert.Equal(t, domain.PodStatusRunning, got.Status)
	})

	t.Run("scale adds a replica", func(t *testing.T) {
		engine, _ := newTestEngine(t, EngineOptions{})
		pod := addTestPod(t, engine, domain.EnvironmentCloud, 50)

		outcome, err := engine.ApplyRecommendation(ctx, &domain.Recommendation{Type: domain.RecommendationScale, TargetPodID: pod.ID})
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeApplied, outcome)
		got, _ := engine.Pod(pod.ID)
		assert.Equal(t, 2, got.Replicas)
	})

	t.Run("migrating target surfaces invalid state", func(t *testing.T) {
		engine, _ := newTestEngine(t, EngineOptions{})
		pod := addTestPod(t, engine, domain.EnvironmentCloud, 50)
		require.NoError(t, engine.Migrate(ctx, pod.ID, domain.EnvironmentOnPrem))

		outcome, err := engine.ApplyRecommendation(ctx, &domain.Recommendation{Type: domain.RecommendationScale, TargetPodID: pod.ID})
		require.ErrorIs(t, err, domain.ErrInvalidState)
		assert.Equal(t, domain.OutcomeIgnored, outcome)
	})

	t.Run("invalid recommendation", func(t *testing.T) {
		engine, _ := newTestEngine(t, EngineOptions{})
		_, err := engine.ApplyRecommendation(ctx, &domain.Recommendation{Type: "REBOOT"})
		assert.ErrorIs(t, err, domain.ErrInvalidRecommendation)
	})
}

func TestRunTicksOnClock(t *testing.T) {
	engine, fakeClock := newTestEngine(t, EngineOptions{})
	require.NoError(t, engine.PopulateInitialFleet(3, 1))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- engine.Run(ctx)
	}()
	require.Eventually(t, fakeClock.HasWaiters, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, engine.Run(ctx), ErrEngineRunning)

	fakeClock.Step(DefaultTickInterval)
	require.Eventually(t, func() bool {
		return len(engine.History()) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}
}
