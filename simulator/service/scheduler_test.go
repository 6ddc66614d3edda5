package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func TestSchedulerFiresOnce(t *testing.T) {
	fakeClock := testingclock.NewFakeClock(time.Now())
	scheduler := NewScheduler(fakeClock)

	var fired atomic.Int32
	scheduler.Schedule(3*time.Second, func() { fired.Add(1) })
	assert.Equal(t, 1, scheduler.Pending())

	fakeClock.Step(2 * time.Second)
	assert.Equal(t, int32(0), fired.Load())

	fakeClock.Step(time.Second)
	scheduler.wait()
	assert.Equal(t, int32(1), fired.Load())
	assert.Equal(t, 0, scheduler.Pending())

	fakeClock.Step(time.Minute)
	scheduler.wait()
	assert.Equal(t, int32(1), fired.Load())
}

func TestSchedulerCancel(t *testing.T) {
	fakeClock := testingclock.NewFakeClock(time.Now())
	scheduler := NewScheduler(fakeClock)

	var fired atomic.Int32
	taskID := scheduler.Schedule(time.Second, func() { fired.Add(1) })
	require.True(t, scheduler.Cancel(taskID))
	assert.False(t, scheduler.Cancel(taskID))

	fakeClock.Step(2 * time.Second)
	scheduler.wait()
	assert.Equal(t, int32(0), fired.Load())
}

func TestSchedulerStop(t *testing.T) {
	fakeClock := testingclock.NewFakeClock(time.Now())
	scheduler := NewScheduler(fakeClock)

	var fired atomic.Int32
	scheduler.Schedule(time.Second, func() { fired.Add(1) })
	scheduler.Schedule(2*time.Second, func() { fired.Add(1) })
	scheduler.Stop()

	assert.Equal(t, 0, scheduler.Pending())
	fakeClock.Step(time.Minute)
	assert.False(t, fakeClock.HasWaiters())
	assert.Equal(t, int32(0), fired.Load())
}
