package scheduler_test

import (
	"io"
	"sync/atomic"
	"testing"
	"time"

	"dividendtracker/src/scheduler"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestScheduledTask(t *testing.T) {
	t.Run("should run the task on schedule until cancelled", func(t *testing.T) {
		var runs atomic.Int32
		task, err := scheduler.NewScheduledTask("@every 1s", quietLogger(), func() { runs.Add(1) })
		require.NoError(t, err)

		assert.Equal(t, "@every 1s", task.Spec())
		assert.False(t, task.Next().IsZero())
		assert.Eventually(t, func() bool { return runs.Load() > 0 }, 5*time.Second, 50*time.Millisecond)

		task.Cancel()
		task.Cancel()
		assert.True(t, task.Next().IsZero())

		after := runs.Load()
		time.Sleep(1500 * time.Millisecond)
		assert.Equal(t, after, runs.Load())
	})

	t.Run("should recover from a panicking task", func(t *testing.T) {
		var runs atomic.Int32
		task, err := scheduler.NewScheduledTask("@every 1s", quietLogger(), func() {
			runs.Add(1)
			panic("boom")
		})
		require.NoError(t, err)
		defer task.Cancel()

		assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 50*time.Millisecond)
	})

	t.Run("should keep running after a single panic", func(t *testing.T) {
		var runs atomic.Int32
		task, err := scheduler.NewScheduledTask("@every 1s", quietLogger(), func() {
			if runs.Add(1) == 1 {
				panic("first run fails")
			}
		})
		require.NoError(t, err)
		defer task.Cancel()

		assert.Eventually(t, func() bool { return runs.Load() >= 3 }, 6*time.Second, 50*time.Millisecond)
	})

	t.Run("should reject an invalid cron expression", func(t *testing.T) {
		_, err := scheduler.NewScheduledTask("every now and then", quietLogger(), func() {})
		assert.Error(t, err)
	})
}
