package scheduler

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ScheduledTask runs taskFunc on its own cron. Runs never overlap: a tick that
// fires while the previous run is still going is skipped.
type ScheduledTask struct {
	spec   string
	cronID cron.EntryID
	cron   *cron.Cron
	cancel chan struct{}
	once   sync.Once
}

func NewScheduledTask(cronSpec string, logger *logrus.Logger, taskFunc func()) (*ScheduledTask, error) {
	cronLogger := cron.PrintfLogger(logger)
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger), cron.Recover(cronLogger)))
	cancel := make(chan struct{})
	task := &ScheduledTask{
		spec:   cronSpec,
		cron:   c,
		cancel: cancel,
	}

	id, err := c.AddFunc(cronSpec, func() {
		select {
		case <-cancel:
			return
		default:
			taskFunc()
		}
	})
	if err != nil {
		return nil, err
	}

	task.cronID = id
	c.Start()
	return task, nil
}

func (s *ScheduledTask) Spec() string {
	return s.spec
}

// Next returns the next activation, or the zero time once cancelled.
func (s *ScheduledTask) Next() time.Time {
	return s.cron.Entry(s.cronID).Next
}

// Cancel stops the schedule. A run in progress is left to finish.
func (s *ScheduledTask) Cancel() {
	s.once.Do(func() {
		s.cron.Remove(s.cronID)
		close(s.cancel)
		s.cron.Stop()
	})
}
