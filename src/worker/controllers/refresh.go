package controllers

import (
	"context"
	"errors"
	"time"

	"dividendtracker/src/repositories"
	"dividendtracker/src/scheduler"
	"dividendtracker/src/services"
	"dividendtracker/src/utils"

	"github.com/sirupsen/logrus"
)

const refreshTimeout = 5 * time.Minute

type Schedule struct {
	Task string    `json:"task"`
	Cron string    `json:"cron"`
	Next time.Time `json:"next"`
}

func (c *Controller) RefreshAll(ctx context.Context) ([]services.RefreshResult, error) {
	return c.Refresh.RefreshAll(ctx)
}

func (c *Controller) RefreshPortfolio(ctx context.Context, portfolioID string) (*services.RefreshResult, error) {
	if _, err := c.Portfolios.GetPortfolio(ctx, portfolioID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, utils.NotFound("%s", err.Error())
		}
		return nil, err
	}
	result, err := c.Refresh.RefreshPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ScheduleRefresh (re)schedules the refresh of every portfolio on cronSpec.
func (c *Controller) ScheduleRefresh(cronSpec string) error {
	return c.ScheduleTask(RefreshAllTask, cronSpec, c.runScheduledRefresh)
}

// ScheduleTask replaces the task registered under key.
func (c *Controller) ScheduleTask(key, cronSpec string, taskFunc func()) error {
	newTask, err := scheduler.NewScheduledTask(cronSpec, c.Logger, taskFunc)
	if err != nil {
		return err
	}

	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()
	if existingTask, exists := c.Schedulers[key]; exists {
		existingTask.Cancel()
	}
	c.Schedulers[key] = newTask
	return nil
}

func (c *Controller) Schedules() []Schedule {
	tasks := c.GetSchedulers()
	schedules := make([]Schedule, 0, len(tasks))
	for key, task := range tasks {
		schedules = append(schedules, Schedule{Task: key, Cron: task.Spec(), Next: task.Next()})
	}
	return schedules
}

func (c *Controller) runScheduledRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	logger := c.Logger.WithField("task", RefreshAllTask)
	ctx = utils.WithLogger(ctx, logger)

	results, err := c.Refresh.RefreshAll(ctx)
	if err != nil {
		logger.WithError(err).Error("scheduled refresh failed")
	}
	updated := 0
	for _, r := range results {
		updated += r.Updated
	}
	logger.WithFields(logrus.Fields{"portfolios": len(results), "updated": updated}).Info("scheduled refresh finished")
}
