package controllers

import (
	"sync"

	"dividendtracker/src/dependencies"
	"dividendtracker/src/scheduler"
	"dividendtracker/src/services"

	"github.com/sirupsen/logrus"
)

// RefreshAllTask is the scheduler key of the periodic price refresh.
const RefreshAllTask = "refresh-all"

type Controller struct {
	Portfolios     services.PortfolioServiceI
	Refresh        services.RefreshServiceI
	Logger         *logrus.Logger
	SchedulerMutex sync.Mutex
	Schedulers     map[string]*scheduler.ScheduledTask
}

func NewController(deps *dependencies.Dependencies) *Controller {
	return &Controller{
		Portfolios: deps.Portfolios,
		Refresh:    deps.Refresh,
		Logger:     deps.Logger,
		Schedulers: map[string]*scheduler.ScheduledTask{},
	}
}

func (c *Controller) GetSchedulers() map[string]*scheduler.ScheduledTask {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()
	out := make(map[string]*scheduler.ScheduledTask, len(c.Schedulers))
	for k, v := range c.Schedulers {
		out[k] = v
	}
	return out
}

// StopAll cancels every scheduled task.
func (c *Controller) StopAll() {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()
	for key, task := range c.Schedulers {
		task.Cancel()
		delete(c.Schedulers, key)
	}
}
