package main

import (
	"context"
	"sync/atomic"

	"github.com/GoCodeAlone/bootkit/component"
	"github.com/GoCodeAlone/bootkit/config"
	"github.com/GoCodeAlone/bootkit/logging"
	"github.com/GoCodeAlone/bootkit/modules/scheduler"
)

// reporter logs a heartbeat on the configured schedule.
type reporter struct {
	component.Injector

	greeting string
	schedule string
	logger   component.Logger
	beats    atomic.Int64
}

func newReporter() *reporter {
	r := &reporter{logger: component.NopLogger{}}
	component.Inject(&r.Injector, logging.ComponentID, func(_ component.Handle, l *logging.Logging) error {
		r.logger = l
		return nil
	})
	component.Inject(&r.Injector, scheduler.ComponentID, func(_ component.Handle, s *scheduler.Scheduler) error {
		return s.Add("heartbeat", r.schedule, r.beat)
	})
	return r
}

func (r *reporter) ID() component.ID           { return component.IDOf(r) }
func (r *reporter) Version() component.Version { return "0.4.0" }

func (r *reporter) AfterConfig(cfg config.Provider) error {
	c, err := config.As[*Config](cfg)
	if err != nil {
		return err
	}
	r.greeting = c.Greeting
	r.schedule = c.Heartbeat
	return nil
}

func (r *reporter) beat(context.Context) error {
	r.logger.Info(r.greeting, "beats", r.beats.Add(1))
	return nil
}
