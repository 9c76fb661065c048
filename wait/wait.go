// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package wait blocks until the model converges on a wanted state,
// polling fresh status or running read-only commands on units.
package wait

import (
	"context"
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/retry"
	"github.com/kballard/go-shellquote"

	"github.com/juju/zaza/core/exec"
	"github.com/juju/zaza/core/status"
)

var logger = loggo.GetLogger("zaza.wait")

const (
	// DefaultDelay is the time between two polls.
	DefaultDelay = 5 * time.Second

	// DefaultTimeout bounds how long any single wait may take.
	DefaultTimeout = 30 * time.Minute
)

// errNotReady marks conditions that may still resolve by themselves.
const errNotReady = errors.ConstError("not ready")

// StatusGetter returns the full status of the model.
type StatusGetter interface {
	Status(ctx context.Context) (status.FullStatus, error)
}

// CommandRunner runs a command on a unit, reporting non-zero exits in
// the result rather than as an error.
type CommandRunner interface {
	RunLenient(ctx context.Context, unit, command string, timeout time.Duration) (exec.Result, error)
}

// Config holds the collaborators and timings of a Waiter.
type Config struct {
	Status  StatusGetter
	Runner  CommandRunner
	Clock   clock.Clock
	Delay   time.Duration
	Timeout time.Duration
}

// Validate checks the config, filling in defaults for optional values.
func (c *Config) Validate() error {
	if c.Status == nil {
		return errors.NotValidf("nil Status")
	}
	if c.Runner == nil {
		return errors.NotValidf("nil Runner")
	}
	if c.Clock == nil {
		c.Clock = clock.WallClock
	}
	if c.Delay <= 0 {
		c.Delay = DefaultDelay
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}

// Waiter polls the model until a condition holds.
type Waiter struct {
	config Config
}

// NewWaiter returns a Waiter for the given config.
func NewWaiter(config Config) (*Waiter, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Waiter{config: config}, nil
}

// UntilAllUnitsIdle blocks until every unit in the model, subordinates
// included, reports an idle agent. A unit whose workload or agent is in
// error stops the wait straight away.
func (w *Waiter) UntilAllUnitsIdle(ctx context.Context) error {
	return w.poll(ctx, "all units idle", func() error {
		full, err := w.config.Status.Status(ctx)
		if err != nil {
			return errors.Trace(err)
		}
		for _, appName := range sortedKeys(full.Applications) {
			app := full.Applications[appName]
			for _, unitName := range app.UnitNames() {
				if err := checkIdle(unitName, app.Units[unitName]); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func checkIdle(name string, unit status.UnitStatus) error {
	if unit.WorkloadStatus.Current == status.Error || unit.AgentStatus.Current == status.Error {
		return errors.Errorf("unit %s is in error: %s", name, unit.WorkloadStatus.Message)
	}
	if !unit.AgentStatus.Current.Settled() {
		return errors.Annotatef(errNotReady, "unit %s agent is %s", name, unit.AgentStatus.Current)
	}
	for subName, sub := range unit.Subordinates {
		if err := checkIdle(subName, sub); err != nil {
			return err
		}
	}
	return nil
}

// UntilFileHasContents blocks until the file at path on every unit of
// the application contains contents.
func (w *Waiter) UntilFileHasContents(ctx context.Context, application, path, contents string) error {
	command := shellquote.Join("cat", path)
	return w.untilEveryUnit(ctx, application, "file "+path+" has contents", func(unit string) error {
		result, err := w.config.Runner.RunLenient(ctx, unit, command, 0)
		if err != nil {
			return errors.Trace(err)
		}
		if !result.Succeeded() {
			return errors.Annotatef(errNotReady, "reading %s on %s: %s", path, unit, strings.TrimSpace(result.Stderr))
		}
		if !strings.Contains(result.Stdout, contents) {
			return errors.Annotatef(errNotReady, "%s on %s does not contain %q", path, unit, contents)
		}
		return nil
	})
}

// UntilFileAbsent blocks until there is no file at path on any unit of
// the application.
func (w *Waiter) UntilFileAbsent(ctx context.Context, application, path string) error {
	command := shellquote.Join("test", "-e", path)
	return w.untilEveryUnit(ctx, application, "file "+path+" absent", func(unit string) error {
		result, err := w.config.Runner.RunLenient(ctx, unit, command, 0)
		if err != nil {
			return errors.Trace(err)
		}
		if result.Succeeded() {
			return errors.Annotatef(errNotReady, "%s still present on %s", path, unit)
		}
		return nil
	})
}

// untilEveryUnit polls check against the application's units until it
// has passed once on each of them. Units that passed are not checked
// again.
func (w *Waiter) untilEveryUnit(ctx context.Context, application, what string, check func(unit string) error) error {
	var pending set.Strings
	return w.poll(ctx, what, func() error {
		if pending == nil {
			full, err := w.config.Status.Status(ctx)
			if err != nil {
				return errors.Trace(err)
			}
			units := full.AllUnitNames(application)
			if len(units) == 0 {
				return errors.Annotatef(errNotReady, "no units of %q", application)
			}
			pending = set.NewStrings(units...)
		}
		for _, unit := range pending.SortedValues() {
			if err := check(unit); err != nil {
				return err
			}
			pending.Remove(unit)
		}
		return nil
	})
}

func (w *Waiter) poll(ctx context.Context, what string, check func() error) error {
	logger.Debugf("waiting for %s", what)
	var lastErr error
	err := retry.Call(retry.CallArgs{
		Func: check,
		IsFatalError: func(err error) bool {
			return !errors.Is(err, errNotReady)
		},
		NotifyFunc: func(err error, attempt int) {
			lastErr = err
			logger.Tracef("(attempt %d) still waiting for %s: %v", attempt, what, err)
		},
		Clock:       w.config.Clock,
		Delay:       w.config.Delay,
		MaxDuration: w.config.Timeout,
		Stop:        ctx.Done(),
	})
	switch {
	case err == nil:
		return nil
	case retry.IsDurationExceeded(err):
		return errors.NewTimeout(lastErr, "waiting for "+what)
	case retry.IsRetryStopped(err):
		return errors.Annotatef(ctx.Err(), "waiting for %s", what)
	}
	return errors.Annotatef(err, "waiting for %s", what)
}

func sortedKeys(m map[string]status.ApplicationStatus) []string {
	keys := set.NewStrings()
	for k := range m {
		keys.Add(k)
	}
	return keys.SortedValues()
}
