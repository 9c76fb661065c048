// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package modelstatus answers questions about applications, units and
// machines from the model status. Every question is answered from a
// fresh read of the status; nothing is cached between calls, so callers
// that need to wait for the model to settle do their own polling.
package modelstatus

import (
	"context"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"

	"github.com/juju/zaza/core/entity"
	"github.com/juju/zaza/core/status"
)

var logger = loggo.GetLogger("zaza.modelstatus")

// StatusGetter returns the full status of the model.
type StatusGetter interface {
	Status(ctx context.Context) (status.FullStatus, error)
}

// Query reads the model status through a StatusGetter.
type Query struct {
	getter StatusGetter
}

// NewQuery returns a Query reading status from getter.
func NewQuery(getter StatusGetter) *Query {
	return &Query{getter: getter}
}

// FullStatus returns the whole status of the model.
func (q *Query) FullStatus(ctx context.Context) (status.FullStatus, error) {
	full, err := q.getter.Status(ctx)
	if err != nil {
		return status.FullStatus{}, errors.Annotate(err, "getting model status")
	}
	return full, nil
}

// ApplicationStatus returns the status of the named application, or nil
// if the model has no such application.
func (q *Query) ApplicationStatus(ctx context.Context, application string) (*status.ApplicationStatus, error) {
	full, err := q.FullStatus(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	app, ok := full.Application(application)
	if !ok {
		logger.Debugf("no status for application %q", application)
		return nil, nil
	}
	return &app, nil
}

// UnitStatus returns the status of the named unit, or nil if either the
// application or the unit is missing. If application is empty it is
// taken from the unit name.
func (q *Query) UnitStatus(ctx context.Context, application, unit string) (*status.UnitStatus, error) {
	if application == "" {
		application = entity.ApplicationName(unit)
	}
	app, err := q.ApplicationStatus(ctx, application)
	if err != nil || app == nil {
		return nil, errors.Trace(err)
	}
	unitStatus, ok := app.Unit(unit)
	if !ok {
		logger.Debugf("no status for unit %q of application %q", unit, application)
		return nil, nil
	}
	return &unitStatus, nil
}

// MachineStatus returns the status of the machine with the given id, or
// nil if there is no such machine.
func (q *Query) MachineStatus(ctx context.Context, machine string) (*status.MachineStatus, error) {
	full, err := q.FullStatus(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	machineStatus, ok := full.Machine(machine)
	if !ok {
		return nil, nil
	}
	return &machineStatus, nil
}

// MachineField returns a single field of a machine's status. The boolean
// result is false if either the machine or the field is missing.
func (q *Query) MachineField(ctx context.Context, machine, key string) (interface{}, bool, error) {
	machineStatus, err := q.MachineStatus(ctx, machine)
	if err != nil || machineStatus == nil {
		return nil, false, errors.Trace(err)
	}
	value, ok := machineStatus.Field(key)
	return value, ok, nil
}

// MachineSeries returns the series of the machine with the given id.
func (q *Query) MachineSeries(ctx context.Context, machine string) (string, error) {
	value, ok, err := q.MachineField(ctx, machine, "series")
	if err != nil {
		return "", errors.Trace(err)
	}
	if !ok {
		return "", errors.NotFoundf("series for machine %q", machine)
	}
	series, _ := value.(string)
	return series, nil
}

// MachinesForApplication returns the ids of the machines hosting the
// application's units, in unit order. A subordinate application has no
// units of its own, so the machines of the first application it is
// subordinate to are returned instead.
func (q *Query) MachinesForApplication(ctx context.Context, application string) ([]string, error) {
	app, err := q.ApplicationStatus(ctx, application)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if app == nil {
		return nil, errors.NotFoundf("application %q", application)
	}
	if app.IsSubordinate() {
		principal := app.SubordinateTo[0]
		logger.Debugf("application %q is subordinate to %q", application, principal)
		if app, err = q.ApplicationStatus(ctx, principal); err != nil {
			return nil, errors.Trace(err)
		}
		if app == nil {
			return nil, errors.NotFoundf("application %q", principal)
		}
	}
	var machines []string
	for _, name := range app.UnitNames() {
		unit, _ := app.Unit(name)
		machines = append(machines, unit.Machine)
	}
	return machines, nil
}

// MachineUUIDsForApplication returns the instance ids of the machines
// hosting the application's units.
func (q *Query) MachineUUIDsForApplication(ctx context.Context, application string) ([]string, error) {
	machines, err := q.MachinesForApplication(ctx, application)
	if err != nil {
		return nil, errors.Trace(err)
	}
	uuids := make([]string, 0, len(machines))
	for _, machine := range machines {
		value, _, err := q.MachineField(ctx, machine, "instance-id")
		if err != nil {
			return nil, errors.Trace(err)
		}
		uuid, _ := value.(string)
		uuids = append(uuids, uuid)
	}
	return uuids, nil
}

// UnitNameFromHostName returns the unit of the application running on the
// machine with the given host name. Juju managed host names end with the
// machine number, as in "juju-4a1b2c-3". Machine numbers are compared as
// integers, so "juju-4a1b2c-03" is machine 3 too.
func (q *Query) UnitNameFromHostName(ctx context.Context, hostName, application string) (string, error) {
	machine, err := strconv.Atoi(hostName[strings.LastIndex(hostName, "-")+1:])
	if err != nil {
		return "", errors.NotValidf("host name %q", hostName)
	}
	app, err := q.ApplicationStatus(ctx, application)
	if err != nil {
		return "", errors.Trace(err)
	}
	if app == nil {
		return "", errors.NotFoundf("application %q", application)
	}
	for _, name := range app.UnitNames() {
		unit, _ := app.Unit(name)
		if number, err := strconv.Atoi(unit.Machine); err == nil && number == machine {
			return name, nil
		}
	}
	return "", errors.NotFoundf("unit of %q on host %q", application, hostName)
}
