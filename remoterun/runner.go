// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package remoterun runs commands on units and interprets what they
// return. Every call is a single blocking request; nothing is retried,
// since commands run on units usually have side effects.
package remoterun

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v2"

	"github.com/juju/zaza/core/entity"
	"github.com/juju/zaza/core/exec"
)

var logger = loggo.GetLogger("zaza.remoterun")

// ModelClient is the part of the model client used to run commands.
type ModelClient interface {
	// RunOnUnit runs command on the unit, waiting at most timeout for
	// it to finish. A zero timeout leaves the limit to the model.
	RunOnUnit(ctx context.Context, unit, command string, timeout time.Duration) (exec.Result, error)

	// RunOnLeader runs command on the application's leader unit.
	RunOnLeader(ctx context.Context, application, command string) (exec.Result, error)

	// FirstUnitName returns the first unit of the application.
	FirstUnitName(ctx context.Context, application string) (string, error)

	// RelationID returns the id of the relation between application
	// and the remoteInterface endpoint of remoteApplication.
	RelationID(ctx context.Context, application, remoteApplication, remoteInterface string) (int, error)
}

// Runner runs commands on units through a model client.
type Runner struct {
	client ModelClient
}

// NewRunner returns a Runner using client.
func NewRunner(client ModelClient) *Runner {
	return &Runner{client: client}
}

// RunStrict runs command on unit and returns its stdout. If the command
// exits with a non-zero code a *CommandRunFailedError is returned.
func (r *Runner) RunStrict(ctx context.Context, unit, command string, timeout time.Duration) (string, error) {
	result, err := r.RunLenient(ctx, unit, command, timeout)
	if err != nil {
		return "", errors.Trace(err)
	}
	if !result.Succeeded() {
		return "", &CommandRunFailedError{Command: command, Result: result}
	}
	return result.Stdout, nil
}

// RunLenient runs command on unit and returns whatever the unit
// reported, whatever the exit code. Only failures to run the command
// at all are returned as errors.
func (r *Runner) RunLenient(ctx context.Context, unit, command string, timeout time.Duration) (exec.Result, error) {
	logger.Debugf("running %q on %s", command, unit)
	result, err := r.client.RunOnUnit(ctx, unit, command, timeout)
	if err != nil {
		return exec.Result{}, errors.Annotatef(err, "running %q on %s", command, unit)
	}
	if !result.Succeeded() {
		logger.Debugf("%q on %s exited with code %d", command, unit, result.Code)
	}
	return result, nil
}

// ResolveUnitNames turns each reference into a unit name. Unit names
// are returned as they are, without any lookup; application names are
// replaced by the application's first unit. A malformed reference is
// rejected before anything is looked up.
func (r *Runner) ResolveUnitNames(ctx context.Context, refs []string) ([]string, error) {
	for _, ref := range refs {
		if err := entity.Validate(ref); err != nil {
			return nil, errors.Trace(err)
		}
	}
	units := make([]string, 0, len(refs))
	for _, ref := range refs {
		if entity.IsUnit(ref) {
			units = append(units, ref)
			continue
		}
		unit, err := r.client.FirstUnitName(ctx, ref)
		if err != nil {
			return nil, errors.Annotatef(err, "resolving unit of %q", ref)
		}
		units = append(units, unit)
	}
	return units, nil
}

// RelationData returns the data remoteEntity has set on the relation
// between the two, over the remoteInterface endpoint, as seen from
// ent. Both references may name an application or a unit; applications
// are resolved to their first unit.
func (r *Runner) RelationData(ctx context.Context, ent, remoteEntity, remoteInterface string) (map[string]interface{}, error) {
	for _, ref := range []string{ent, remoteEntity} {
		if err := entity.Validate(ref); err != nil {
			return nil, errors.Trace(err)
		}
	}
	application := entity.ApplicationName(ent)
	remoteApplication := entity.ApplicationName(remoteEntity)
	rid, err := r.client.RelationID(ctx, application, remoteApplication, remoteInterface)
	if err != nil {
		return nil, errors.Annotatef(err, "getting relation id between %q and %s:%s", application, remoteApplication, remoteInterface)
	}
	units, err := r.ResolveUnitNames(ctx, []string{ent, remoteEntity})
	if err != nil {
		return nil, errors.Trace(err)
	}
	unit, remoteUnit := units[0], units[1]

	command := shellquote.Join("relation-get", "--format=yaml", "-r", strconv.Itoa(rid), "-", remoteUnit)
	stdout, err := r.RunStrict(ctx, unit, command, 0)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return parseSettings(stdout, "")
}

// LeaderGet returns the leader settings of the application, as read on
// its leader unit. An empty key returns every setting; otherwise only
// the one named.
func (r *Runner) LeaderGet(ctx context.Context, application, key string) (map[string]interface{}, error) {
	args := []string{"leader-get", "--format=yaml"}
	if key != "" {
		args = append(args, key)
	}
	command := shellquote.Join(args...)
	result, err := r.client.RunOnLeader(ctx, application, command)
	if err != nil {
		return nil, errors.Annotatef(err, "running %q on %s leader", command, application)
	}
	if !result.Succeeded() {
		return nil, &CommandRunFailedError{Command: command, Result: result}
	}
	return parseSettings(result.Stdout, key)
}

// parseSettings decodes the yaml written by relation-get and leader-get.
// When a single key was asked for, the tools print just its value,
// which is returned keyed by that name.
func parseSettings(data, key string) (map[string]interface{}, error) {
	var decoded interface{}
	if err := yaml.Unmarshal([]byte(data), &decoded); err != nil {
		return nil, errors.Annotate(err, "cannot parse settings")
	}
	if decoded == nil {
		return map[string]interface{}{}, nil
	}
	if m, ok := decoded.(map[interface{}]interface{}); ok && key == "" {
		return stringMap(m), nil
	}
	if key == "" {
		return nil, errors.NotValidf("settings %q", data)
	}
	if m, ok := decoded.(map[interface{}]interface{}); ok {
		return map[string]interface{}{key: stringMap(m)}, nil
	}
	return map[string]interface{}{key: decoded}, nil
}

func stringMap(in map[interface{}]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		if nested, ok := v.(map[interface{}]interface{}); ok {
			v = stringMap(nested)
		}
		out[fmt.Sprint(k)] = v
	}
	return out
}
