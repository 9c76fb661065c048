// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package jujucli talks to a juju model by running the juju client. It
// supplies the model and controller operations the test helpers rely on.
package jujucli

import (
	"context"
	"time"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v2"

	"github.com/juju/zaza/core/entity"
	"github.com/juju/zaza/core/exec"
	"github.com/juju/zaza/core/status"
)

var logger = loggo.GetLogger("zaza.jujucli")

// Client runs juju client commands against a single model.
type Client struct {
	model  string
	runner CommandRunner
}

// NewClient returns a client for the named model. An empty model name
// means the client's current model. A nil runner runs DefaultBinary.
func NewClient(model string, runner CommandRunner) *Client {
	if runner == nil {
		runner = BinaryRunner{}
	}
	return &Client{model: model, runner: runner}
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	logger.Debugf("juju %s", shellquote.Join(args...))
	return c.runner.RunCommand(ctx, args)
}

// modelArgs returns the command followed by the model selector.
func (c *Client) modelArgs(command ...string) []string {
	if c.model == "" {
		return command
	}
	return append(command, "-m", c.model)
}

// Status returns a fresh read of the model's status.
func (c *Client) Status(ctx context.Context) (status.FullStatus, error) {
	out, err := c.run(ctx, c.modelArgs("status", "--format=yaml")...)
	if err != nil {
		return status.FullStatus{}, errors.Trace(err)
	}
	return status.ParseFullStatus(out)
}

// RunOnUnit runs command on the unit and returns its result. A zero
// timeout leaves the wait to juju.
func (c *Client) RunOnUnit(ctx context.Context, unit, command string, timeout time.Duration) (exec.Result, error) {
	args := c.modelArgs("exec", "--format=yaml", "--unit", unit)
	if timeout > 0 {
		args = append(args, "--wait", timeout.String())
	}
	return c.runExec(ctx, unit, append(args, "--", command))
}

// RunOnLeader runs command on the leader unit of the application.
func (c *Client) RunOnLeader(ctx context.Context, application, command string) (exec.Result, error) {
	target := application + entity.Separator + "leader"
	args := c.modelArgs("exec", "--format=yaml", "--unit", target)
	return c.runExec(ctx, target, append(args, "--", command))
}

// runExec runs juju exec against a single target. juju exits non-zero when
// the remote command fails, so the results are decoded whenever there
// are any and the exit status of the client is only reported without.
func (c *Client) runExec(ctx context.Context, target string, args []string) (exec.Result, error) {
	out, runErr := c.run(ctx, args...)
	if len(out) == 0 {
		if runErr == nil {
			runErr = errors.Errorf("no output")
		}
		return exec.Result{}, errors.Annotatef(runErr, "running on %s", target)
	}
	results, err := exec.ParseResults(out)
	if err != nil {
		if runErr != nil {
			return exec.Result{}, errors.Annotatef(runErr, "running on %s", target)
		}
		return exec.Result{}, errors.Trace(err)
	}
	if result, ok := results[target]; ok {
		return result, nil
	}
	// The leader is reported under its own unit name.
	if len(results) == 1 {
		for _, result := range results {
			return result, nil
		}
	}
	return exec.Result{}, errors.NotFoundf("result for %s", target)
}

// Units returns the units of the application in natural order.
// Subordinate units are included.
func (c *Client) Units(ctx context.Context, application string) ([]string, error) {
	full, err := c.Status(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if _, ok := full.Application(application); !ok {
		return nil, errors.NotFoundf("application %q", application)
	}
	return full.AllUnitNames(application), nil
}

// FirstUnitName returns the first of the application's units.
func (c *Client) FirstUnitName(ctx context.Context, application string) (string, error) {
	units, err := c.Units(ctx, application)
	if err != nil {
		return "", errors.Trace(err)
	}
	if len(units) == 0 {
		return "", errors.NotFoundf("units of application %q", application)
	}
	return units[0], nil
}

type unitInfo struct {
	RelationInfo []relationInfo `yaml:"relation-info"`
}

type relationInfo struct {
	RelationID      int                    `yaml:"relation-id"`
	Endpoint        string                 `yaml:"endpoint"`
	RelatedEndpoint string                 `yaml:"related-endpoint"`
	RelatedUnits    map[string]interface{} `yaml:"related-units"`
}

// RelationID returns the id of the relation between application and
// remoteApplication on which the remote side uses the remoteInterface
// endpoint. An empty remoteInterface matches any endpoint.
func (c *Client) RelationID(ctx context.Context, application, remoteApplication, remoteInterface string) (int, error) {
	unit, err := c.FirstUnitName(ctx, application)
	if err != nil {
		return 0, errors.Trace(err)
	}
	out, err := c.run(ctx, c.modelArgs("show-unit", unit, "--format=yaml")...)
	if err != nil {
		return 0, errors.Trace(err)
	}
	var units map[string]unitInfo
	if err := yaml.Unmarshal(out, &units); err != nil {
		return 0, errors.Annotatef(err, "cannot parse unit %s", unit)
	}
	for _, rel := range units[unit].RelationInfo {
		if remoteInterface != "" && rel.RelatedEndpoint != remoteInterface {
			continue
		}
		apps := set.NewStrings()
		for name := range rel.RelatedUnits {
			apps.Add(entity.ApplicationName(name))
		}
		if apps.Contains(remoteApplication) {
			return rel.RelationID, nil
		}
	}
	return 0, errors.NotFoundf("relation between %q and %s:%s", application, remoteApplication, remoteInterface)
}

// SetApplicationConfig sets charm options on the application.
func (c *Client) SetApplicationConfig(ctx context.Context, application string, settings map[string]string) error {
	if len(settings) == 0 {
		return nil
	}
	args := c.modelArgs("config", application)
	keys := set.NewStrings()
	for key := range settings {
		keys.Add(key)
	}
	for _, key := range keys.SortedValues() {
		args = append(args, key+"="+settings[key])
	}
	_, err := c.run(ctx, args...)
	return errors.Annotatef(err, "configuring %q", application)
}

// AttachResource uploads the file at path as the named resource of the
// application.
func (c *Client) AttachResource(ctx context.Context, application, name, path string) error {
	args := append(c.modelArgs("attach-resource", application), name+"="+path)
	_, err := c.run(ctx, args...)
	return errors.Annotatef(err, "attaching resource %q to %q", name, application)
}

type controllerDetails struct {
	Details struct {
		Cloud  string `yaml:"cloud"`
		Region string `yaml:"region"`
	} `yaml:"details"`
}

// ControllerCloud returns the name of the cloud the current controller
// runs on, or "" when juju does not report one.
func (c *Client) ControllerCloud(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "show-controller", "--format=yaml")
	if err != nil {
		return "", errors.Trace(err)
	}
	var controllers map[string]controllerDetails
	if err := yaml.Unmarshal(out, &controllers); err != nil {
		return "", errors.Annotate(err, "cannot parse controller details")
	}
	for _, controller := range controllers {
		return controller.Details.Cloud, nil
	}
	return "", nil
}
