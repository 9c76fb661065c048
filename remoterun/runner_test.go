// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package remoterun_test

import (
	"context"
	"time"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/juju/zaza/core/exec"
	"github.com/juju/zaza/remoterun"
	coretesting "github.com/juju/zaza/testing"
)

type runnerSuite struct {
	coretesting.BaseSuite

	client *MockModelClient
}

var _ = gc.Suite(&runnerSuite{})

func (s *runnerSuite) setupMocks(c *gc.C) *gomock.Controller {
	ctrl := gomock.NewController(c)
	s.client = NewMockModelClient(ctrl)
	return ctrl
}

func (s *runnerSuite) TestRunStrict(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.client.EXPECT().RunOnUnit(gomock.Any(), "keystone/0", "hostname", time.Minute).
		Return(exec.Result{Code: 0, Stdout: "juju-4a1b2c-0\n", Stderr: "ignored"}, nil)

	out, err := remoterun.NewRunner(s.client).RunStrict(context.Background(), "keystone/0", "hostname", time.Minute)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(out, gc.Equals, "juju-4a1b2c-0\n")
}

func (s *runnerSuite) TestRunStrictNonZeroExit(c *gc.C) {
	defer s.setupMocks(c).Finish()
	result := exec.Result{Code: 1, Stdout: "", Stderr: "cat: /nope: No such file or directory\n"}
	s.client.EXPECT().RunOnUnit(gomock.Any(), "keystone/0", "cat /nope", time.Duration(0)).Return(result, nil)

	_, err := remoterun.NewRunner(s.client).RunStrict(context.Background(), "keystone/0", "cat /nope", 0)
	c.Assert(err, jc.Satisfies, remoterun.IsCommandRunFailed)
	c.Check(err, gc.ErrorMatches, `command "cat /nope" failed with exit code 1: cat: /nope: No such file or directory`)

	failed, ok := err.(*remoterun.CommandRunFailedError)
	c.Assert(ok, jc.IsTrue)
	c.Check(failed.Command, gc.Equals, "cat /nope")
	c.Check(failed.Result, jc.DeepEquals, result)
}

func (s *runnerSuite) TestRunLenientNonZeroExit(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.client.EXPECT().RunOnUnit(gomock.Any(), "keystone/0", "false", time.Duration(0)).
		Return(exec.Result{Code: 1, Stdout: "partial", Stderr: "boom"}, nil)

	result, err := remoterun.NewRunner(s.client).RunLenient(context.Background(), "keystone/0", "false", 0)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.Succeeded(), jc.IsFalse)
	c.Check(result.Output(), gc.Equals, "boom")
}

func (s *runnerSuite) TestRunLenientSuccess(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.client.EXPECT().RunOnUnit(gomock.Any(), "keystone/0", "true", time.Duration(0)).
		Return(exec.Result{Stdout: "ok"}, nil)

	result, err := remoterun.NewRunner(s.client).RunLenient(context.Background(), "keystone/0", "true", 0)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(result.Output(), gc.Equals, "ok")
}

func (s *runnerSuite) TestRunTransportError(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.client.EXPECT().RunOnUnit(gomock.Any(), "keystone/0", "true", time.Duration(0)).
		Return(exec.Result{}, errors.New("connection reset"))

	runner := remoterun.NewRunner(s.client)
	_, err := runner.RunStrict(context.Background(), "keystone/0", "true", 0)
	c.Assert(err, gc.ErrorMatches, `running "true" on keystone/0: connection reset`)
	c.Check(err, gc.Not(jc.Satisfies), remoterun.IsCommandRunFailed)
}

func (s *runnerSuite) TestResolveUnitNamesPassThrough(c *gc.C) {
	defer s.setupMocks(c).Finish()

	units, err := remoterun.NewRunner(s.client).ResolveUnitNames(context.Background(), []string{"keystone/1", "mysql/0"})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(units, jc.DeepEquals, []string{"keystone/1", "mysql/0"})
}

func (s *runnerSuite) TestResolveUnitNames(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.client.EXPECT().FirstUnitName(gomock.Any(), "keystone").Return("keystone/0", nil)

	units, err := remoterun.NewRunner(s.client).ResolveUnitNames(context.Background(), []string{"keystone", "mysql/0"})
	c.Assert(err, jc.ErrorIsNil)
	c.Check(units, jc.DeepEquals, []string{"keystone/0", "mysql/0"})
}

func (s *runnerSuite) TestResolveUnitNamesError(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.client.EXPECT().FirstUnitName(gomock.Any(), "glance").Return("", errors.NotFoundf("units of glance"))

	_, err := remoterun.NewRunner(s.client).ResolveUnitNames(context.Background(), []string{"glance"})
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
	c.Check(err, gc.ErrorMatches, `resolving unit of "glance": units of glance not found`)
}

func (s *runnerSuite) TestResolveUnitNamesInvalid(c *gc.C) {
	defer s.setupMocks(c).Finish()

	runner := remoterun.NewRunner(s.client)
	_, err := runner.ResolveUnitNames(context.Background(), []string{"keystone", "keystone/zero"})
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
	c.Check(err, gc.ErrorMatches, `unit name "keystone/zero" not valid`)

	_, err = runner.ResolveUnitNames(context.Background(), []string{"Keystone"})
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
	c.Check(err, gc.ErrorMatches, `application name "Keystone" not valid`)
}

func (s *runnerSuite) TestRelationData(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.client.EXPECT().RelationID(gomock.Any(), "keystone", "mysql", "shared-db").Return(7, nil)
	s.client.EXPECT().FirstUnitName(gomock.Any(), "mysql").Return("mysql/0", nil)
	s.client.EXPECT().RunOnUnit(gomock.Any(), "keystone/1", "relation-get --format=yaml -r 7 - mysql/0", time.Duration(0)).
		Return(exec.Result{Stdout: "db_host: 10.5.0.12\negress-subnets: 10.5.0.0/16\npassword: secret\n"}, nil)

	data, err := remoterun.NewRunner(s.client).RelationData(context.Background(), "keystone/1", "mysql", "shared-db")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(data, jc.DeepEquals, map[string]interface{}{
		"db_host":        "10.5.0.12",
		"egress-subnets": "10.5.0.0/16",
		"password":       "secret",
	})
}

func (s *runnerSuite) TestRelationDataCommandFailed(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.client.EXPECT().RelationID(gomock.Any(), "keystone", "mysql", "shared-db").Return(7, nil)
	s.client.EXPECT().FirstUnitName(gomock.Any(), "keystone").Return("keystone/0", nil)
	s.client.EXPECT().RunOnUnit(gomock.Any(), "keystone/0", "relation-get --format=yaml -r 7 - mysql/0", time.Duration(0)).
		Return(exec.Result{Code: 2, Stderr: "ERROR invalid unit name"}, nil)

	_, err := remoterun.NewRunner(s.client).RelationData(context.Background(), "keystone", "mysql/0", "shared-db")
	c.Assert(err, jc.Satisfies, remoterun.IsCommandRunFailed)
}

func (s *runnerSuite) TestRelationDataNoRelation(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.client.EXPECT().RelationID(gomock.Any(), "keystone", "glance", "identity-service").
		Return(0, errors.NotFoundf("relation"))

	_, err := remoterun.NewRunner(s.client).RelationData(context.Background(), "keystone", "glance", "identity-service")
	c.Assert(err, jc.Satisfies, errors.IsNotFound)
}

func (s *runnerSuite) TestRelationDataInvalidReference(c *gc.C) {
	defer s.setupMocks(c).Finish()

	_, err := remoterun.NewRunner(s.client).RelationData(context.Background(), "keystone", "mysql/", "shared-db")
	c.Assert(err, jc.Satisfies, errors.IsNotValid)
	c.Check(err, gc.ErrorMatches, `unit name "mysql/" not valid`)
}

func (s *runnerSuite) TestLeaderGetAll(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.client.EXPECT().RunOnLeader(gomock.Any(), "keystone", "leader-get --format=yaml").
		Return(exec.Result{Stdout: "admin_passwd: hunter2\ntoken-version: 2\n"}, nil)

	settings, err := remoterun.NewRunner(s.client).LeaderGet(context.Background(), "keystone", "")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(settings, jc.DeepEquals, map[string]interface{}{
		"admin_passwd":  "hunter2",
		"token-version": 2,
	})
}

func (s *runnerSuite) TestLeaderGetKey(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.client.EXPECT().RunOnLeader(gomock.Any(), "keystone", "leader-get --format=yaml admin_passwd").
		Return(exec.Result{Stdout: "hunter2\n"}, nil)

	settings, err := remoterun.NewRunner(s.client).LeaderGet(context.Background(), "keystone", "admin_passwd")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(settings, jc.DeepEquals, map[string]interface{}{"admin_passwd": "hunter2"})
}

func (s *runnerSuite) TestLeaderGetEmpty(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.client.EXPECT().RunOnLeader(gomock.Any(), "keystone", "leader-get --format=yaml").
		Return(exec.Result{Stdout: ""}, nil)

	settings, err := remoterun.NewRunner(s.client).LeaderGet(context.Background(), "keystone", "")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(settings, gc.HasLen, 0)
}

func (s *runnerSuite) TestLeaderGetFailed(c *gc.C) {
	defer s.setupMocks(c).Finish()
	s.client.EXPECT().RunOnLeader(gomock.Any(), "keystone", "leader-get --format=yaml").
		Return(exec.Result{Code: 1, Stderr: "not the leader"}, nil)

	_, err := remoterun.NewRunner(s.client).LeaderGet(context.Background(), "keystone", "")
	c.Assert(err, jc.Satisfies, remoterun.IsCommandRunFailed)
	c.Check(err, gc.ErrorMatches, `command "leader-get --format=yaml" failed with exit code 1: not the leader`)
}
