// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package policyd exercises a charm's policy override support: an
// archive of policy files attached as a resource is installed under
// /etc/<service>/policy.d while the charm option is on, and removed
// again once it is switched off.
package policyd

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/spf13/afero"

	"github.com/juju/zaza/core/status"
	"github.com/juju/zaza/testsconfig"
	"github.com/juju/zaza/utils/zip"
)

var logger = loggo.GetLogger("zaza.policyd")

// ModelClient changes the deployed application.
type ModelClient interface {
	SetApplicationConfig(ctx context.Context, application string, settings map[string]string) error
	AttachResource(ctx context.Context, application, name, path string) error
}

// Waiter blocks until the model converges.
type Waiter interface {
	UntilAllUnitsIdle(ctx context.Context) error
	UntilFileHasContents(ctx context.Context, application, path, contents string) error
	UntilFileAbsent(ctx context.Context, application, path string) error
}

// StatusReader reads an application's status.
type StatusReader interface {
	ApplicationStatus(ctx context.Context, application string) (*status.ApplicationStatus, error)
}

// Config holds what the policy override scenario runs against.
type Config struct {
	// Application is the deployed application under test.
	Application string

	// Options are the tests_options.policyd settings.
	Options testsconfig.PolicydOptions

	Client ModelClient
	Waiter Waiter
	Status StatusReader

	// Fs is where archives are staged; the local disk when nil.
	Fs afero.Fs
}

// Validate checks the configuration, filling in defaults.
func (c *Config) Validate() error {
	if c.Application == "" {
		return errors.NotValidf("empty Application")
	}
	if c.Options.Service() == "" {
		return errors.NotValidf("empty service")
	}
	if c.Client == nil {
		return errors.NotValidf("nil Client")
	}
	if c.Waiter == nil {
		return errors.NotValidf("nil Waiter")
	}
	if c.Status == nil {
		return errors.NotValidf("nil Status")
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	return nil
}

// Suite runs the policy override checks against one application.
type Suite struct {
	cfg     Config
	fixture *Fixture
}

// NewSuite validates cfg and creates the staging fixture. The caller
// must Close the suite.
func NewSuite(cfg Config) (*Suite, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	fixture, err := NewFixture(cfg.Fs)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Suite{cfg: cfg, fixture: fixture}, nil
}

// Close releases the staging fixture.
func (s *Suite) Close() {
	s.fixture.Close()
}

// SetConfigAndWait switches the override option on or off, then waits for
// every unit to go idle.
func (s *Suite) SetConfigAndWait(ctx context.Context, enabled bool) error {
	value := "False"
	if enabled {
		value = "True"
	}
	settings := map[string]string{s.cfg.Options.ConfigKey(): value}
	logger.Infof("Setting config to %v", settings)
	if err := s.cfg.Client.SetApplicationConfig(ctx, s.cfg.Application, settings); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(s.cfg.Waiter.UntilAllUnitsIdle(ctx))
}

// MakeZipFileFrom writes a zip archive called name into the staging
// directory, holding one entry per file, and returns its path.
func (s *Suite) MakeZipFileFrom(name string, files map[string]string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", errors.NotValidf("archive name %q", name)
	}
	archive := filepath.Join(s.fixture.Dir(), name)
	if err := zip.WriteFiles(s.cfg.Fs, archive, files); err != nil {
		return "", errors.Annotatef(err, "making %s", name)
	}
	return archive, nil
}

// PolicyFilePath returns where the named override file is installed on
// the application's units.
func (s *Suite) PolicyFilePath(file string) string {
	return path.Join("/etc", s.cfg.Options.Service(), "policy.d", file)
}

// TearDown leaves the application with overrides switched off and every
// unit idle.
func (s *Suite) TearDown(ctx context.Context) error {
	return errors.Annotate(s.SetConfigAndWait(ctx, false), "tearing down")
}

const (
	goodFile     = "file1.yaml"
	goodContents = "{'rule1': '!'}"
	goodInstall  = "rule1: '!'"
)

// TestGoodYAML checks that a valid override archive is installed while
// the option is on and removed once it is off.
func (s *Suite) TestGoodYAML(ctx context.Context) error {
	archive, err := s.MakeZipFileFrom("good.zip", map[string]string{goodFile: goodContents})
	if err != nil {
		return errors.Trace(err)
	}
	app := s.cfg.Application

	logger.Infof("About to attach the resource")
	if err := s.cfg.Client.AttachResource(ctx, app, s.cfg.Options.ResourceName(), archive); err != nil {
		return errors.Trace(err)
	}
	logger.Infof("... waiting for idle")
	if err := s.cfg.Waiter.UntilAllUnitsIdle(ctx); err != nil {
		return errors.Trace(err)
	}

	logger.Infof("Now setting config to true")
	if err := s.SetConfigAndWait(ctx, true); err != nil {
		return errors.Trace(err)
	}
	policyFile := s.PolicyFilePath(goodFile)
	logger.Infof("Now checking for file contents: %s", policyFile)
	if err := s.cfg.Waiter.UntilFileHasContents(ctx, app, policyFile, goodInstall); err != nil {
		return errors.Trace(err)
	}
	logger.Infof("... waiting for idle")
	if err := s.cfg.Waiter.UntilAllUnitsIdle(ctx); err != nil {
		return errors.Trace(err)
	}

	appStatus, err := s.cfg.Status.ApplicationStatus(ctx, app)
	if err != nil {
		return errors.Trace(err)
	}
	if appStatus == nil {
		return errors.NotFoundf("status of application %q", app)
	}
	logger.Infof("App status is: %s: %s", appStatus.Status.Current, appStatus.Status.Message)

	logger.Infof("Now setting config to false")
	if err := s.SetConfigAndWait(ctx, false); err != nil {
		return errors.Trace(err)
	}
	logger.Infof("Now checking %s has been removed", policyFile)
	if err := s.cfg.Waiter.UntilFileAbsent(ctx, app, policyFile); err != nil {
		return errors.Trace(err)
	}
	logger.Infof("...done")
	return nil
}
