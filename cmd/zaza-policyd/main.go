// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// zaza-policyd checks that a deployed OpenStack charm installs and
// removes policy overrides as its use-policyd-override option is
// switched on and off.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/errors"
	"github.com/juju/gnuflag"
	"github.com/juju/loggo/v2"

	"github.com/juju/zaza/cloud"
	"github.com/juju/zaza/core/entity"
	"github.com/juju/zaza/juju/osenv"
	"github.com/juju/zaza/jujucli"
	"github.com/juju/zaza/modelstatus"
	"github.com/juju/zaza/policyd"
	"github.com/juju/zaza/remoterun"
	"github.com/juju/zaza/testsconfig"
	"github.com/juju/zaza/wait"
)

var logger = loggo.GetLogger("zaza.cmd.policyd")

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type commandLineArgs struct {
	model         string
	application   string
	testsYAML     string
	service       string
	timeout       time.Duration
	loggingConfig string
	jujuBinary    string
}

func parseArgs(args []string, stderr io.Writer) (commandLineArgs, error) {
	var a commandLineArgs
	f := gnuflag.NewFlagSet("zaza-policyd", gnuflag.ContinueOnError)
	f.SetOutput(stderr)
	model := os.Getenv(osenv.JujuModelEnvKey)
	f.StringVar(&a.model, "m", model, "juju model to test")
	f.StringVar(&a.model, "model", model, "")
	f.StringVar(&a.application, "application", "", "application under test (default: charm_name from tests.yaml)")
	f.StringVar(&a.testsYAML, "tests-yaml", testsconfig.DefaultPath, "path to tests.yaml")
	f.StringVar(&a.service, "service", "", "service whose policy.d is checked (overrides tests.yaml)")
	f.DurationVar(&a.timeout, "timeout", wait.DefaultTimeout, "maximum time for any single wait")
	f.StringVar(&a.loggingConfig, "logging-config", os.Getenv(osenv.JujuLoggingConfigEnvKey), "loggo configuration")
	f.StringVar(&a.jujuBinary, "juju", jujucli.DefaultBinary, "juju client binary")
	if err := f.Parse(true, args); err != nil {
		return a, err
	}
	if len(f.Args()) > 0 {
		return a, errors.Errorf("unrecognized args: %q", f.Args())
	}
	return a, nil
}

// resolveOptions merges tests.yaml with the command line. A missing
// tests.yaml is fine when the command line says everything needed.
func resolveOptions(a commandLineArgs) (string, testsconfig.PolicydOptions, error) {
	application := a.application
	attrs := map[string]interface{}{}
	cfg, err := testsconfig.ReadFile(a.testsYAML)
	switch {
	case err == nil:
		if application == "" {
			application = cfg.CharmName
		}
		for key, value := range cfg.Options["policyd"] {
			attrs[key] = value
		}
	case errors.Is(err, os.ErrNotExist) && a.service != "" && application != "":
		logger.Debugf("no %s, using command line options", a.testsYAML)
	default:
		return "", testsconfig.PolicydOptions{}, errors.Trace(err)
	}
	if a.service != "" {
		attrs["service"] = a.service
	}
	if application == "" {
		return "", testsconfig.PolicydOptions{}, errors.New("no application given and no charm_name in tests.yaml")
	}
	if err := entity.ValidateApplication(application); err != nil {
		return "", testsconfig.PolicydOptions{}, errors.Trace(err)
	}
	opts, err := testsconfig.NewPolicydOptions(attrs)
	if err != nil {
		return "", testsconfig.PolicydOptions{}, errors.Trace(err)
	}
	return application, opts, nil
}

func run(ctx context.Context, args []string, stderr io.Writer, runner jujucli.CommandRunner) int {
	a, err := parseArgs(args, stderr)
	if err == gnuflag.ErrHelp {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return exitUsage
	}
	if err := setupLogging(stderr, a.loggingConfig); err != nil {
		fmt.Fprintf(stderr, "ERROR parsing logging config: %v\n", err)
		return exitUsage
	}
	application, opts, err := resolveOptions(a)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return exitUsage
	}
	if runner == nil {
		runner = jujucli.BinaryRunner{Path: a.jujuBinary}
	}

	client := jujucli.NewClient(a.model, runner)
	if providerType, err := cloud.ProviderType(ctx, client); err != nil {
		logger.Warningf("cannot determine controller cloud type: %v", err)
	} else {
		logger.Infof("controller cloud type is %s", providerType)
	}

	waiter, err := wait.NewWaiter(wait.Config{
		Status:  client,
		Runner:  remoterun.NewRunner(client),
		Timeout: a.timeout,
	})
	if err != nil {
		fmt.Fprintf(stderr, "ERROR %v\n", err)
		return exitUsage
	}
	err = policyd.Run(ctx, policyd.Config{
		Application: application,
		Options:     opts,
		Client:      client,
		Waiter:      waiter,
		Status:      modelstatus.NewQuery(client),
	})
	if err != nil {
		logger.Errorf("%v", err)
		return exitError
	}
	logger.Infof("policyd tests for %q passed", application)
	return exitOK
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func main() {
	ctx, stop := signalContext(context.Background())
	code := run(ctx, os.Args[1:], os.Stderr, nil)
	stop()
	os.Exit(code)
}
