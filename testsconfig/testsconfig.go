// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package testsconfig reads the tests.yaml file that sits alongside a
// charm's functional test bundles.
package testsconfig

import (
	"os"

	"github.com/juju/errors"
	"github.com/juju/schema"
	"gopkg.in/juju/environschema.v1"
	"gopkg.in/yaml.v2"

	"github.com/juju/zaza/core/config"
)

// DefaultPath is where tests.yaml is found, relative to the charm root.
const DefaultPath = "tests/tests.yaml"

// TestsConfig is the decoded content of tests.yaml.
type TestsConfig struct {
	CharmName    string                            `yaml:"charm_name"`
	GateBundles  []interface{}                     `yaml:"gate_bundles,omitempty"`
	SmokeBundles []interface{}                     `yaml:"smoke_bundles,omitempty"`
	Options      map[string]map[string]interface{} `yaml:"tests_options,omitempty"`
}

// Parse decodes the contents of a tests.yaml file.
func Parse(data []byte) (*TestsConfig, error) {
	var cfg TestsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Annotate(err, "cannot parse tests.yaml")
	}
	return &cfg, nil
}

// ReadFile reads and decodes the tests.yaml file at path.
func ReadFile(path string) (*TestsConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	cfg, err := Parse(data)
	return cfg, errors.Annotatef(err, "reading %s", path)
}

const (
	serviceKey      = "service"
	resourceNameKey = "resource-name"
	configKeyKey    = "config-key"
)

var policydSchema = environschema.Fields{
	serviceKey: {
		Description: "The service whose policy.d directory receives the overrides.",
		Type:        environschema.Tstring,
		Mandatory:   true,
	},
	resourceNameKey: {
		Description: "The charm resource the override archive is attached as.",
		Type:        environschema.Tstring,
	},
	configKeyKey: {
		Description: "The charm option that enables policy overrides.",
		Type:        environschema.Tstring,
	},
}

var policydDefaults = schema.Defaults{
	resourceNameKey: "policyd-override",
	configKeyKey:    "use-policyd-override",
}

// PolicydOptions holds the policyd block of tests_options.
type PolicydOptions struct {
	validAttrs config.ConfigAttributes
}

// Service is the name of the service, as in /etc/<service>/policy.d.
func (o PolicydOptions) Service() string {
	return o.validAttrs.GetString(serviceKey, "")
}

// ResourceName is the name of the charm resource holding the overrides.
func (o PolicydOptions) ResourceName() string {
	return o.validAttrs.GetString(resourceNameKey, "")
}

// ConfigKey is the boolean charm option that turns overrides on.
func (o PolicydOptions) ConfigKey() string {
	return o.validAttrs.GetString(configKeyKey, "")
}

// PolicydOptions validates and returns tests_options.policyd.
func (c *TestsConfig) PolicydOptions() (PolicydOptions, error) {
	attrs, ok := c.Options["policyd"]
	if !ok {
		return PolicydOptions{}, errors.NotFoundf("tests_options.policyd")
	}
	return NewPolicydOptions(attrs)
}

// NewPolicydOptions validates policyd options given as a map, as they
// would appear under tests_options.policyd.
func NewPolicydOptions(attrs map[string]interface{}) (PolicydOptions, error) {
	cfg, err := config.NewConfig(attrs, policydSchema, policydDefaults)
	if err != nil {
		return PolicydOptions{}, errors.Annotate(err, "invalid tests_options.policyd")
	}
	return PolicydOptions{validAttrs: cfg.Attributes()}, nil
}
