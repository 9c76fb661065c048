// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package config validates loosely typed option maps, such as the
// tests_options blocks of tests.yaml, against an environschema.
package config

import (
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/schema"
	"gopkg.in/juju/environschema.v1"
)

// ConfigAttributes is the coerced set of options.
type ConfigAttributes map[string]interface{}

// Config holds options that have been checked against a schema.
type Config struct {
	attributes ConfigAttributes
}

// NewConfig coerces attrs using fields and defaults. Keys not named in
// fields are rejected.
func NewConfig(attrs map[string]interface{}, fields environschema.Fields, defaults schema.Defaults) (*Config, error) {
	known := KnownConfigKeys(fields)
	for key, value := range attrs {
		if !known.Contains(key) {
			return nil, errors.NotValidf("unknown key %q (value %#v)", key, value)
		}
	}
	checker, err := schemaChecker(fields, defaults)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	coerced, err := checker.Coerce(attrs, nil)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Config{attributes: coerced.(map[string]interface{})}, nil
}

func schemaChecker(fields environschema.Fields, defaults schema.Defaults) (schema.Checker, error) {
	schemaFields, schemaDefaults, err := fields.ValidationSchema()
	if err != nil {
		return nil, errors.Trace(err)
	}
	for key, value := range defaults {
		schemaDefaults[key] = value
	}
	return schema.StrictFieldMap(schemaFields, schemaDefaults), nil
}

// KnownConfigKeys returns the names of the fields.
func KnownConfigKeys(fields environschema.Fields) set.Strings {
	keys := set.NewStrings()
	for name := range fields {
		keys.Add(name)
	}
	return keys
}

// Attributes returns a copy of the coerced options.
func (c *Config) Attributes() ConfigAttributes {
	if c == nil {
		return nil
	}
	result := make(ConfigAttributes, len(c.attributes))
	for key, value := range c.attributes {
		result[key] = value
	}
	return result
}

// GetString returns the string value of key, or defaultValue.
func (c ConfigAttributes) GetString(key string, defaultValue string) string {
	if value, ok := c[key].(string); ok {
		return value
	}
	return defaultValue
}
