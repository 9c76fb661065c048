// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package entity handles references to applications and units, where a
// reference is either an application name ("keystone") or a unit name
// ("keystone/0").
package entity

import (
	"strings"

	"github.com/juju/errors"
	"github.com/juju/names/v5"
)

// Separator splits the application name from the unit number.
const Separator = "/"

// IsUnit reports whether ref names a unit rather than an application.
func IsUnit(ref string) bool {
	return strings.Contains(ref, Separator)
}

// ApplicationName returns the application part of ref. For an
// application name this is ref itself.
func ApplicationName(ref string) string {
	app, _, _ := strings.Cut(ref, Separator)
	return app
}

// Validate checks that ref is a well formed application or unit name.
func Validate(ref string) error {
	if IsUnit(ref) {
		if !names.IsValidUnit(ref) {
			return errors.NotValidf("unit name %q", ref)
		}
		return nil
	}
	return ValidateApplication(ref)
}

// ValidateApplication checks that name is a well formed application
// name. Unit names are rejected.
func ValidateApplication(name string) error {
	if !names.IsValidApplication(name) {
		return errors.NotValidf("application name %q", name)
	}
	return nil
}
