// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package exec holds the result envelope of a command run on a unit.
package exec

import (
	"github.com/juju/errors"
	"gopkg.in/yaml.v2"
)

// Result is the outcome of running a single command on a unit.
type Result struct {
	Code   int    `yaml:"return-code"`
	Stdout string `yaml:"stdout,omitempty"`
	Stderr string `yaml:"stderr,omitempty"`
}

// Succeeded reports whether the command exited with code 0.
func (r Result) Succeeded() bool {
	return r.Code == 0
}

// Output returns stdout when the command succeeded and stderr when it
// did not.
func (r Result) Output() string {
	if r.Succeeded() {
		return r.Stdout
	}
	return r.Stderr
}

type unitRun struct {
	Unit    string `yaml:"unit"`
	Status  string `yaml:"status"`
	Message string `yaml:"message,omitempty"`
	Results Result `yaml:"results"`
}

// ParseResults decodes the yaml output of "juju exec", keyed by the
// name of the unit each command ran on.
func ParseResults(data []byte) (map[string]Result, error) {
	var runs map[string]unitRun
	if err := yaml.Unmarshal(data, &runs); err != nil {
		return nil, errors.Annotate(err, "cannot parse exec results")
	}
	results := make(map[string]Result, len(runs))
	for unit, run := range runs {
		if run.Unit != "" {
			unit = run.Unit
		}
		if run.Status == "failed" && run.Results.Code == 0 && run.Results.Stderr == "" {
			// The task never ran the command; surface the reason.
			run.Results.Code = 1
			run.Results.Stderr = run.Message
		}
		results[unit] = run.Results
	}
	return results, nil
}
