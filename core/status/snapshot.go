// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

import (
	"github.com/juju/errors"
	"github.com/juju/naturalsort"
	"gopkg.in/yaml.v2"

	"github.com/juju/zaza/core/entity"
)

// FullStatus is a point in time read of a model, as rendered by
// "juju status --format=yaml". It is never updated after it has been
// decoded; a new read produces a new value.
type FullStatus struct {
	Applications map[string]ApplicationStatus `yaml:"applications"`
	Machines     map[string]MachineStatus     `yaml:"machines"`
}

// ApplicationStatus holds the status of a single application.
type ApplicationStatus struct {
	Charm         string                `yaml:"charm"`
	CharmChannel  string                `yaml:"charm-channel,omitempty"`
	Series        string                `yaml:"series,omitempty"`
	Exposed       bool                  `yaml:"exposed"`
	Status        StatusInfo            `yaml:"application-status"`
	Units         map[string]UnitStatus `yaml:"units,omitempty"`
	SubordinateTo []string              `yaml:"subordinate-to,omitempty"`
	Relations     map[string][]string   `yaml:"relations,omitempty"`
}

// UnitStatus holds the status of a single unit.
type UnitStatus struct {
	WorkloadStatus StatusInfo            `yaml:"workload-status"`
	AgentStatus    StatusInfo            `yaml:"juju-status"`
	Leader         bool                  `yaml:"leader,omitempty"`
	Machine        string                `yaml:"machine,omitempty"`
	PublicAddress  string                `yaml:"public-address,omitempty"`
	Subordinates   map[string]UnitStatus `yaml:"subordinates,omitempty"`
}

// MachineStatus holds the status of a single machine. Fields that are
// not modelled explicitly are kept in Other so that they can still be
// looked up by key.
type MachineStatus struct {
	AgentStatus StatusInfo             `yaml:"juju-status"`
	Hostname    string                 `yaml:"hostname,omitempty"`
	DNSName     string                 `yaml:"dns-name,omitempty"`
	InstanceID  string                 `yaml:"instance-id,omitempty"`
	Series      string                 `yaml:"series,omitempty"`
	Other       map[string]interface{} `yaml:",inline"`
}

// ParseFullStatus decodes the yaml output of juju status.
func ParseFullStatus(data []byte) (FullStatus, error) {
	var result FullStatus
	if err := yaml.Unmarshal(data, &result); err != nil {
		return FullStatus{}, errors.Annotate(err, "cannot parse status")
	}
	return result, nil
}

// Application returns the named application's status, and whether the
// snapshot holds a record for it.
func (s FullStatus) Application(name string) (ApplicationStatus, bool) {
	app, ok := s.Applications[name]
	return app, ok
}

// Machine returns the status of the machine with the given id, and
// whether the snapshot holds a record for it.
func (s FullStatus) Machine(id string) (MachineStatus, bool) {
	machine, ok := s.Machines[id]
	return machine, ok
}

// Unit returns the named unit's status, and whether the application
// holds a record for it. Subordinate units are not listed here; they
// hang off their principal unit.
func (a ApplicationStatus) Unit(name string) (UnitStatus, bool) {
	unit, ok := a.Units[name]
	return unit, ok
}

// UnitNames returns the names of the application's units in natural
// order, so "app/2" sorts before "app/10".
func (a ApplicationStatus) UnitNames() []string {
	names := make([]string, 0, len(a.Units))
	for name := range a.Units {
		names = append(names, name)
	}
	return naturalsort.Sort(names)
}

// IsSubordinate reports whether the application runs alongside the
// units of another application instead of having units of its own.
func (a ApplicationStatus) IsSubordinate() bool {
	return a.Units == nil && len(a.SubordinateTo) > 0
}

// Field returns the value of the named machine field as it appears
// in the yaml output.
func (m MachineStatus) Field(key string) (interface{}, bool) {
	switch key {
	case "juju-status":
		return m.AgentStatus, true
	case "hostname":
		return m.Hostname, m.Hostname != ""
	case "dns-name":
		return m.DNSName, m.DNSName != ""
	case "instance-id":
		return m.InstanceID, m.InstanceID != ""
	case "series":
		return m.Series, m.Series != ""
	}
	value, ok := m.Other[key]
	return value, ok
}

// AllUnitNames returns the units of the named application in natural
// order. Units of a subordinate application are collected from the
// principal units they are attached to.
func (s FullStatus) AllUnitNames(application string) []string {
	app, ok := s.Application(application)
	if !ok {
		return nil
	}
	if !app.IsSubordinate() {
		return app.UnitNames()
	}
	var names []string
	for _, principal := range app.SubordinateTo {
		for _, unit := range s.Applications[principal].Units {
			for name := range unit.Subordinates {
				if entity.ApplicationName(name) == application {
					names = append(names, name)
				}
			}
		}
	}
	return naturalsort.Sort(names)
}
