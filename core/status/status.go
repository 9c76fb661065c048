// Copyright 2016 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package status

// Status used to represent the status of an entity as reported by
// juju status. It applies to machine agents, unit agents, unit
// workloads and applications.
type Status string

// String returns a string representation of the Status.
func (s Status) String() string {
	return string(s)
}

// StatusInfo holds the current value of a status and the message
// that accompanies it.
type StatusInfo struct {
	Current Status `yaml:"current,omitempty"`
	Message string `yaml:"message,omitempty"`
	Since   string `yaml:"since,omitempty"`
	Version string `yaml:"version,omitempty"`
}

const (
	// Status values common to machine and unit agents.

	// Error means the entity requires human intervention
	// in order to operate correctly.
	Error Status = "error"

	// Started is set when the machine agent is actively
	// participating in the model.
	Started Status = "started"

	// Pending is set when the machine is not yet participating
	// in the model.
	Pending Status = "pending"

	// Down is set when the machine ought to be signalling activity,
	// but it cannot be detected.
	Down Status = "down"
)

const (
	// Status values specific to unit agents.

	// Allocating is set when the machine on which a unit is to be
	// hosted is still being spun up in the cloud.
	Allocating Status = "allocating"

	// Executing is set when the agent is running a hook or action.
	Executing Status = "executing"

	// Idle is set once the agent is installed and running, and it
	// will stay "idle" until a hook or an error moves it elsewhere.
	Idle Status = "idle"

	// Lost is set when the unit agent has not communicated with the
	// juju server for an unexpectedly long time.
	Lost Status = "lost"
)

const (
	// Status values specific to applications and units, reflecting the
	// state of the software itself.

	// Maintenance is set when the unit is not yet providing services,
	// but is actively doing stuff in preparation for providing them.
	Maintenance Status = "maintenance"

	// Unknown is set when the charm has not called status-set yet.
	Unknown Status = "unknown"

	// Waiting is set when the unit is unable to progress to an active
	// state because an application to which it is related is not running.
	Waiting Status = "waiting"

	// Blocked is set when the unit needs manual intervention.
	Blocked Status = "blocked"

	// Active is set when the unit believes it is correctly offering
	// all the services it has been asked to offer.
	Active Status = "active"
)

// Settled reports whether an agent status means the agent is not
// doing anything and is not going to.
func (s Status) Settled() bool {
	return s == Idle
}
