// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package remoterun

import (
	"fmt"
	"strings"

	"github.com/juju/errors"

	"github.com/juju/zaza/core/exec"
)

// CommandRunFailedError is returned when a command run on a unit exits
// with a non-zero code. It holds everything the unit reported.
type CommandRunFailedError struct {
	Command string
	Result  exec.Result
}

// Error implements error.
func (e *CommandRunFailedError) Error() string {
	msg := fmt.Sprintf("command %q failed with exit code %d", e.Command, e.Result.Code)
	if stderr := strings.TrimSpace(e.Result.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// IsCommandRunFailed reports whether err, or any error it wraps, is a
// *CommandRunFailedError.
func IsCommandRunFailed(err error) bool {
	var target *CommandRunFailedError
	return errors.As(err, &target)
}
