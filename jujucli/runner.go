// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package jujucli

import (
	"bytes"
	"context"
	osexec "os/exec"
	"strings"

	"github.com/juju/errors"
	"github.com/kballard/go-shellquote"
)

// CommandRunner runs the juju client with the given arguments and returns
// what it wrote to stdout. It is the point at which tests swap in a fake
// so that no juju binary is needed.
type CommandRunner interface {
	RunCommand(ctx context.Context, args []string) ([]byte, error)
}

// DefaultBinary is the juju client looked up on $PATH.
const DefaultBinary = "juju"

// BinaryRunner runs a juju client binary.
type BinaryRunner struct {
	// Path to the binary; DefaultBinary when empty.
	Path string
}

// RunCommand implements CommandRunner. When the binary exits non-zero,
// whatever it wrote to stdout is returned with the error, which carries
// the binary's stderr.
func (r BinaryRunner) RunCommand(ctx context.Context, args []string) ([]byte, error) {
	path := r.Path
	if path == "" {
		path = DefaultBinary
	}
	cmd := osexec.CommandContext(ctx, path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		return out, errors.Errorf("running %s: %s", shellquote.Join(append([]string{path}, args...)...), msg)
	}
	return out, errors.Annotatef(err, "running %s", shellquote.Join(append([]string{path}, args...)...))
}
