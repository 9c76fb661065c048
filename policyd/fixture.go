// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package policyd

import (
	"github.com/juju/errors"
	"github.com/spf13/afero"
)

// Fixture owns the local staging directory the override archives are
// built in. It is created once per scenario and closed when the scenario
// is over, whatever the outcome.
type Fixture struct {
	fs  afero.Fs
	dir string
}

// NewFixture creates a fresh staging directory on fs.
func NewFixture(fs afero.Fs) (*Fixture, error) {
	dir, err := afero.TempDir(fs, "", "policyd-")
	if err != nil {
		return nil, errors.Annotate(err, "creating policyd staging directory")
	}
	logger.Debugf("staging policy overrides in %s", dir)
	return &Fixture{fs: fs, dir: dir}, nil
}

// Dir returns the staging directory.
func (f *Fixture) Dir() string {
	return f.dir
}

// Close removes the staging directory. Failure is logged and otherwise
// ignored, so Close never masks the scenario's result.
func (f *Fixture) Close() {
	if err := f.fs.RemoveAll(f.dir); err != nil {
		logger.Errorf("removing the policyd staging directory failed: %v", err)
	}
}
