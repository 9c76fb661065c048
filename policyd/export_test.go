// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package policyd

import "github.com/spf13/afero"

func SetFixtureFs(f *Fixture, fs afero.Fs) {
	f.fs = fs
}

func SuiteStagingDir(s *Suite) string {
	return s.fixture.Dir()
}
