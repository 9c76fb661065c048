// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package osenv

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/juju/utils/v4"
)

var (
	jujuXDGDataHomeMu sync.Mutex
	jujuXDGDataHome   string
)

// SetJujuXDGDataHome sets the value of the juju data directory, overriding
// whatever the environment says, and returns the previous value.
func SetJujuXDGDataHome(newJujuXDGDataHome string) string {
	jujuXDGDataHomeMu.Lock()
	defer jujuXDGDataHomeMu.Unlock()

	old := jujuXDGDataHome
	jujuXDGDataHome = newJujuXDGDataHome
	return old
}

// JujuXDGDataHome returns the directory set with SetJujuXDGDataHome, or
// JujuXDGDataHomeDir if none has been set.
func JujuXDGDataHome() string {
	jujuXDGDataHomeMu.Lock()
	defer jujuXDGDataHomeMu.Unlock()

	if jujuXDGDataHome == "" {
		return JujuXDGDataHomeDir()
	}
	return jujuXDGDataHome
}

// JujuXDGDataHomePath returns the path to a file in the juju data
// directory.
func JujuXDGDataHomePath(names ...string) string {
	all := append([]string{JujuXDGDataHome()}, names...)
	return filepath.Join(all...)
}

// JujuXDGDataHomeDir returns the directory the juju client keeps its
// data in: $JUJU_DATA, $XDG_DATA_HOME/juju or ~/.local/share/juju, in
// that order of preference.
func JujuXDGDataHomeDir() string {
	if dir := os.Getenv(JujuXDGDataHomeEnvKey); dir != "" {
		return dir
	}
	if dir := os.Getenv(XDGDataHome); dir != "" {
		return filepath.Join(dir, "juju")
	}
	home := utils.Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".local", "share", "juju")
}
