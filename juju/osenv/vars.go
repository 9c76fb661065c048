// Copyright 2013 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package osenv

const (
	// JujuXDGDataHomeEnvKey overrides where the juju client keeps its
	// local data, clouds.yaml included.
	JujuXDGDataHomeEnvKey = "JUJU_DATA"

	// XDGDataHome is the freedesktop variable for user data files.
	XDGDataHome = "XDG_DATA_HOME"

	// JujuModelEnvKey names the model commands run against when no
	// model is given explicitly.
	JujuModelEnvKey = "JUJU_MODEL"

	// JujuLoggingConfigEnvKey holds a loggo configuration string.
	JujuLoggingConfigEnvKey = "JUJU_LOGGING_CONFIG"
)
