// Copyright 2015 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

/*
Package core holds the data types shared by the test helpers: the status
snapshot of a model, the result of a command run on a unit, entity names
and validated option sets.

Subpackages of core hold pure logic only. They decode and inspect data
but never talk to a controller or run a command, and they never import
any other package of this module.
*/
package core
