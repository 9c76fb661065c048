// Copyright 2018 Canonical Ltd.
// Licensed under the LGPLv3, see LICENCE file for details.

package testing

import (
	"time"

	"github.com/juju/loggo/v2"
	"github.com/juju/testing"
	gc "gopkg.in/check.v1"
)

// LongWait is used when something should have already happened, or happens
// quickly, but we want to make sure we just haven't missed it. As in, the test
// suite should proceed without sleeping at all, but just in case. It is long
// so that we don't have spurious failures without actually slowing down the
// test suite
const LongWait = 10 * time.Second

// BaseSuite isolates tests from the environment of the user running
// them and resets logging between tests.
type BaseSuite struct {
	testing.IsolationSuite
}

func (s *BaseSuite) SetUpTest(c *gc.C) {
	s.IsolationSuite.SetUpTest(c)
	loggo.ResetLogging()
	s.AddCleanup(func(*gc.C) { loggo.ResetLogging() })
}
