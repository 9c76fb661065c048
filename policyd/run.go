// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package policyd

import (
	"context"

	"github.com/juju/errors"
)

// Run sets up the scenario, runs every check and tears it down. Tear down
// runs on every exit path, even after ctx is cancelled, and a failure
// there is only reported when the checks themselves passed.
func Run(ctx context.Context, cfg Config) error {
	suite, err := NewSuite(cfg)
	if err != nil {
		return errors.Trace(err)
	}
	defer suite.Close()

	testErr := suite.TestGoodYAML(ctx)
	tearDownErr := suite.TearDown(context.WithoutCancel(ctx))
	if testErr != nil {
		if tearDownErr != nil {
			logger.Errorf("%v", tearDownErr)
		}
		return errors.Annotate(testErr, "policyd good yaml")
	}
	return errors.Trace(tearDownErr)
}
