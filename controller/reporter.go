package controller

import (
	"context"
	"errors"

	"github.com/calvinmclean/servospeed"
)

type reporter interface {
	Report(ctx context.Context, m servospeed.Measurement) error
}

type noopReporter struct{}

var _ reporter = noopReporter{}

// Report implements reporter.
func (n noopReporter) Report(context.Context, servospeed.Measurement) error {
	return nil
}

// reporters sends each measurement to all of its members and joins their errors
type reporters []reporter

var _ reporter = reporters{}

// Report implements reporter.
func (rs reporters) Report(ctx context.Context, m servospeed.Measurement) error {
	var errs []error
	for _, r := range rs {
		errs = append(errs, r.Report(ctx, m))
	}
	return errors.Join(errs...)
}
